// Copyright (c) 2025, Andrey Nering <andrey@nering.com.br>
// See LICENSE for licensing information

package builtin

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ricsam/shelldsl/interp"
)

// grep prints each input line matching pat, read from named files or
// stdin when none are given. Supports -v (invert), -i (case
// insensitive), -n (line numbers). The pattern dialect is Go's RE2
// syntax rather than POSIX BRE/ERE, a documented simplification — the
// shell's own glob dialect (pattern package) solves a different
// problem (whole-path matching) and isn't reused here.
func grep(_ context.Context, c *interp.CommandContext) (int, error) {
	var invert, icase, numbered bool
	args := c.Args
	for len(args) > 0 && strings.HasPrefix(args[0], "-") && args[0] != "-" {
		switch args[0] {
		case "-v":
			invert = true
		case "-i":
			icase = true
		case "-n":
			numbered = true
		default:
			fmt.Fprintf(c.Stderr, "grep: unknown option %s\n", args[0])
			return 2, nil
		}
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintln(c.Stderr, "grep: missing pattern")
		return 2, nil
	}
	pat := args[0]
	files := args[1:]
	if icase {
		pat = "(?i)" + pat
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		fmt.Fprintf(c.Stderr, "grep: %v\n", err)
		return 2, nil
	}

	matched := false
	scanSource := func(name string, r *bufio.Scanner) int {
		line := 0
		for r.Scan() {
			line++
			if re.MatchString(r.Text()) != invert {
				matched = true
				if numbered {
					fmt.Fprintf(c.Stdout, "%d:%s\n", line, r.Text())
				} else {
					fmt.Fprintf(c.Stdout, "%s\n", r.Text())
				}
			}
		}
		return 0
	}

	if len(files) == 0 {
		scanSource("-", bufio.NewScanner(c.Stdin))
	} else {
		for _, name := range files {
			path := c.FS.Resolve(c.Cwd, name)
			data, err := c.FS.ReadFile(path)
			if err != nil {
				fmt.Fprintf(c.Stderr, "grep: %s: %v\n", name, err)
				continue
			}
			scanSource(name, bufio.NewScanner(strings.NewReader(string(data))))
		}
	}

	if !matched {
		return 1, nil
	}
	return 0, nil
}
