// Copyright (c) 2025, Andrey Nering <andrey@nering.com.br>
// See LICENSE for licensing information

package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/ricsam/shelldsl/interp"
)

// cat streams stdin to stdout when given no operands, or each named
// file in turn otherwise; a missing file is reported and skipped
// without aborting the remaining operands, matching the non-fatal
// per-file error style of real coreutils cat.
func cat(_ context.Context, c *interp.CommandContext) (int, error) {
	if len(c.Args) == 0 {
		if _, err := io.Copy(c.Stdout, c.Stdin); err != nil {
			return 1, nil
		}
		return 0, nil
	}

	code := 0
	for _, arg := range c.Args {
		path := c.FS.Resolve(c.Cwd, arg)
		data, err := c.FS.ReadFile(path)
		if err != nil {
			fmt.Fprintf(c.Stderr, "cat: %s: %v\n", arg, err)
			code = 1
			continue
		}
		if _, err := c.Stdout.Write(data); err != nil {
			return 1, nil
		}
	}
	return code, nil
}
