// Copyright (c) 2025, Andrey Nering <andrey@nering.com.br>
// See LICENSE for licensing information

package builtin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ricsam/shelldsl/interp"
)

// printfCmd implements a small subset of POSIX printf: %s, %d, %%, the
// \n, \t and \\ escapes and literal text, with the format recycled over any extra arguments the
// way the real builtin does when more operands are given than
// conversions in the format.
func printfCmd(_ context.Context, c *interp.CommandContext) (int, error) {
	if len(c.Args) == 0 {
		fmt.Fprintln(c.Stderr, "printf: usage: printf format [arguments]")
		return 2, nil
	}
	format := c.Args[0]
	rest := c.Args[1:]

	var out strings.Builder
	i := 0
	for {
		n, err := renderOnce(&out, format, rest, &i)
		if err != nil {
			fmt.Fprintf(c.Stderr, "printf: %v\n", err)
			return 1, nil
		}
		if n == 0 || i >= len(rest) {
			break
		}
	}
	c.Stdout.WriteText(out.String())
	return 0, nil
}

// renderOnce expands format once, consuming arguments from rest
// starting at *argIdx, and returns how many conversions it consumed.
func renderOnce(out *strings.Builder, format string, rest []string, argIdx *int) (int, error) {
	consumed := 0
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '\\' && i+1 < len(runes) {
			i++
			switch runes[i] {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case '\\':
				out.WriteByte('\\')
			default:
				out.WriteByte('\\')
				out.WriteRune(runes[i])
			}
			continue
		}
		if ch != '%' || i == len(runes)-1 {
			out.WriteRune(ch)
			continue
		}
		i++
		switch runes[i] {
		case '%':
			out.WriteByte('%')
		case 's':
			out.WriteString(nextArg(rest, argIdx))
			consumed++
		case 'd':
			v := nextArg(rest, argIdx)
			n, err := strconv.Atoi(v)
			if err != nil {
				return consumed, fmt.Errorf("invalid number %q", v)
			}
			out.WriteString(strconv.Itoa(n))
			consumed++
		default:
			out.WriteByte('%')
			out.WriteRune(runes[i])
		}
	}
	return consumed, nil
}

func nextArg(rest []string, argIdx *int) string {
	if *argIdx >= len(rest) {
		return ""
	}
	v := rest[*argIdx]
	*argIdx++
	return v
}
