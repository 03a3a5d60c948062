// Copyright (c) 2025, Andrey Nering <andrey@nering.com.br>
// See LICENSE for licensing information

package builtin

import (
	"context"
	"strings"

	"github.com/ricsam/shelldsl/interp"
)

func echo(_ context.Context, c *interp.CommandContext) (int, error) {
	args := c.Args
	newline := true
	for len(args) > 0 && args[0] == "-n" {
		newline = false
		args = args[1:]
	}
	if _, err := c.Stdout.WriteText(strings.Join(args, " ")); err != nil {
		return 1, nil
	}
	if newline {
		if _, err := c.Stdout.WriteText("\n"); err != nil {
			return 1, nil
		}
	}
	return 0, nil
}

func trueCmd(context.Context, *interp.CommandContext) (int, error) { return 0, nil }

func falseCmd(context.Context, *interp.CommandContext) (int, error) { return 1, nil }
