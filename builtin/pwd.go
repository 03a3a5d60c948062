// Copyright (c) 2025, Andrey Nering <andrey@nering.com.br>
// See LICENSE for licensing information

package builtin

import (
	"context"
	"fmt"

	"github.com/ricsam/shelldsl/interp"
)

func pwd(_ context.Context, c *interp.CommandContext) (int, error) {
	fmt.Fprintf(c.Stdout, "%s\n", c.Cwd)
	return 0, nil
}

// cd only has any effect when the host registered it via
// interp.CdCommands; otherwise CommandContext.SetCwd is nil and the
// directory change is silently a no-op for this single invocation.
func cd(_ context.Context, c *interp.CommandContext) (int, error) {
	target := "/"
	if len(c.Args) > 0 {
		target = c.Args[0]
	}
	abs := c.FS.Resolve(c.Cwd, target)
	if !c.FS.Exists(abs) {
		fmt.Fprintf(c.Stderr, "cd: %s: No such file or directory\n", target)
		return 1, nil
	}
	info, err := c.FS.Stat(abs)
	if err != nil || !info.IsDirectory {
		fmt.Fprintf(c.Stderr, "cd: %s: Not a directory\n", target)
		return 1, nil
	}
	if c.SetCwd == nil {
		return 0, nil
	}
	if err := c.SetCwd(abs); err != nil {
		fmt.Fprintf(c.Stderr, "cd: %v\n", err)
		return 1, nil
	}
	return 0, nil
}
