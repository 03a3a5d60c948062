// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"context"
	"io"

	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/vfs"
)

// ExecResult is what CommandContext.Exec returns for a peer invocation.
type ExecResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandContext is the full command contract (§6): everything a
// host-registered command function needs, already expanded and resolved.
type CommandContext struct {
	Args   []string
	Env    map[string]string
	Cwd    string
	Stdin  io.Reader
	Stdout stream.Writer
	Stderr stream.Writer
	FS     vfs.FS

	// Exec lets a command invoke another registered command synchronously
	// and capture its result, for commands like "find -exec".
	Exec func(ctx context.Context, name string, args []string) (ExecResult, error)

	// SetCwd is only populated for commands the host has declared
	// cwd-changing (see CdCommands); calling it updates the Runner's
	// working directory for the remainder of the run.
	SetCwd func(abs string) error
}

// CommandFunc is a host-supplied command implementation. The returned int
// is the process-style exit code; a non-nil error aborts the run and is
// returned from Runner.Run (reserved for truly exceptional host errors,
// not ordinary command failure — report those via the exit code and
// ctx.Stderr instead).
type CommandFunc func(ctx context.Context, cctx *CommandContext) (int, error)

// Registry maps a command name to its implementation.
type Registry map[string]CommandFunc
