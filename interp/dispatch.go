// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/ricsam/shelldsl/expand"
	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/syntax"
)

// execCommand expands and dispatches a single simple command, per the
// four dispatch steps in §4.E: apply assignments, resolve the name,
// open redirects, then invoke the command function.
func (r *Runner) execCommand(ctx context.Context, cmd *syntax.Command, stdin io.Reader, stdout, stderr stream.Writer) (int, error) {
	cfg := r.expandConfig(ctx)

	if len(cmd.Words) == 0 {
		for _, a := range cmd.Assigns {
			val, err := expandAssignValue(cfg, a)
			if err != nil {
				return r.reportExpandError(stderr, err)
			}
			r.Env.Set(a.Name, val)
		}
		return 0, nil
	}

	var words []string
	for _, w := range cmd.Words {
		fields, err := expand.Fields(cfg, w)
		if err != nil {
			return r.reportExpandError(stderr, err)
		}
		words = append(words, fields...)
	}
	if len(words) == 0 {
		return 0, nil
	}
	name, args := words[0], words[1:]

	if code, handled, err := r.execLoopControl(name, args, stderr); handled {
		return code, err
	}

	// Assignments preceding a named command are scoped to that command's
	// own environment only, not the enclosing context, per the
	// assignment-scoping rule.
	env := copyEnviron(r.Env)
	for _, a := range cmd.Assigns {
		val, err := expandAssignValue(cfg, a)
		if err != nil {
			return r.reportExpandError(stderr, err)
		}
		env[a.Name] = val
	}

	fn, ok := r.Commands[name]
	if !ok {
		fmt.Fprintf(stderr, "sh: %s: command not found\n", name)
		return 127, nil
	}

	in, out, errOut, closeRedirs, code, err := r.openRedirects(ctx, cmd.Redirects, stdin, stdout, stderr)
	defer closeRedirs()
	if err != nil {
		return code, err
	}
	if code != 0 {
		return code, nil
	}

	if r.tracer != nil {
		r.tracer.command(words)
	}

	cctx := &CommandContext{
		Args:   args,
		Env:    env,
		Cwd:    r.Cwd,
		Stdin:  in,
		Stdout: out,
		Stderr: errOut,
		FS:     r.FS,
		Exec: func(ctx context.Context, peerName string, peerArgs []string) (ExecResult, error) {
			return r.execPeer(ctx, peerName, peerArgs, env)
		},
	}
	if r.cdNames[name] {
		cctx.SetCwd = func(abs string) error {
			r.Env.Set("OLDPWD", r.Cwd)
			r.Cwd = abs
			return nil
		}
	}
	return fn(ctx, cctx)
}

func expandAssignValue(cfg *expand.Config, a *syntax.Assign) (string, error) {
	if a.Value == nil {
		return "", nil
	}
	return expand.Literal(cfg, a.Value)
}

func (r *Runner) reportExpandError(stderr stream.Writer, err error) (int, error) {
	fmt.Fprintf(stderr, "sh: %v\n", err)
	return 1, nil
}

// execLoopControl intercepts the break/continue pseudo-commands before
// registry lookup: they are ordinary simple-command words in the grammar,
// but their effect is entirely on the Runner's loop-control signal rather
// than on any stream.
func (r *Runner) execLoopControl(name string, args []string, stderr stream.Writer) (code int, handled bool, err error) {
	var sig loopSignal
	switch name {
	case "break":
		sig = signalBreak
	case "continue":
		sig = signalContinue
	default:
		return 0, false, nil
	}
	level := 1
	if len(args) > 0 {
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil || n <= 0 {
			fmt.Fprintf(stderr, "sh: %s: %s: invalid level\n", name, args[0])
			r.loopSignal = signalBreak
			r.loopLevel = 1
			return 1, true, nil
		}
		level = n
	}
	r.loopSignal = sig
	r.loopLevel = level
	return 0, true, nil
}

// execPeer runs a registered command synchronously to completion with
// fresh collector-backed stdout/stderr and no stdin, for the exec(name,
// args) callback peer commands use (e.g. "find -exec").
func (r *Runner) execPeer(ctx context.Context, name string, args []string, env map[string]string) (ExecResult, error) {
	fn, ok := r.Commands[name]
	if !ok {
		return ExecResult{ExitCode: 127, Stderr: []byte(fmt.Sprintf("sh: %s: command not found\n", name))}, nil
	}
	out := stream.NewCollector()
	errOut := stream.NewCollector()
	cctx := &CommandContext{
		Args:   args,
		Env:    env,
		Cwd:    r.Cwd,
		Stdin:  eofReader{},
		Stdout: out,
		Stderr: errOut,
		FS:     r.FS,
		Exec: func(ctx context.Context, n string, a []string) (ExecResult, error) {
			return r.execPeer(ctx, n, a, env)
		},
	}
	code, err := fn(ctx, cctx)
	if err != nil {
		return ExecResult{}, err
	}
	return ExecResult{Stdout: out.Bytes(), Stderr: errOut.Bytes(), ExitCode: code}, nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
