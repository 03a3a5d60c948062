// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"context"
	"fmt"
	"io"

	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/syntax"
)

// Run executes a parsed file against this Runner's execution context and
// returns the exit code of the last-completed top-level command, per the
// quantified invariant that the reported exit code always equals that.
func (r *Runner) Run(ctx context.Context, file *syntax.File) (int, error) {
	node := syntax.SeqOf(file.Stmts)
	code, err := r.exec(ctx, node, r.Stdin, r.Stdout, r.Stderr)
	r.lastExit = code
	return code, err
}

// exec dispatches a single AstNode against the given stream trio. Across
// sequential combinators (Sequence, And, Or) the left side runs to
// completion — including all of its own children — before the right side
// starts, per the ordering rule in §4.E.
func (r *Runner) exec(ctx context.Context, node syntax.AstNode, stdin io.Reader, stdout, stderr stream.Writer) (int, error) {
	if err := ctx.Err(); err != nil {
		return 1, err
	}
	switch n := node.(type) {
	case *syntax.Command:
		return r.execCommand(ctx, n, stdin, stdout, stderr)
	case *syntax.Pipeline:
		return r.execPipeline(ctx, n, stdin, stdout, stderr)
	case *syntax.And:
		code, err := r.exec(ctx, n.Left, stdin, stdout, stderr)
		if err != nil || code != 0 || r.loopSignal != signalNone {
			return code, err
		}
		return r.exec(ctx, n.Right, stdin, stdout, stderr)
	case *syntax.Or:
		code, err := r.exec(ctx, n.Left, stdin, stdout, stderr)
		if err != nil || code == 0 || r.loopSignal != signalNone {
			return code, err
		}
		return r.exec(ctx, n.Right, stdin, stdout, stderr)
	case *syntax.Sequence:
		code, err := r.exec(ctx, n.Left, stdin, stdout, stderr)
		if err != nil || r.loopSignal != signalNone {
			return code, err
		}
		return r.exec(ctx, n.Right, stdin, stdout, stderr)
	case *syntax.If:
		return r.execIf(ctx, n, stdin, stdout, stderr)
	case *syntax.For:
		return r.execFor(ctx, n, stdin, stdout, stderr)
	case *syntax.While:
		return r.execWhile(ctx, n, stdin, stdout, stderr)
	case *syntax.Case:
		return r.execCase(ctx, n, stdin, stdout, stderr)
	case *syntax.Block:
		return r.exec(ctx, n.Body, stdin, stdout, stderr)
	case *syntax.Subshell:
		return r.execSubshell(ctx, n, stdin, stdout, stderr)
	default:
		return 0, fmt.Errorf("interp: unsupported AST node %T", node)
	}
}
