// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"context"
	"io"

	"github.com/ricsam/shelldsl/expand"
	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/syntax"
)

func (r *Runner) execIf(ctx context.Context, n *syntax.If, stdin io.Reader, stdout, stderr stream.Writer) (int, error) {
	for _, branch := range n.Branches {
		code, err := r.exec(ctx, branch.Cond, stdin, stdout, stderr)
		if err != nil {
			return code, err
		}
		if code == 0 {
			return r.exec(ctx, branch.Body, stdin, stdout, stderr)
		}
	}
	if n.Else != nil {
		return r.exec(ctx, n.Else, stdin, stdout, stderr)
	}
	return 0, nil
}

// execFor expands the in-words (brace/glob/variable, each possibly
// multiplying into several strings) before iterating; the loop variable
// persists in the environment after the loop, per §4.E.
func (r *Runner) execFor(ctx context.Context, n *syntax.For, stdin io.Reader, stdout, stderr stream.Writer) (int, error) {
	cfg := r.expandConfig(ctx)
	var items []string
	for _, w := range n.Items {
		fields, err := expand.Fields(cfg, w)
		if err != nil {
			return r.reportExpandError(stderr, err)
		}
		items = append(items, fields...)
	}

	code := 0
	for _, item := range items {
		r.Env.Set(n.VarName, item)
		c, err := r.exec(ctx, n.Body, stdin, stdout, stderr)
		code = c
		if err != nil {
			return code, err
		}
		if stop := r.consumeLoopSignal(); stop {
			break
		}
	}
	return code, nil
}

func (r *Runner) execWhile(ctx context.Context, n *syntax.While, stdin io.Reader, stdout, stderr stream.Writer) (int, error) {
	code := 0
	for {
		condCode, err := r.exec(ctx, n.Cond, stdin, stdout, stderr)
		if err != nil {
			return condCode, err
		}
		match := condCode == 0
		if n.Until {
			match = condCode != 0
		}
		if !match {
			break
		}
		c, err := r.exec(ctx, n.Body, stdin, stdout, stderr)
		code = c
		if err != nil {
			return code, err
		}
		if stop := r.consumeLoopSignal(); stop {
			break
		}
	}
	return code, nil
}

// execCase expands the subject once, then tries each arm's patterns in
// order with glob semantics against the whole subject string; the first
// match runs with no fall-through.
func (r *Runner) execCase(ctx context.Context, n *syntax.Case, stdin io.Reader, stdout, stderr stream.Writer) (int, error) {
	cfg := r.expandConfig(ctx)
	subject, err := expand.Literal(cfg, n.Subject)
	if err != nil {
		return r.reportExpandError(stderr, err)
	}
	for _, arm := range n.Arms {
		for _, patWord := range arm.Patterns {
			pat, err := expand.Literal(cfg, patWord)
			if err != nil {
				return r.reportExpandError(stderr, err)
			}
			ok, err := expand.MatchCase(pat, subject)
			if err != nil {
				return r.reportExpandError(stderr, err)
			}
			if ok {
				if arm.Body == nil {
					return 0, nil
				}
				return r.exec(ctx, arm.Body, stdin, stdout, stderr)
			}
		}
	}
	return 0, nil
}

// execSubshell runs Body against a shallow copy of the environment and
// cwd so that assignments and a cd-like builtin inside it do not leak
// back to the enclosing context, per the redesigned subshell semantics.
func (r *Runner) execSubshell(ctx context.Context, n *syntax.Subshell, stdin io.Reader, stdout, stderr stream.Writer) (int, error) {
	child := &Runner{
		Env:      copyEnviron(r.Env),
		Cwd:      r.Cwd,
		FS:       r.FS,
		Commands: r.Commands,
		Stdin:    r.Stdin,
		cdNames:  r.cdNames,
		tracer:   r.tracer,
	}
	code, err := child.exec(ctx, n.Body, stdin, stdout, stderr)
	r.loopSignal = child.loopSignal
	r.loopLevel = child.loopLevel
	return code, err
}

// consumeLoopSignal inspects and updates the Runner's loop-control signal
// after one loop-body execution, implementing the level-aware break/
// continue propagation: a signal targeting an outer loop (level > 1) is
// decremented and left set so the enclosing loop observes it, while a
// signal targeting this loop (level <= 1) is cleared here. It reports
// whether the loop that called it must stop iterating now.
func (r *Runner) consumeLoopSignal() bool {
	switch r.loopSignal {
	case signalNone:
		return false
	case signalBreak:
		if r.loopLevel <= 1 {
			r.loopSignal = signalNone
			r.loopLevel = 0
		} else {
			r.loopLevel--
		}
		return true
	case signalContinue:
		if r.loopLevel <= 1 {
			r.loopSignal = signalNone
			r.loopLevel = 0
			return false
		}
		r.loopLevel--
		return true
	default:
		return false
	}
}
