// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"bytes"
	"context"
	"strings"

	"github.com/ricsam/shelldsl/expand"
	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/syntax"
)

// expandConfig builds an expand.Config bound to this Runner's current
// state, wiring command substitution so that each $(...) runs to
// completion against a copy of the current environment before its output
// is spliced in — the copy means mutations inside the substitution never
// propagate back to the calling context, matching the design's resolution
// of the command-substitution isolation question.
func (r *Runner) expandConfig(ctx context.Context) *expand.Config {
	return &expand.Config{
		Env: r.Env,
		FS:  r.FS,
		Cwd: r.Cwd,
		Subst: func(body *syntax.File) (string, error) {
			return r.runSubstitution(ctx, body)
		},
	}
}

// literalConfig is like expandConfig but disables filesystem globbing; it
// is used to expand redirect targets, which name a single path.
func (r *Runner) literalConfig(ctx context.Context) *expand.Config {
	cfg := r.expandConfig(ctx)
	cfg.NoGlob = true
	return cfg
}

func copyEnviron(e expand.Environ) expand.MapEnviron {
	m := make(expand.MapEnviron)
	e.Each(func(name, value string) bool {
		m[name] = value
		return true
	})
	return m
}

func (r *Runner) runSubstitution(ctx context.Context, body *syntax.File) (string, error) {
	child := &Runner{
		Env:      copyEnviron(r.Env),
		Cwd:      r.Cwd,
		FS:       r.FS,
		Commands: r.Commands,
		Stdin:    bytes.NewReader(nil),
		cdNames:  r.cdNames,
		tracer:   r.tracer,
	}
	collector := stream.NewCollector()
	child.Stdout = collector
	child.Stderr = r.Stderr
	node := syntax.SeqOf(body.Stmts)
	if _, err := child.exec(ctx, node, child.Stdin, child.Stdout, child.Stderr); err != nil {
		return "", err
	}
	return strings.TrimRight(collector.String(), "\n"), nil
}
