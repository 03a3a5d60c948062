// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package interp walks a parsed syntax.File against a mutable execution
// context: it owns the environment, cwd, last-exit-code and loop-control
// signal, expands each word via the expand package, wires byte streams
// between pipeline stages, and dispatches to host-registered commands.
package interp

import (
	"bytes"
	"io"

	"github.com/ricsam/shelldsl/expand"
	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/vfs"
)

// loopSignal is the execution context's loop-control flag: break/continue
// are not modeled as exceptions but as a mutable signal each enclosing
// loop observes and clears, per the component design.
type loopSignal int

const (
	signalNone loopSignal = iota
	signalBreak
	signalContinue
)

// Runner is a single execution context: one Runner must not be shared
// across concurrent Run calls, but independent Runners never share state
// (the library keeps no package-level globals, so any number of
// interpreters can coexist).
type Runner struct {
	Env      expand.WriteEnviron
	Cwd      string
	FS       vfs.FS
	Commands Registry
	Stdin    io.Reader
	Stdout   stream.Writer
	Stderr   stream.Writer

	// cdNames marks command names allowed to call CommandContext.SetCwd;
	// only a host-declared "cd"-like builtin should ever move the
	// Runner's own working directory.
	cdNames map[string]bool

	lastExit int

	loopSignal loopSignal
	loopLevel  int

	tracer *tracer
}

// Option configures a Runner at construction time.
type Option func(*Runner) error

// New builds a Runner. Defaults: an empty environment, cwd "/", an
// in-memory filesystem, an empty command registry, no stdin, and
// collector sinks for stdout/stderr so a host that supplies no overrides
// still gets materialized output back.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		Env:      make(expand.MapEnviron),
		Cwd:      "/",
		FS:       vfs.NewMemFS(),
		Commands: make(Registry),
		Stdin:    bytes.NewReader(nil),
		cdNames:  make(map[string]bool),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.Stdout == nil {
		r.Stdout = stream.NewCollector()
	}
	if r.Stderr == nil {
		r.Stderr = stream.NewCollector()
	}
	return r, nil
}

// Env sets the initial environment.
func Env(vars map[string]string) Option {
	return func(r *Runner) error {
		m := make(expand.MapEnviron, len(vars))
		for k, v := range vars {
			m[k] = v
		}
		r.Env = m
		return nil
	}
}

// Dir sets the initial working directory; it must already be an absolute
// path, and is stored as given, without normalization.
func Dir(path string) Option {
	return func(r *Runner) error {
		r.Cwd = path
		return nil
	}
}

// FS plugs in the virtual filesystem adapter.
func FS(fs vfs.FS) Option {
	return func(r *Runner) error {
		r.FS = fs
		return nil
	}
}

// Commands plugs in the host's command registry, merged with any already
// set (later calls win on name conflicts).
func Commands(reg Registry) Option {
	return func(r *Runner) error {
		for name, fn := range reg {
			r.Commands[name] = fn
		}
		return nil
	}
}

// CdCommands marks command names whose CommandContext.SetCwd call is
// honored by moving the Runner's own Cwd; only a host's "cd" builtin
// should be named here.
func CdCommands(names ...string) Option {
	return func(r *Runner) error {
		for _, n := range names {
			r.cdNames[n] = true
		}
		return nil
	}
}

// StdinReader sets the outermost stdin.
func StdinReader(r2 io.Reader) Option {
	return func(r *Runner) error {
		r.Stdin = r2
		return nil
	}
}

// StdoutWriter sets the outermost stdout sink.
func StdoutWriter(w stream.Writer) Option {
	return func(r *Runner) error {
		r.Stdout = w
		return nil
	}
}

// StderrWriter sets the outermost stderr sink.
func StderrWriter(w stream.Writer) Option {
	return func(r *Runner) error {
		r.Stderr = w
		return nil
	}
}

// Trace enables xtrace-style tracing of every simple command to w.
func Trace(w io.Writer) Option {
	return func(r *Runner) error {
		r.tracer = newTracer(w)
		return nil
	}
}

// LastExit returns the most recently completed command's exit code.
func (r *Runner) LastExit() int { return r.lastExit }
