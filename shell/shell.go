// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package shell is the execution façade (§4.F): the single entry point a
// host calls with source text and per-run overrides, returning the
// aggregate {stdout, stderr, exit_code} result. It also exposes the
// lex/parse step separately for hosts that want to inspect or cache an
// AST before running it.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ricsam/shelldsl/interp"
	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/syntax"
	"github.com/ricsam/shelldsl/vfs"
)

// Shell holds the host's base configuration: the environment, cwd, and
// command registry every Run call starts from unless overridden.
type Shell struct {
	Env        map[string]string
	Dir        string
	FS         vfs.FS
	Commands   interp.Registry
	CdCommands []string
	// Trace, when non-nil, receives an xtrace-style "+ cmd args..." line
	// for every simple command the run executes.
	Trace io.Writer
}

// New returns a Shell ready to run scripts, with FS set to an in-memory
// filesystem, Dir to "/" and an empty command registry.
func New() *Shell {
	return &Shell{Dir: "/", FS: vfs.NewMemFS(), Commands: make(interp.Registry)}
}

// Result is the façade's aggregate return value.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// RunOptions are per-invocation overrides layered on top of the Shell's
// base configuration.
type RunOptions struct {
	Env     map[string]string
	Dir     string
	Quiet   bool // discard stdout/stderr from the returned Result
	NoThrow bool // flatten every error into ExitCode instead of returning it
}

// ParseScript lexes and parses source into an AST, the separately
// inspectable step before Run builds an execution context and walks it.
// Tokenizing is fused into the parser (real shell grammars are too
// context-sensitive — nested quotes, $(...), heredocs — to tokenize in a
// separate flat pass), so this is also what a "Lex" step would return.
func ParseScript(source, name string) (*syntax.File, error) {
	return syntax.NewParser().Parse(strings.NewReader(source), name)
}

// RunTemplate builds source from template parts and interpolated values
// (see Build) and runs it, wiring any StreamTarget bindings into the
// filesystem the run sees.
func (sh *Shell) RunTemplate(ctx context.Context, opts RunOptions, parts []string, values ...any) (*Result, error) {
	source, bindings := Build(parts, values...)
	return sh.run(ctx, source, opts, bindings)
}

// Run parses and executes source against sh's base configuration merged
// with opts, returning the aggregate result.
func (sh *Shell) Run(ctx context.Context, source string, opts RunOptions) (*Result, error) {
	return sh.run(ctx, source, opts, nil)
}

func (sh *Shell) run(ctx context.Context, source string, opts RunOptions, bindings *Bindings) (*Result, error) {
	file, err := ParseScript(source, "sh")
	if err != nil {
		if opts.NoThrow {
			return &Result{Stderr: []byte(fmt.Sprintf("sh: %v\n", err)), ExitCode: 2}, nil
		}
		return nil, err
	}

	env := sh.Env
	if opts.Env != nil {
		merged := make(map[string]string, len(sh.Env)+len(opts.Env))
		for k, v := range sh.Env {
			merged[k] = v
		}
		for k, v := range opts.Env {
			merged[k] = v
		}
		env = merged
	}
	dir := sh.Dir
	if opts.Dir != "" {
		dir = opts.Dir
	}

	outCollector := stream.NewCollector()
	errCollector := stream.NewCollector()

	runnerOpts := []interp.Option{
		interp.Env(env),
		interp.Dir(dir),
		interp.FS(withBindings(sh.FS, bindings)),
		interp.Commands(sh.Commands),
		interp.StdoutWriter(outCollector),
		interp.StderrWriter(errCollector),
	}
	if len(sh.CdCommands) > 0 {
		runnerOpts = append(runnerOpts, interp.CdCommands(sh.CdCommands...))
	}
	if sh.Trace != nil {
		runnerOpts = append(runnerOpts, interp.Trace(sh.Trace))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return nil, err
	}

	code, err := runner.Run(ctx, file)
	if err != nil {
		if opts.NoThrow {
			return &Result{Stdout: outCollector.Bytes(), Stderr: []byte(fmt.Sprintf("sh: %v\n", err)), ExitCode: 1}, nil
		}
		return nil, err
	}

	res := &Result{ExitCode: code}
	if !opts.Quiet {
		res.Stdout = outCollector.Bytes()
		res.Stderr = errCollector.Bytes()
	}
	return res, nil
}
