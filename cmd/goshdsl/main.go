// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// goshdsl is a tiny demo CLI for the shelldsl interpreter: it runs a
// script file, a -c command string, or stdin against a virtual
// filesystem rooted at the current host directory, with the builtin
// registry from the builtin package wired in.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/ricsam/shelldsl/builtin"
	"github.com/ricsam/shelldsl/interp"
	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/syntax"
	"github.com/ricsam/shelldsl/vfs"
)

var command = flag.String("c", "", "command to be executed")

func main() {
	os.Exit(main1())
}

func main1() int {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	fs, err := vfs.NewOS(cwd)
	if err != nil {
		return err
	}

	outIsTTY := term.IsTerminal(int(os.Stdout.Fd()))
	var stdout stream.Writer
	if outIsTTY {
		stdout = stream.NewTTYWriter(os.Stdout)
	} else {
		stdout = stream.NewWriter(os.Stdout)
	}

	runner, err := interp.New(
		interp.FS(fs),
		interp.Dir("/"),
		interp.Commands(builtin.All()),
		interp.CdCommands("cd"),
		interp.StdinReader(os.Stdin),
		interp.StdoutWriter(stdout),
		interp.StderrWriter(stream.NewWriter(os.Stderr)),
	)
	if err != nil {
		return err
	}

	switch {
	case *command != "":
		return runSource(ctx, runner, strings.NewReader(*command), "-c")
	case flag.NArg() == 0:
		return runSource(ctx, runner, os.Stdin, "<stdin>")
	default:
		for _, path := range flag.Args() {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			err = runSource(ctx, runner, f, path)
			f.Close()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func runSource(ctx context.Context, r *interp.Runner, src io.Reader, name string) error {
	file, err := syntax.NewParser().Parse(src, name)
	if err != nil {
		return err
	}
	_, err = r.Run(ctx, file)
	return err
}
