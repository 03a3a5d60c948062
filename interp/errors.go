// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import "fmt"

// ShellError describes a shell-level failure with an exit code. Nothing in
// this package constructs one: Run reports expansion-time and redirect
// failures as a "sh: ..." line on stderr and exit code 1, not as an
// error. Op names the kind of failure ("sh" for the shell itself,
// matching the stderr message prefix), and ExitCode is what the command
// is reported as having exited with.
type ShellError struct {
	Op       string
	Path     string
	Message  string
	ExitCode int
}

func (e *ShellError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NotFoundError reports that a command name was not present in the
// registry. Nothing in this package constructs one: dispatch reports an
// unknown command on stderr with exit code 127.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", e.Name)
}
