// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package vfs defines the virtual-filesystem contract the interpreter
// consumes and the host implements (§6 of the external-interfaces design):
// plain byte-oriented file operations plus directory listing, stat, and
// glob, all rooted at an absolute path space the host owns. Nothing in
// this package ever touches a real OS filesystem unless the OS adapter in
// this same package is the one plugged in.
package vfs

import (
	"errors"
	"io/fs"
	"path"
	"time"
)

// Kind distinguishes the specific failure a filesystem operation had, per
// the "every operation may fail with at minimum these kinds" requirement.
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindNotDirectory
	KindPermission
	KindAlreadyExists
)

// Error is the error type every FS implementation should return so the
// interpreter and builtins can branch on Kind without string matching.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op + " " + e.Path
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(op, path string, kind Kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// IsNotFound reports whether err (or one of its wrapped causes) is a
// KindNotFound vfs.Error, also recognizing fs.ErrNotExist for adapters
// built atop io/fs.
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindNotFound
	}
	return errors.Is(err, fs.ErrNotExist)
}

// FileInfo is the result of Stat.
type FileInfo struct {
	IsFile      bool
	IsDirectory bool
	Size        int64
	ModTime     time.Time
}

// MkdirOptions controls Mkdir.
type MkdirOptions struct {
	Recursive bool
}

// RemoveOptions controls Rm.
type RemoveOptions struct {
	Recursive bool
	Force     bool // do not fail if the path does not exist
}

// FS is the virtual-filesystem contract. Every path argument is an
// absolute, already-resolved path; callers (the interpreter) use
// Resolve/Dirname/Basename to get there from a relative word and the
// current cwd.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	AppendFile(path string, data []byte) error
	ReadDir(path string) ([]string, error)
	Stat(path string) (FileInfo, error)
	Exists(path string) bool
	Mkdir(path string, opts MkdirOptions) error
	Rm(path string, opts RemoveOptions) error

	// Resolve joins segments against base (an absolute path, typically
	// cwd) and normalizes the result to an absolute path.
	Resolve(base string, segments ...string) string
	Dirname(path string) string
	Basename(path string) string

	// Glob matches pattern (already translated glob -> nothing here;
	// pattern is the shell glob string, e.g. "*.txt" or "**/*.go")
	// against the tree rooted at cwd, returning absolute paths.
	Glob(cwd, pattern string) ([]string, error)
}

// ResolvePath is the shared Resolve/Dirname/Basename implementation both
// adapters in this package use; it treats paths as POSIX slash paths
// regardless of host OS, since the shell language itself only knows '/'.
func ResolvePath(base string, segments ...string) string {
	p := base
	for _, s := range segments {
		if path.IsAbs(s) {
			p = s
			continue
		}
		p = path.Join(p, s)
	}
	if !path.IsAbs(p) {
		p = "/" + p
	}
	return path.Clean(p)
}

func DirnamePath(p string) string {
	d := path.Dir(p)
	if d == "." {
		return "/"
	}
	return d
}

func BasenamePath(p string) string { return path.Base(p) }
