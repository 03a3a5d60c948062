// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vfs

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestMemFSWriteReadRoundTrip(t *testing.T) {
	fs := NewMemFS()
	qt.Assert(t, fs.WriteFile("/a.txt", []byte("hello")), qt.IsNil)
	got, err := fs.ReadFile("/a.txt")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(got), qt.Equals, "hello")
}

func TestMemFSReadMissingIsNotFound(t *testing.T) {
	fs := NewMemFS()
	_, err := fs.ReadFile("/missing")
	qt.Assert(t, IsNotFound(err), qt.Equals, true)
}

func TestMemFSAppend(t *testing.T) {
	fs := NewMemFS()
	qt.Assert(t, fs.WriteFile("/a.txt", []byte("a")), qt.IsNil)
	qt.Assert(t, fs.AppendFile("/a.txt", []byte("b")), qt.IsNil)
	got, _ := fs.ReadFile("/a.txt")
	qt.Assert(t, string(got), qt.Equals, "ab")
}

func TestMemFSMkdirRecursiveAndReadDir(t *testing.T) {
	fs := NewMemFS()
	qt.Assert(t, fs.Mkdir("/a/b", MkdirOptions{Recursive: true}), qt.IsNil)
	qt.Assert(t, fs.WriteFile("/a/b/c.txt", []byte("x")), qt.IsNil)
	names, err := fs.ReadDir("/a/b")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, names, qt.DeepEquals, []string{"c.txt"})
}

func TestMemFSWriteMissingParentFails(t *testing.T) {
	fs := NewMemFS()
	err := fs.WriteFile("/nodir/a.txt", []byte("x"))
	qt.Assert(t, IsNotFound(err), qt.Equals, true)
}

func TestMemFSDevNull(t *testing.T) {
	fs := NewMemFS()
	qt.Assert(t, fs.WriteFile(DevNull, []byte("discarded")), qt.IsNil)
	got, err := fs.ReadFile(DevNull)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, len(got), qt.Equals, 0)
}

func TestMemFSRmRecursive(t *testing.T) {
	fs := NewMemFS()
	fs.Mkdir("/a/b", MkdirOptions{Recursive: true})
	fs.WriteFile("/a/b/c.txt", []byte("x"))

	err := fs.Rm("/a", RemoveOptions{})
	qt.Assert(t, err, qt.Not(qt.IsNil))

	qt.Assert(t, fs.Rm("/a", RemoveOptions{Recursive: true}), qt.IsNil)
	qt.Assert(t, fs.Exists("/a"), qt.Equals, false)
}

func TestMemFSGlobSortedUnique(t *testing.T) {
	fs := NewMemFS()
	fs.WriteFile("/b.go", []byte("x"))
	fs.WriteFile("/a.go", []byte("x"))
	fs.WriteFile("/c.txt", []byte("x"))

	matches, err := fs.Glob("/", "*.go")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, matches, qt.DeepEquals, []string{"/a.go", "/b.go"})
}
