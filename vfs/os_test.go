// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vfs

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestOSWriteReadRoundTrip(t *testing.T) {
	fs, err := NewOS(t.TempDir())
	qt.Assert(t, err, qt.IsNil)

	qt.Assert(t, fs.WriteFile("/a.txt", []byte("hello")), qt.IsNil)
	got, err := fs.ReadFile("/a.txt")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(got), qt.Equals, "hello")
}

func TestOSRootIsolation(t *testing.T) {
	fs, err := NewOS(t.TempDir())
	qt.Assert(t, err, qt.IsNil)

	qt.Assert(t, fs.Mkdir("/sub", MkdirOptions{}), qt.IsNil)
	qt.Assert(t, fs.WriteFile("/sub/f.txt", []byte("x")), qt.IsNil)

	names, err := fs.ReadDir("/sub")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, names, qt.DeepEquals, []string{"f.txt"})
}

func TestOSStatKinds(t *testing.T) {
	fs, err := NewOS(t.TempDir())
	qt.Assert(t, err, qt.IsNil)

	fs.WriteFile("/a.txt", []byte("x"))
	info, err := fs.Stat("/a.txt")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.IsFile, qt.Equals, true)

	_, err = fs.Stat("/missing")
	qt.Assert(t, IsNotFound(err), qt.Equals, true)
}

func TestOSGlob(t *testing.T) {
	fs, err := NewOS(t.TempDir())
	qt.Assert(t, err, qt.IsNil)

	fs.WriteFile("/a.go", []byte("x"))
	fs.WriteFile("/b.go", []byte("x"))
	fs.WriteFile("/c.txt", []byte("x"))

	matches, err := fs.Glob("/", "*.go")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, matches, qt.DeepEquals, []string{"/a.go", "/b.go"})
}
