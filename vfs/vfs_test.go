// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vfs

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestResolvePath(t *testing.T) {
	qt.Assert(t, ResolvePath("/a/b", "c"), qt.Equals, "/a/b/c")
	qt.Assert(t, ResolvePath("/a/b", "/c"), qt.Equals, "/c")
	qt.Assert(t, ResolvePath("/a/b", ".."), qt.Equals, "/a")
	qt.Assert(t, ResolvePath("relative", "c"), qt.Equals, "/relative/c")
}

func TestDirnameBasename(t *testing.T) {
	qt.Assert(t, DirnamePath("/a/b/c.txt"), qt.Equals, "/a/b")
	qt.Assert(t, DirnamePath("/c.txt"), qt.Equals, "/")
	qt.Assert(t, BasenamePath("/a/b/c.txt"), qt.Equals, "c.txt")
}

func TestIsNotFound(t *testing.T) {
	err := NewError("read", "/x", KindNotFound, nil)
	qt.Assert(t, IsNotFound(err), qt.Equals, true)
	qt.Assert(t, IsNotFound(errors.New("other")), qt.Equals, false)
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := NewError("read", "/x", KindOther, cause)
	qt.Assert(t, errors.Unwrap(err), qt.Equals, cause)
}
