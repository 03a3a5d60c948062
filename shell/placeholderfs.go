// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package shell

import (
	"bytes"
	"io"

	"github.com/ricsam/shelldsl/vfs"
)

// placeholderFS wraps an inner FS and intercepts the synthetic paths a
// Bindings table registered for StreamTarget values: a read from such a
// path drains the bound io.Reader, a write drains into the bound
// io.Writer, and every other path is delegated to the inner FS
// untouched. This is how a redirect target that is a Go byte buffer or
// blob, rather than a named file, reaches the interpreter (§4.F).
type placeholderFS struct {
	vfs.FS
	bindings *Bindings
}

func withBindings(inner vfs.FS, bindings *Bindings) vfs.FS {
	if bindings == nil || bindings.Empty() {
		return inner
	}
	return &placeholderFS{FS: inner, bindings: bindings}
}

func (p *placeholderFS) ReadFile(path string) ([]byte, error) {
	if target, ok := p.bindings.Lookup(path); ok {
		r, ok := target.(io.Reader)
		if !ok {
			return nil, vfs.NewError("read", path, vfs.KindOther, errNotReadable)
		}
		return io.ReadAll(r)
	}
	return p.FS.ReadFile(path)
}

func (p *placeholderFS) WriteFile(path string, data []byte) error {
	if target, ok := p.bindings.Lookup(path); ok {
		w, ok := target.(io.Writer)
		if !ok {
			return vfs.NewError("write", path, vfs.KindOther, errNotWritable)
		}
		_, err := w.Write(data)
		return err
	}
	return p.FS.WriteFile(path, data)
}

func (p *placeholderFS) AppendFile(path string, data []byte) error {
	if target, ok := p.bindings.Lookup(path); ok {
		w, ok := target.(io.Writer)
		if !ok {
			return vfs.NewError("append", path, vfs.KindOther, errNotWritable)
		}
		_, err := w.Write(data)
		return err
	}
	return p.FS.AppendFile(path, data)
}

func (p *placeholderFS) Exists(path string) bool {
	if _, ok := p.bindings.Lookup(path); ok {
		return true
	}
	// A redirect's parent-directory guard checks Exists on the target's
	// dirname before opening it; report that dirname as existing for any
	// bound placeholder path so the guard doesn't reject a StreamTarget
	// redirect that was never meant to touch the real filesystem.
	for bound := range p.bindings.byPath {
		if vfs.DirnamePath(bound) == path {
			return true
		}
	}
	return p.FS.Exists(path)
}

func (p *placeholderFS) Stat(path string) (vfs.FileInfo, error) {
	if target, ok := p.bindings.Lookup(path); ok {
		size := int64(0)
		if buf, ok := target.(*bytes.Buffer); ok {
			size = int64(buf.Len())
		}
		return vfs.FileInfo{IsFile: true, Size: size}, nil
	}
	return p.FS.Stat(path)
}

var (
	errNotReadable = placeholderErr("bound object does not implement io.Reader")
	errNotWritable = placeholderErr("bound object does not implement io.Writer")
)

type placeholderErr string

func (e placeholderErr) Error() string { return string(e) }
