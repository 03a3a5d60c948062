// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ricsam/shelldsl/expand"
	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/syntax"
	"github.com/ricsam/shelldsl/token"
	"github.com/ricsam/shelldsl/vfs"
)

// bufWriter buffers everything written to it and flushes to the virtual
// filesystem only once the command finishes, since the vfs contract's
// write_file/append_file operate on a whole byte slice rather than a
// stream.
type bufWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	commit func([]byte) error
}

func (w *bufWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
func (w *bufWriter) WriteText(s string) (int, error) { return w.Write([]byte(s)) }
func (w *bufWriter) IsTTY() bool                      { return false }
func (w *bufWriter) flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.commit == nil {
		return nil
	}
	return w.commit(w.buf.Bytes())
}

// openRedirects applies cmd's redirects in order against the given
// starting stdin/stdout/stderr, returning the resolved trio to hand to
// the command function plus a cleanup func that flushes any file-backed
// output writers. A non-zero code means the command must not be invoked
// (a missing input file or unreachable output directory), per the
// redirect-failure contract.
func (r *Runner) openRedirects(ctx context.Context, redirects []*syntax.Redirect, stdin io.Reader, stdout, stderr stream.Writer) (io.Reader, stream.Writer, stream.Writer, func(), int, error) {
	in, out, errOut := stdin, stdout, stderr
	var flushers []*bufWriter
	closeFn := func() {
		for _, f := range flushers {
			f.flush()
		}
	}

	for _, rd := range redirects {
		switch rd.Mode {
		case token.RedirIn:
			path, err := r.resolveTarget(ctx, rd.Target)
			if err != nil {
				fmt.Fprintf(errOut, "sh: %v\n", err)
				return nil, nil, nil, closeFn, 1, nil
			}
			data, err := r.FS.ReadFile(path)
			if err != nil {
				fmt.Fprintf(errOut, "sh: %s: %s\n", path, redirectErrMessage(err))
				return nil, nil, nil, closeFn, 1, nil
			}
			in = bytes.NewReader(data)

		case token.RedirOut, token.RedirAppend:
			path, err := r.resolveTarget(ctx, rd.Target)
			if err != nil {
				fmt.Fprintf(errOut, "sh: %v\n", err)
				return nil, nil, nil, closeFn, 1, nil
			}
			if dir := r.FS.Dirname(path); dir != "/" && !r.FS.Exists(dir) {
				fmt.Fprintf(errOut, "sh: %s: No such file or directory\n", path)
				return nil, nil, nil, closeFn, 1, nil
			}
			w := newBufWriter(r.FS, path, rd.Mode == token.RedirAppend)
			flushers = append(flushers, w)
			out = w

		case token.RedirErr, token.RedirErrApp:
			path, err := r.resolveTarget(ctx, rd.Target)
			if err != nil {
				fmt.Fprintf(errOut, "sh: %v\n", err)
				return nil, nil, nil, closeFn, 1, nil
			}
			if dir := r.FS.Dirname(path); dir != "/" && !r.FS.Exists(dir) {
				fmt.Fprintf(errOut, "sh: %s: No such file or directory\n", path)
				return nil, nil, nil, closeFn, 1, nil
			}
			w := newBufWriter(r.FS, path, rd.Mode == token.RedirErrApp)
			flushers = append(flushers, w)
			errOut = w

		case token.RedirAll, token.RedirAllApp:
			path, err := r.resolveTarget(ctx, rd.Target)
			if err != nil {
				fmt.Fprintf(errOut, "sh: %v\n", err)
				return nil, nil, nil, closeFn, 1, nil
			}
			if dir := r.FS.Dirname(path); dir != "/" && !r.FS.Exists(dir) {
				fmt.Fprintf(errOut, "sh: %s: No such file or directory\n", path)
				return nil, nil, nil, closeFn, 1, nil
			}
			w := newBufWriter(r.FS, path, rd.Mode == token.RedirAllApp)
			flushers = append(flushers, w)
			out, errOut = w, w

		case token.RedirDupErr:
			errOut = out
		case token.RedirDupOut:
			out = errOut

		case token.RedirHeredoc:
			text, err := r.heredocText(ctx, rd.HeredocContent)
			if err != nil {
				fmt.Fprintf(errOut, "sh: %v\n", err)
				return nil, nil, nil, closeFn, 1, nil
			}
			in = bytes.NewReader([]byte(text))

		default:
			return nil, nil, nil, closeFn, 0, fmt.Errorf("interp: unsupported redirect mode %v", rd.Mode)
		}
	}
	return in, out, errOut, closeFn, 0, nil
}

func (r *Runner) resolveTarget(ctx context.Context, target syntax.WordNode) (string, error) {
	s, err := expand.Literal(r.literalConfig(ctx), target)
	if err != nil {
		return "", err
	}
	return r.FS.Resolve(r.Cwd, s), nil
}

func (r *Runner) heredocText(ctx context.Context, h *syntax.Heredoc) (string, error) {
	if !h.Expand {
		return h.ContentTemplate, nil
	}
	word, err := syntax.ParseHeredocBody(h.ContentTemplate, h.ValuePos)
	if err != nil {
		return "", err
	}
	return expand.Literal(r.expandConfig(ctx), word)
}

func redirectErrMessage(err error) string {
	if vfs.IsNotFound(err) {
		return "No such file or directory"
	}
	return err.Error()
}

func newBufWriter(fs vfs.FS, path string, appendMode bool) *bufWriter {
	return &bufWriter{commit: func(b []byte) error {
		if appendMode {
			return fs.AppendFile(path, b)
		}
		return fs.WriteFile(path, b)
	}}
}
