// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package stream implements the byte-stream primitives: stdin as a lazy,
// single-consumption byte source; stdout/stderr as a small write-sink
// capability (not a class hierarchy, per the design notes); and the
// in-memory pipe connecting pipeline stages.
package stream

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

// Writer is the stdout/stderr capability: append bytes or text, and report
// whether the sink is the interactive outermost terminal. IsTTY is only
// ever true for the host's own outermost stdout — it is always false once
// wrapped in a pipe, a collector, or a redirect target.
type Writer interface {
	io.Writer
	WriteText(s string) (int, error)
	IsTTY() bool
}

// NopCloseWriter adapts a Writer so it also satisfies io.Closer with a
// no-op Close, for callers that need a uniform io.WriteCloser (redirect
// targets that should not close the underlying sink, such as the shared
// outer stdout/stderr of a run).
type NopCloseWriter struct{ Writer }

func (NopCloseWriter) Close() error { return nil }

// plainWriter adapts any io.Writer into a stream.Writer with IsTTY always
// false; used for file-backed redirect targets and any host sink that
// isn't the declared interactive stdout.
type plainWriter struct {
	io.Writer
	mu sync.Mutex
}

func NewWriter(w io.Writer) Writer { return &plainWriter{Writer: w} }

func (w *plainWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Writer.Write(p)
}

func (w *plainWriter) WriteText(s string) (int, error) { return w.Write([]byte(s)) }
func (w *plainWriter) IsTTY() bool                      { return false }

// ttyWriter additionally reports true for IsTTY; used to wrap the host's
// outermost stdout when the host has declared it interactive.
type ttyWriter struct{ plainWriter }

// NewTTYWriter wraps w, reporting IsTTY() == true. The goshdsl CLI applies
// this only to the outermost stdout; once that sink is piped into a
// command's stdin or redirected, the downstream Writer built for it must
// be a plain NewWriter instead.
func NewTTYWriter(w io.Writer) Writer { return &ttyWriter{plainWriter{Writer: w}} }

func (w *ttyWriter) IsTTY() bool { return true }

// Collector is a Writer that accumulates everything written to it into an
// in-memory buffer the host can extract at run end — used for the
// outermost stdout/stderr of a run whose output the host wants
// materialized, and for a command substitution's captured stdout.
type Collector struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *Collector) WriteText(s string) (int, error) { return c.Write([]byte(s)) }
func (c *Collector) IsTTY() bool                      { return false }

// Bytes returns a copy of everything collected so far.
func (c *Collector) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, c.buf.Len())
	copy(out, c.buf.Bytes())
	return out
}

// String is a convenience for Bytes() decoded as UTF-8 text.
func (c *Collector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// ReadAll reads r to completion and returns the raw bytes. Per the stdin
// contract, r must not be read from again afterwards.
func ReadAll(r io.Reader) ([]byte, error) { return io.ReadAll(r) }

// ReadText reads r to completion decoded as UTF-8 text.
func ReadText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	return string(b), err
}

// Lines returns an iterator over r's contents split on '\n', with each
// line's terminator stripped and the final empty line omitted when the
// source ended with a trailing newline — matching the stdin contract's
// read-line-iterator.
func Lines(r io.Reader) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
	}
}

// Chunks returns an iterator over r's contents in successive reads of at
// most size bytes, for the stdin contract's chunk-stream form.
func Chunks(r io.Reader, size int) func(yield func([]byte) bool) {
	return func(yield func([]byte) bool) {
		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if !yield(chunk) {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}
}
