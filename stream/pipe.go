// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package stream

import (
	"io"
	"sync/atomic"
)

// Pipe is the in-memory byte channel wired between two pipeline stages.
// It is built on io.Pipe, whose synchronous rendezvous (a Write blocks
// until a matching Read drains it) already gives the cooperative
// backpressure the design calls for, with an effective high-water mark of
// zero: a writer suspends the instant it has outpaced the reader, rather
// than after filling some larger buffer.
type Pipe struct {
	pr         *io.PipeReader
	pw         *io.PipeWriter
	readerDone atomic.Bool
}

// NewPipe creates a pipe ready for one writer and one reader.
func NewPipe() *Pipe {
	pr, pw := io.Pipe()
	return &Pipe{pr: pr, pw: pw}
}

// Reader returns the pipe's read end, satisfying the Stdin read
// primitives via the package-level ReadAll/ReadText/Lines/Chunks helpers.
func (p *Pipe) Reader() *PipeReader { return &PipeReader{p: p} }

// Writer returns the pipe's write end, satisfying Writer.
func (p *Pipe) Writer() *PipeWriter { return &PipeWriter{p: p} }

// PipeReader is the read half of a Pipe.
type PipeReader struct{ p *Pipe }

func (r *PipeReader) Read(b []byte) (int, error) { return r.p.pr.Read(b) }

// Close marks the reader as gone: any subsequent or in-flight write on the
// write half is discarded silently rather than failing, mirroring POSIX's
// SIGPIPE-ignored semantics without an actual signal, per the pipe's
// failure-mode contract.
func (r *PipeReader) Close() error {
	r.p.readerDone.Store(true)
	return r.p.pr.Close()
}

// PipeWriter is the write half of a Pipe.
type PipeWriter struct{ p *Pipe }

func (w *PipeWriter) Write(b []byte) (int, error) {
	if w.p.readerDone.Load() {
		return len(b), nil
	}
	n, err := w.p.pw.Write(b)
	if err != nil && w.p.readerDone.Load() {
		return len(b), nil
	}
	return n, err
}

func (w *PipeWriter) WriteText(s string) (int, error) { return w.Write([]byte(s)) }
func (w *PipeWriter) IsTTY() bool                      { return false }

// Close closes the write half; readers observe end-of-stream once they
// have drained any bytes already buffered in flight.
func (w *PipeWriter) Close() error { return w.p.pw.Close() }
