// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package stream

import (
	"io"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPipeRoundTrip(t *testing.T) {
	p := NewPipe()
	w := p.Writer()
	r := p.Reader()

	done := make(chan struct{})
	go func() {
		w.WriteText("hello")
		w.Close()
		close(done)
	}()

	got, err := io.ReadAll(r)
	<-done
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(got), qt.Equals, "hello")
}

func TestPipeDiscardsAfterReaderClosed(t *testing.T) {
	p := NewPipe()
	w := p.Writer()
	r := p.Reader()

	r.Close()

	n, err := w.Write([]byte("anything"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, n, qt.Equals, len("anything"))
}
