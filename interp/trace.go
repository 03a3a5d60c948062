// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"io"
	"strings"
)

// tracer prints each simple command as it runs, in the style of a shell's
// xtrace option: a "+ " prefix followed by the command's expanded words.
type tracer struct{ w io.Writer }

func newTracer(w io.Writer) *tracer { return &tracer{w: w} }

func (t *tracer) command(words []string) {
	if t == nil {
		return
	}
	io.WriteString(t.w, "+ "+strings.Join(words, " ")+"\n")
}
