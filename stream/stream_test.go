// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package stream

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.WriteText("hello ")
	c.Write([]byte("world"))
	qt.Assert(t, c.String(), qt.Equals, "hello world")
	qt.Assert(t, c.IsTTY(), qt.Equals, false)
}

func TestTTYWriter(t *testing.T) {
	var sb strings.Builder
	w := NewTTYWriter(&sb)
	qt.Assert(t, w.IsTTY(), qt.Equals, true)
	w.WriteText("x")
	qt.Assert(t, sb.String(), qt.Equals, "x")

	plain := NewWriter(&sb)
	qt.Assert(t, plain.IsTTY(), qt.Equals, false)
}

func TestLinesOmitsTrailingEmpty(t *testing.T) {
	var got []string
	for line := range Lines(strings.NewReader("a\nb\nc\n")) {
		got = append(got, line)
	}
	qt.Assert(t, got, qt.DeepEquals, []string{"a", "b", "c"})
}

func TestLinesNoTrailingNewline(t *testing.T) {
	var got []string
	for line := range Lines(strings.NewReader("a\nb")) {
		got = append(got, line)
	}
	qt.Assert(t, got, qt.DeepEquals, []string{"a", "b"})
}

func TestChunks(t *testing.T) {
	var got []string
	for chunk := range Chunks(strings.NewReader("abcdefgh"), 3) {
		got = append(got, string(chunk))
	}
	qt.Assert(t, got, qt.DeepEquals, []string{"abc", "def", "gh"})
}

func TestChunksEarlyStop(t *testing.T) {
	var got []string
	for chunk := range Chunks(strings.NewReader("abcdefgh"), 3) {
		got = append(got, string(chunk))
		if len(got) == 1 {
			break
		}
	}
	qt.Assert(t, got, qt.DeepEquals, []string{"abc"})
}
