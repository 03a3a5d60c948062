// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package shell

import (
	"fmt"
	"strconv"
	"strings"
)

// metaChars is the exact whitelist from the interpolation-escaping
// contract (§4.F): every character here is backslash-escaped in a
// host-interpolated value unless that value is wrapped in Raw.
const metaChars = "|&;<>()$`\\\"' \t\n*?[]#~=%"

// Raw marks a host-interpolated string as already shell-safe: it is
// spliced into the built source verbatim, with no escaping at all. Use
// it only for values that are themselves shell syntax (operators, a
// sub-command built by another Build call), never for untrusted data.
type Raw string

// StreamTarget marks a host-interpolated value as the target of a
// redirect rather than a plain argument: Build binds it to a synthetic
// placeholder path instead of stringifying it inline. Data is read from
// or written to the Target object depending on which redirect operator
// the placeholder ends up under.
type StreamTarget struct {
	Target any // io.Reader for "<" targets, io.Writer for ">"/">>" targets
}

// Build assembles shell source from literal template fragments and
// interpolated values, the same shape a host-language tagged template
// produces: parts has one more element than values
// (parts[0] + values[0] + parts[1] + values[1] + ... + parts[n]).
//
// Every value that is not a Raw or a StreamTarget is stringified with
// fmt.Sprint and backslash-escaped per the metacharacter whitelist. A
// Raw value is spliced in unescaped. A StreamTarget is replaced by a
// placeholder path registered in the returned Bindings, which the
// placeholder filesystem adapter resolves back to the bound object at
// run time.
func Build(parts []string, values ...any) (string, *Bindings) {
	if len(parts) != len(values)+1 {
		panic("shell: Build: len(parts) must be len(values)+1")
	}
	var b strings.Builder
	bindings := newBindings()
	b.WriteString(parts[0])
	for i, v := range values {
		switch x := v.(type) {
		case Raw:
			b.WriteString(string(x))
		case StreamTarget:
			b.WriteString(bindings.bind(x.Target))
		default:
			b.WriteString(escapeMeta(fmt.Sprint(v)))
		}
		b.WriteString(parts[i+1])
	}
	return b.String(), bindings
}

// escapeMeta backslash-escapes every byte in s that appears in
// metaChars, leaving everything else untouched.
func escapeMeta(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(metaChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Bindings is the side table Build fills in: it maps synthetic
// placeholder paths to the opaque host objects a StreamTarget wrapped.
type Bindings struct {
	byPath map[string]any
	next   int
}

func newBindings() *Bindings { return &Bindings{byPath: make(map[string]any)} }

func (bn *Bindings) bind(target any) string {
	path := "/dev/fd/shelldsl-" + strconv.Itoa(bn.next)
	bn.next++
	bn.byPath[path] = target
	return path
}

// Lookup returns the object bound to path, if any.
func (bn *Bindings) Lookup(path string) (any, bool) {
	v, ok := bn.byPath[path]
	return v, ok
}

// Empty reports whether no StreamTarget was bound.
func (bn *Bindings) Empty() bool { return len(bn.byPath) == 0 }
