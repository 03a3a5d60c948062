// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"sort"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestMapEnvironGetSet(t *testing.T) {
	m := make(MapEnviron)
	m.Set("A", "1")
	v, ok := m.Get("A")
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, v, qt.Equals, "1")

	_, ok = m.Get("MISSING")
	qt.Assert(t, ok, qt.Equals, false)
}

func TestMapEnvironUnset(t *testing.T) {
	m := MapEnviron{"A": "1"}
	m.Unset("A")
	_, ok := m.Get("A")
	qt.Assert(t, ok, qt.Equals, false)
}

func TestMapEnvironCopyIsIndependent(t *testing.T) {
	m := MapEnviron{"A": "1"}
	c := m.Copy()
	c.Set("A", "2")
	v, _ := m.Get("A")
	qt.Assert(t, v, qt.Equals, "1")
}

func TestMapEnvironEach(t *testing.T) {
	m := MapEnviron{"A": "1", "B": "2"}
	var names []string
	m.Each(func(name, value string) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	qt.Assert(t, names, qt.DeepEquals, []string{"A", "B"})
}
