// Copyright (c) 2018, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

// Environ is the read side of an execution context's variable mapping: a
// case-sensitive name to string value lookup, with Unset distinguishing a
// variable that was never assigned from one holding the empty string.
type Environ interface {
	// Get retrieves a variable's value and whether it is set.
	Get(name string) (value string, set bool)
	// Each iterates over all currently set variables, in unspecified
	// order; iteration stops early if fn returns false.
	Each(fn func(name, value string) bool)
}

// WriteEnviron extends Environ with mutation, used for assignments and for
// binding the for-loop variable.
type WriteEnviron interface {
	Environ
	// Set assigns name to value, creating it if unset.
	Set(name, value string)
	// Unset removes a variable entirely.
	Unset(name string)
}

// MapEnviron is the simplest WriteEnviron: a plain map, copy-on-branch for
// command-substitution and subshell isolation (see Copy).
type MapEnviron map[string]string

func (m MapEnviron) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m MapEnviron) Each(fn func(name, value string) bool) {
	for k, v := range m {
		if !fn(k, v) {
			return
		}
	}
}

func (m MapEnviron) Set(name, value string) { m[name] = value }
func (m MapEnviron) Unset(name string)      { delete(m, name) }

// Copy returns an independent copy, so that a child execution context (a
// command substitution's sub-run, or a subshell) can mutate its own
// environment without those changes propagating back to the parent.
func (m MapEnviron) Copy() MapEnviron {
	cp := make(MapEnviron, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
