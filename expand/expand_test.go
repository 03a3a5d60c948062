// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"sort"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ricsam/shelldsl/syntax"
)

type fakeGlobber map[string][]string

func (f fakeGlobber) Glob(cwd, pat string) ([]string, error) {
	out := append([]string(nil), f[pat]...)
	sort.Strings(out)
	return out, nil
}

func TestFieldsVariable(t *testing.T) {
	cfg := &Config{Env: MapEnviron{"NAME": "world"}}
	got, err := Fields(cfg, &syntax.Variable{Name: "NAME"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.DeepEquals, []string{"world"})
}

func TestFieldsVariableUnset(t *testing.T) {
	cfg := &Config{Env: MapEnviron{}}
	got, err := Fields(cfg, &syntax.Variable{Name: "MISSING"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.DeepEquals, []string{""})
}

func TestFieldsBraceExpansion(t *testing.T) {
	cfg := &Config{Env: MapEnviron{}}
	got, err := Fields(cfg, &syntax.Literal{Value: "file{1,2,3}.txt"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.DeepEquals, []string{"file1.txt", "file2.txt", "file3.txt"})
}

func TestFieldsGlobSorted(t *testing.T) {
	cfg := &Config{
		Env: MapEnviron{},
		FS:  fakeGlobber{"*.go": {"b.go", "a.go"}},
		Cwd: "/",
	}
	got, err := Fields(cfg, &syntax.Glob{Pattern: "*.go"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.DeepEquals, []string{"a.go", "b.go"})
}

func TestFieldsGlobNoMatchKeepsLiteral(t *testing.T) {
	cfg := &Config{Env: MapEnviron{}, FS: fakeGlobber{}, Cwd: "/"}
	got, err := Fields(cfg, &syntax.Glob{Pattern: "*.missing"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.DeepEquals, []string{"*.missing"})
}

func TestConcatSplitGlobDoesNotMatchEarly(t *testing.T) {
	// "*.t" + "xt" must only glob as the joined "*.txt", never as "*.t".
	cfg := &Config{
		Env: MapEnviron{},
		FS:  fakeGlobber{"*.t": {"wrong.t"}, "*.txt": {"right.txt"}},
		Cwd: "/",
	}
	w := &syntax.Concat{Parts: []syntax.WordNode{
		&syntax.Glob{Pattern: "*.t"},
		&syntax.Literal{Value: "xt"},
	}}
	got, err := Fields(cfg, w)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.DeepEquals, []string{"right.txt"})
}

func TestArithDefaultsNonNumericToZero(t *testing.T) {
	cfg := &Config{Env: MapEnviron{"X": "not-a-number"}}
	n, err := Arith(cfg, &syntax.ArithVar{Name: "X"})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, n, qt.Equals, 0)
}

func TestArithBinary(t *testing.T) {
	cfg := &Config{Env: MapEnviron{}}
	expr := &syntax.ArithBinary{
		Op: syntax.ArAdd,
		X:  &syntax.ArithLit{Value: "2"},
		Y:  &syntax.ArithLit{Value: "3"},
	}
	n, err := Arith(cfg, expr)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, n, qt.Equals, 5)
}

func TestMatchCaseNegatedClass(t *testing.T) {
	ok, err := MatchCase("[!abc]", "d")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, ok, qt.Equals, true)

	ok, err = MatchCase("[!abc]", "a")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, ok, qt.Equals, false)
}

func TestLiteralDoubleQuoted(t *testing.T) {
	cfg := &Config{Env: MapEnviron{"A": "1", "B": "2"}}
	w := &syntax.DoubleQuoted{Parts: []syntax.WordNode{
		&syntax.Literal{Value: "a=", Quoted: true},
		&syntax.Variable{Name: "A"},
		&syntax.Literal{Value: " b=", Quoted: true},
		&syntax.Variable{Name: "B"},
	}}
	got, err := Literal(cfg, w)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, got, qt.Equals, "a=1 b=2")
}
