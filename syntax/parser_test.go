// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	qt "github.com/frankban/quicktest"
)

// describe flattens an AST into position-free values so tests can diff
// shape without position bookkeeping.
type describedWord struct {
	Kind  string
	Value string
	Parts []describedWord
}

func describeWord(w WordNode) describedWord {
	switch n := w.(type) {
	case *Literal:
		return describedWord{Kind: "lit", Value: n.Value}
	case *Variable:
		return describedWord{Kind: "var", Value: n.Name}
	case *Glob:
		return describedWord{Kind: "glob", Value: n.Pattern}
	case *Concat:
		d := describedWord{Kind: "concat"}
		for _, p := range n.Parts {
			d.Parts = append(d.Parts, describeWord(p))
		}
		return d
	case *DoubleQuoted:
		d := describedWord{Kind: "dq"}
		for _, p := range n.Parts {
			d.Parts = append(d.Parts, describeWord(p))
		}
		return d
	case *Substitution:
		return describedWord{Kind: "subst"}
	case *Arithmetic:
		return describedWord{Kind: "arith"}
	default:
		return describedWord{Kind: "unknown"}
	}
}

type describedNode struct {
	Kind  string
	Words []string
}

func describeSimpleCommand(n *Command) describedNode {
	d := describedNode{Kind: "command"}
	for _, w := range n.Words {
		lit, ok := w.(*Literal)
		if ok {
			d.Words = append(d.Words, lit.Value)
			continue
		}
		d.Words = append(d.Words, describeWord(w).Kind)
	}
	return d
}

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	f, err := NewParser().Parse(strings.NewReader(src), "test.sh")
	qt.Assert(t, err, qt.IsNil)
	return f
}

func TestParseSimpleCommand(t *testing.T) {
	f := mustParse(t, "echo hello world\n")
	qt.Assert(t, len(f.Stmts), qt.Equals, 1)

	cmd, ok := f.Stmts[0].(*Command)
	qt.Assert(t, ok, qt.Equals, true)

	got := describeSimpleCommand(cmd)
	want := describedNode{Kind: "command", Words: []string{"echo", "hello", "world"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("command shape mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePipeline(t *testing.T) {
	f := mustParse(t, "echo hi | grep hi\n")
	qt.Assert(t, len(f.Stmts), qt.Equals, 1)

	pipe, ok := f.Stmts[0].(*Pipeline)
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, len(pipe.Stages), qt.Equals, 2)
	qt.Assert(t, pipe.Negated, qt.Equals, false)
}

func TestParseNegatedPipeline(t *testing.T) {
	f := mustParse(t, "! false\n")
	pipe, ok := f.Stmts[0].(*Pipeline)
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, pipe.Negated, qt.Equals, true)
}

func TestParseAndOr(t *testing.T) {
	f := mustParse(t, "true && echo a || echo b\n")
	_, ok := f.Stmts[0].(*Or)
	qt.Assert(t, ok, qt.Equals, true)
}

func TestParseIfElifElse(t *testing.T) {
	src := `
if false; then
  echo a
elif false; then
  echo b
else
  echo c
fi
`
	f := mustParse(t, src)
	ifNode, ok := f.Stmts[0].(*If)
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, len(ifNode.Branches), qt.Equals, 2)
	qt.Assert(t, ifNode.Else, qt.Not(qt.IsNil))
}

func TestParseForLoop(t *testing.T) {
	f := mustParse(t, "for x in a b c; do echo $x; done\n")
	forNode, ok := f.Stmts[0].(*For)
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, forNode.VarName, qt.Equals, "x")
	qt.Assert(t, len(forNode.Items), qt.Equals, 3)
}

func TestParseWhileUntil(t *testing.T) {
	f := mustParse(t, "until true; do echo x; done\n")
	w, ok := f.Stmts[0].(*While)
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, w.Until, qt.Equals, true)
}

func TestParseCaseArms(t *testing.T) {
	src := `
case foo.txt in
  *.go) echo go ;;
  *.txt|*.md) echo text ;;
  *) echo other ;;
esac
`
	f := mustParse(t, src)
	c, ok := f.Stmts[0].(*Case)
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, len(c.Arms), qt.Equals, 3)
	qt.Assert(t, len(c.Arms[1].Patterns), qt.Equals, 2)
}

func TestParseSubshellAndBlock(t *testing.T) {
	f := mustParse(t, "(echo a)\n{ echo b; }\n")
	qt.Assert(t, len(f.Stmts), qt.Equals, 2)

	_, isSub := f.Stmts[0].(*Subshell)
	qt.Assert(t, isSub, qt.Equals, true)

	_, isBlock := f.Stmts[1].(*Block)
	qt.Assert(t, isBlock, qt.Equals, true)
}

func TestParseRedirectsAndHeredoc(t *testing.T) {
	f := mustParse(t, "cat <<EOF > out.txt\nbody $x\nEOF\n")
	cmd, ok := f.Stmts[0].(*Command)
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, len(cmd.Redirects), qt.Equals, 2)

	heredocRedirect := cmd.Redirects[0]
	qt.Assert(t, heredocRedirect.HeredocContent, qt.Not(qt.IsNil))
	qt.Assert(t, heredocRedirect.HeredocContent.ContentTemplate, qt.Equals, "body $x\n")
	qt.Assert(t, heredocRedirect.HeredocContent.Expand, qt.Equals, true)
}

func TestParseQuotedHeredocDoesNotExpand(t *testing.T) {
	f := mustParse(t, "cat <<'EOF'\nbody $x\nEOF\n")
	cmd := f.Stmts[0].(*Command)
	qt.Assert(t, cmd.Redirects[0].HeredocContent.Expand, qt.Equals, false)
}

func TestParseAssignment(t *testing.T) {
	f := mustParse(t, "X=value echo done\n")
	cmd, ok := f.Stmts[0].(*Command)
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, len(cmd.Assigns), qt.Equals, 1)
	qt.Assert(t, cmd.Assigns[0].Name, qt.Equals, "X")
}

func TestParseErrorUnterminatedIf(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("if true\n"), "bad.sh")
	qt.Assert(t, err, qt.Not(qt.IsNil))

	perr, ok := err.(*ParseError)
	qt.Assert(t, ok, qt.Equals, true)
	qt.Assert(t, perr.Filename, qt.Equals, "bad.sh")
}
