// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package syntax implements the lexer, parser and AST for the shell
// language: quoting, variable references, command substitution, arithmetic
// expansion, heredocs, redirections, globs and the control-flow constructs
// named in the data model.
package syntax

import "github.com/ricsam/shelldsl/token"

// Pos and Position are re-exported from token so that callers working with
// syntax values don't need to import token directly for position handling.
type Pos = token.Pos
type Position = token.Position

// Node is implemented by every AST node.
type Node interface {
	Pos() Pos
	End() Pos
}

// File is a parsed program: a sequence of top-level statements.
type File struct {
	Name  string
	Stmts []Node // each is an AstNode (Command, Pipeline, And, Or, Sequence, ...)
	Lines []int  // offset of the first byte of each line, Lines[0] == 0
}

func (f *File) Pos() Pos {
	if len(f.Stmts) == 0 {
		return 0
	}
	return f.Stmts[0].Pos()
}
func (f *File) End() Pos {
	if len(f.Stmts) == 0 {
		return 0
	}
	return f.Stmts[len(f.Stmts)-1].End()
}

// Position resolves a Pos to a line/column pair using f's line table.
func (f *File) Position(p Pos) Position {
	offset := int(p) - 1
	line := 1
	for i, lineStart := range f.Lines {
		if lineStart > offset {
			break
		}
		line = i + 1
	}
	col := offset - f.Lines[line-1] + 1
	return Position{Offset: offset, Line: line, Column: col}
}

// ---- Words and word parts ----

// WordNode is a single syntactic word: a sequence of parts which, after
// expansion, becomes one or more argument strings.
type WordNode interface {
	Node
	wordNode()
}

// Literal is an unquoted or quoted run of literal text. Quoted marks
// whether the text came from a single- or double-quoted run (so later
// expansion stages and glob/brace expansion know to skip it), and is also
// used for the double-quote interpolation-escape rules.
type Literal struct {
	ValuePos Pos
	ValueEnd Pos
	Value    string
	Quoted   bool // came from inside '...' or "..."
}

func (l *Literal) Pos() Pos { return l.ValuePos }
func (l *Literal) End() Pos { return l.ValueEnd }
func (*Literal) wordNode()  {}

// Variable is an unquoted or double-quoted $NAME / ${NAME} reference.
type Variable struct {
	ValuePos Pos
	ValueEnd Pos
	Name     string
	Quoted   bool
}

func (v *Variable) Pos() Pos { return v.ValuePos }
func (v *Variable) End() Pos { return v.ValueEnd }
func (*Variable) wordNode()  {}

// Substitution is a $(...) command substitution; Body holds the fully
// parsed inner program (parsed eagerly, at parse time, from the raw source
// the lexer captured with balanced-paren counting).
type Substitution struct {
	ValuePos Pos
	ValueEnd Pos
	Body     *File
	Quoted   bool
}

func (s *Substitution) Pos() Pos { return s.ValuePos }
func (s *Substitution) End() Pos { return s.ValueEnd }
func (*Substitution) wordNode()  {}

// Arithmetic is a $((...)) arithmetic expansion; Expr holds the parsed
// arithmetic expression tree.
type Arithmetic struct {
	ValuePos Pos
	ValueEnd Pos
	Expr     ArithExpr
}

func (a *Arithmetic) Pos() Pos { return a.ValuePos }
func (a *Arithmetic) End() Pos { return a.ValueEnd }
func (*Arithmetic) wordNode()  {}

// Glob is an unquoted word containing *, ? or [...] and so participates in
// filename expansion.
type Glob struct {
	ValuePos Pos
	ValueEnd Pos
	Pattern  string
}

func (g *Glob) Pos() Pos { return g.ValuePos }
func (g *Glob) End() Pos { return g.ValueEnd }
func (*Glob) wordNode()  {}

// Concat is two or more word parts with no separating whitespace, such as
// --flag="value". The parser's adjacent-token merging (MergedCluster in
// the data model) is represented this way (a double-quoted word's own
// parts are a DoubleQuoted node instead): expansion concatenates each
// part's own expansion with no separator.
type Concat struct {
	Parts []WordNode
}

func (c *Concat) Pos() Pos {
	if len(c.Parts) == 0 {
		return 0
	}
	return c.Parts[0].Pos()
}
func (c *Concat) End() Pos {
	if len(c.Parts) == 0 {
		return 0
	}
	return c.Parts[len(c.Parts)-1].End()
}
func (*Concat) wordNode() {}

// DoubleQuoted is a double-quoted word: an ordered list of literal runs and
// inline $VAR / $(...) / $((...)) nodes, none of which are subject to
// glob or brace expansion, and whose Variable/Substitution children have
// Quoted set to true (Arithmetic has no Quoted field).
type DoubleQuoted struct {
	Lq, Rq Pos
	Parts  []WordNode
}

func (d *DoubleQuoted) Pos() Pos { return d.Lq }
func (d *DoubleQuoted) End() Pos { return d.Rq + 1 }
func (*DoubleQuoted) wordNode()  {}

// Heredoc is attached as the target of a Redirect with Mode ==
// token.RedirHeredoc. ContentTemplate is captured verbatim at lex time;
// Expand is false when the delimiter was quoted, meaning no expansion
// happens at execution time.
type Heredoc struct {
	ValuePos        Pos
	ValueEnd        Pos
	Delim           string
	ContentTemplate string
	Expand          bool
}

func (h *Heredoc) Pos() Pos { return h.ValuePos }
func (h *Heredoc) End() Pos { return h.ValueEnd }
func (*Heredoc) wordNode()  {}

// Word wraps a single WordNode so it can carry its own position range. The
// parser does not produce it: redirect targets, case patterns and for-loop
// items are stored as bare WordNode values.
type Word struct {
	Node WordNode
}

func (w *Word) Pos() Pos { return w.Node.Pos() }
func (w *Word) End() Pos { return w.Node.End() }

// ---- Assignments and redirects ----

// Assign is a NAME=VALUE assignment preceding a simple command's words.
type Assign struct {
	NamePos Pos
	Name    string
	Value   WordNode // nil for NAME= (empty value)
}

func (a *Assign) Pos() Pos { return a.NamePos }
func (a *Assign) End() Pos {
	if a.Value != nil {
		return a.Value.End()
	}
	return a.NamePos
}

// Redirect rewires a command's stdin/stdout/stderr. Target is nil and
// FdFrom/FdTo are set for fd-duplication forms (2>&1, 1>&2).
type Redirect struct {
	OpPos          Pos
	Mode           token.RedirectMode
	Target         WordNode
	FdFrom, FdTo   int
	IsDup          bool
	HeredocContent *Heredoc
}

func (r *Redirect) Pos() Pos { return r.OpPos }
func (r *Redirect) End() Pos {
	if r.Target != nil {
		return r.Target.End()
	}
	return r.OpPos
}

// ---- Commands ----

// AstNode is any node that can appear in statement position: Command,
// Pipeline, And, Or, Sequence, or one of the compound control-flow forms.
type AstNode interface {
	Node
	astNode()
}

// Command is a simple command: a word list plus any leading assignments
// and any redirects, attached to the command rather than to specific
// words. When Words is empty, only the assignments are evaluated, and
// (per the interpreter's assignment-scoping rule) they mutate the
// enclosing environment permanently instead of being scoped to a call.
type Command struct {
	Assigns   []*Assign
	Words     []WordNode
	Redirects []*Redirect
	StartPos  Pos
	EndPos    Pos
}

func (c *Command) Pos() Pos { return c.StartPos }
func (c *Command) End() Pos { return c.EndPos }
func (*Command) astNode()   {}

// Pipeline is two or more commands connected by |. Negated inverts the
// reported exit status of the whole pipeline (0 becomes 1, non-zero
// becomes 0).
type Pipeline struct {
	Stages  []AstNode
	Negated bool
}

func (p *Pipeline) Pos() Pos { return p.Stages[0].Pos() }
func (p *Pipeline) End() Pos { return p.Stages[len(p.Stages)-1].End() }
func (*Pipeline) astNode()  {}

// And is left && right; right only runs if left's exit code is 0.
type And struct{ Left, Right AstNode }

func (a *And) Pos() Pos { return a.Left.Pos() }
func (a *And) End() Pos { return a.Right.End() }
func (*And) astNode()   {}

// Or is left || right; right only runs if left's exit code is non-zero.
type Or struct{ Left, Right AstNode }

func (o *Or) Pos() Pos { return o.Left.Pos() }
func (o *Or) End() Pos { return o.Right.End() }
func (*Or) astNode()   {}

// Sequence is left ; right (or left and right separated by a newline);
// left runs to completion (including all of its own children) before
// right starts.
type Sequence struct{ Left, Right AstNode }

func (s *Sequence) Pos() Pos { return s.Left.Pos() }
func (s *Sequence) End() Pos { return s.Right.End() }
func (*Sequence) astNode()  {}

// IfBranch is one condition/body pair of an If node: the `if` branch
// itself, or one `elif`.
type IfBranch struct {
	Cond, Body AstNode
}

// If is if/elif/.../else/fi. Branches are tried in order; the first whose
// condition exits 0 has its Body run and no further branch (nor Else) is
// considered.
type If struct {
	Branches []IfBranch
	Else     AstNode // nil if there is no else clause
	StartPos, EndPos Pos
}

func (i *If) Pos() Pos { return i.StartPos }
func (i *If) End() Pos { return i.EndPos }
func (*If) astNode()   {}

// For is for NAME in ITEMS; do BODY; done. Items is nil when the `in`
// clause is absent; the positional-parameter form is not supported (there
// are no shell functions or scripts with $1.. here), so such a loop runs
// its body zero times.
type For struct {
	VarName          string
	Items            []WordNode
	Body             AstNode
	StartPos, EndPos Pos
}

func (f *For) Pos() Pos { return f.StartPos }
func (f *For) End() Pos { return f.EndPos }
func (*For) astNode()   {}

// While/Until is while/until COND; do BODY; done. Until is true for
// `until`, meaning the loop continues while the condition's exit is
// non-zero.
type While struct {
	Cond, Body       AstNode
	Until            bool
	StartPos, EndPos Pos
}

func (w *While) Pos() Pos { return w.StartPos }
func (w *While) End() Pos { return w.EndPos }
func (*While) astNode()   {}

// CaseArm is one pattern-list/body pair of a Case node.
type CaseArm struct {
	Patterns []WordNode
	Body     AstNode // nil for an empty arm
}

// Case is case SUBJECT in ARM*; esac. The subject is expanded once; arms
// are tried in order and the first whose pattern list matches (glob
// semantics, subject taken as the whole target) runs, with no fall-through.
type Case struct {
	Subject          WordNode
	Arms             []CaseArm
	StartPos, EndPos Pos
}

func (c *Case) Pos() Pos { return c.StartPos }
func (c *Case) End() Pos { return c.EndPos }
func (*Case) astNode()   {}

// Block is a `{ list; }` grouping: runs list in the current execution
// context (no subshell semantics are supported, per spec.md's Non-goals).
type Block struct {
	Body             AstNode
	StartPos, EndPos Pos
}

func (b *Block) Pos() Pos { return b.StartPos }
func (b *Block) End() Pos { return b.EndPos }
func (*Block) astNode()   {}

// Subshell is a `( list )` grouping. Since subshells as separate address
// spaces are a Non-goal, this runs like Block but against a shallow copy
// of the environment/cwd so that variable assignments and `cd` inside it
// do not leak back out, matching the one piece of subshell behavior
// scripts actually rely on day to day.
type Subshell struct {
	Body             AstNode
	StartPos, EndPos Pos
}

func (s *Subshell) Pos() Pos { return s.StartPos }
func (s *Subshell) End() Pos { return s.EndPos }
func (*Subshell) astNode()   {}
