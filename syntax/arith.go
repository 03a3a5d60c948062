// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"strings"
)

// ArithExpr is a node of a parsed $((...)) expression tree: the small
// integer grammar from the data model — integer literals, bare
// identifiers, unary +/-, the binary operators + - * / %, the comparison
// operators (returning 0/1) and parenthesized sub-expressions.
type ArithExpr interface {
	Node
	arithNode()
}

type ArithLit struct {
	ValuePos, ValueEnd Pos
	Value              string
}

func (a *ArithLit) Pos() Pos { return a.ValuePos }
func (a *ArithLit) End() Pos { return a.ValueEnd }
func (*ArithLit) arithNode() {}

type ArithVar struct {
	ValuePos, ValueEnd Pos
	Name               string
}

func (a *ArithVar) Pos() Pos { return a.ValuePos }
func (a *ArithVar) End() Pos { return a.ValueEnd }
func (*ArithVar) arithNode()  {}

type ArithUnary struct {
	OpPos Pos
	Op    byte // '+' or '-'
	X     ArithExpr
}

func (a *ArithUnary) Pos() Pos { return a.OpPos }
func (a *ArithUnary) End() Pos { return a.X.End() }
func (*ArithUnary) arithNode() {}

// ArithBinOp is the spelling of a binary arithmetic operator.
type ArithBinOp string

const (
	ArAdd ArithBinOp = "+"
	ArSub ArithBinOp = "-"
	ArMul ArithBinOp = "*"
	ArDiv ArithBinOp = "/"
	ArMod ArithBinOp = "%"
	ArEq  ArithBinOp = "=="
	ArNeq ArithBinOp = "!="
	ArLt  ArithBinOp = "<"
	ArLe  ArithBinOp = "<="
	ArGt  ArithBinOp = ">"
	ArGe  ArithBinOp = ">="
)

type ArithBinary struct {
	Op   ArithBinOp
	X, Y ArithExpr
}

func (a *ArithBinary) Pos() Pos { return a.X.Pos() }
func (a *ArithBinary) End() Pos { return a.Y.End() }
func (*ArithBinary) arithNode() {}

type ArithParen struct {
	Lparen, Rparen Pos
	X              ArithExpr
}

func (a *ArithParen) Pos() Pos { return a.Lparen }
func (a *ArithParen) End() Pos { return a.Rparen + 1 }
func (*ArithParen) arithNode() {}

// arithParser is a small recursive-descent/precedence-climbing parser over
// the raw source captured between $(( and )), independent of the main
// shell tokenizer (the arithmetic mini-language has its own lexical rules:
// identifiers, integers, and a fixed operator set).
type arithParser struct {
	s    string
	pos  int
	base Pos // position of s[0] in the original source, for error reporting
}

// ParseArith parses the captured source of a $((...)) expression into an
// ArithExpr. base is the position of the first byte of s within the
// overall source, used to produce accurate node positions.
func ParseArith(s string, base Pos) (ArithExpr, error) {
	p := &arithParser{s: s, base: base}
	p.skipSpace()
	if p.pos == len(p.s) {
		return &ArithLit{ValuePos: base, ValueEnd: base, Value: "0"}, nil
	}
	x, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("arithmetic: unexpected %q", p.s[p.pos:])
	}
	return x, nil
}

func (p *arithParser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t' || p.s[p.pos] == '\n') {
		p.pos++
	}
}

func (p *arithParser) peekOp(ops ...string) string {
	p.skipSpace()
	rest := p.s[p.pos:]
	for _, op := range ops {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	return ""
}

func (p *arithParser) parseComparison() (ArithExpr, error) {
	x, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peekOp("==", "!=", "<=", ">=", "<", ">")
		if op == "" {
			return x, nil
		}
		p.pos += len(op)
		y, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		x = &ArithBinary{Op: ArithBinOp(op), X: x, Y: y}
	}
}

func (p *arithParser) parseAdditive() (ArithExpr, error) {
	x, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peekOp("+", "-")
		if op == "" {
			return x, nil
		}
		p.pos += len(op)
		y, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		x = &ArithBinary{Op: ArithBinOp(op), X: x, Y: y}
	}
}

func (p *arithParser) parseTerm() (ArithExpr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peekOp("*", "/", "%")
		if op == "" {
			return x, nil
		}
		p.pos += len(op)
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &ArithBinary{Op: ArithBinOp(op), X: x, Y: y}
	}
}

func (p *arithParser) parseUnary() (ArithExpr, error) {
	p.skipSpace()
	start := p.pos
	if p.pos < len(p.s) && (p.s[p.pos] == '+' || p.s[p.pos] == '-') {
		op := p.s[p.pos]
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ArithUnary{OpPos: p.base + Pos(start), Op: op, X: x}, nil
	}
	return p.parsePrimary()
}

func (p *arithParser) parsePrimary() (ArithExpr, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return nil, fmt.Errorf("arithmetic: unexpected end of expression")
	}
	start := p.pos
	c := p.s[p.pos]
	switch {
	case c == '(':
		p.pos++
		x, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.s) || p.s[p.pos] != ')' {
			return nil, fmt.Errorf("arithmetic: expected ')'")
		}
		rparen := p.base + Pos(p.pos)
		p.pos++
		return &ArithParen{Lparen: p.base + Pos(start), Rparen: rparen, X: x}, nil
	case c >= '0' && c <= '9':
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
		return &ArithLit{ValuePos: p.base + Pos(start), ValueEnd: p.base + Pos(p.pos), Value: p.s[start:p.pos]}, nil
	case isIdentStart(c):
		for p.pos < len(p.s) && isIdentPart(p.s[p.pos]) {
			p.pos++
		}
		return &ArithVar{ValuePos: p.base + Pos(start), ValueEnd: p.base + Pos(p.pos), Name: p.s[start:p.pos]}, nil
	default:
		return nil, fmt.Errorf("arithmetic: unexpected character %q", c)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// ValidName reports whether s is a valid shell identifier (used both for
// assignment names and for bare-identifier arithmetic operands).
func ValidName(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
