// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strings"

// parseWord scans one word: a maximal run of non-blank, non-metacharacter
// text starting at the current position, with no intervening whitespace.
// Two or more word-parts scanned back to back with nothing separating them
// (a quoted run glued to a variable, a variable glued to plain text, and so
// on) naturally become one *Concat — this is how the data model's
// MergedCluster is realized, since the unified scanner below never stops
// mid-run for anything but whitespace, EOF, or a metacharacter.
//
// Returns nil (no error) if there is nothing to scan at the current
// position (EOF, whitespace, or an operator character).
func (p *Parser) parseWord() (WordNode, error) {
	var parts []WordNode
	var lit strings.Builder
	litStart := p.pos
	hasMeta := false

	flushLit := func() {
		if lit.Len() == 0 {
			return
		}
		val := lit.String()
		if hasMeta {
			parts = append(parts, &Glob{ValuePos: Pos(litStart + 1), ValueEnd: p.curPos(), Pattern: val})
		} else {
			parts = append(parts, &Literal{ValuePos: Pos(litStart + 1), ValueEnd: p.curPos(), Value: val})
		}
		lit.Reset()
		hasMeta = false
	}

	for {
		if p.eof() {
			break
		}
		c := p.cur()
		if lit.Len() == 0 && len(parts) == 0 {
			litStart = p.pos
		}
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			goto done
		case c == '|' || c == '&' || c == ';' || c == '<' || c == '>' || c == '(' || c == ')':
			goto done
		case c == '#' && lit.Len() == 0 && len(parts) == 0:
			// start-of-word '#' starts a comment to end of line
			for !p.eof() && p.cur() != '\n' {
				p.advance()
			}
			goto done
		case c == '\'':
			flushLit()
			part, err := p.scanSingleQuoted()
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
			litStart = p.pos
			continue
		case c == '"':
			flushLit()
			part, err := p.scanDoubleQuoted()
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
			litStart = p.pos
			continue
		case c == '$':
			part, consumed, err := p.scanDollar(false)
			if err != nil {
				return nil, err
			}
			if !consumed {
				lit.WriteByte(c)
				p.advance()
				continue
			}
			flushLit()
			if part != nil {
				parts = append(parts, part)
			}
			litStart = p.pos
			continue
		case c == '\\':
			p.advance()
			if p.eof() {
				lit.WriteByte('\\')
				goto done
			}
			if p.cur() == '\n' {
				p.advance()
				continue
			}
			lit.WriteByte(p.advance())
			continue
		case c == '*' || c == '?' || c == '[':
			hasMeta = true
			lit.WriteByte(c)
			p.advance()
			continue
		default:
			lit.WriteByte(c)
			p.advance()
			continue
		}
	}
done:
	flushLit()
	switch len(parts) {
	case 0:
		return nil, nil
	case 1:
		return parts[0], nil
	default:
		return &Concat{Parts: parts}, nil
	}
}

// scanSingleQuoted scans 'literal text' verbatim; the returned Literal's
// Value is byte-identical to the source between the quotes, with no
// escape processing at all.
func (p *Parser) scanSingleQuoted() (WordNode, error) {
	start := p.curPos()
	p.advance() // opening '
	valStart := p.pos
	for {
		if p.eof() {
			return nil, p.errf(start, "unterminated single-quoted string")
		}
		if p.cur() == '\'' {
			break
		}
		p.advance()
	}
	val := string(p.src[valStart:p.pos])
	p.advance() // closing '
	return &Literal{ValuePos: start, ValueEnd: p.curPos(), Value: val, Quoted: true}, nil
}

// scanDoubleQuoted scans a "..." word, splitting its body into literal
// runs interleaved with $VAR / ${VAR} / $(...) / $((...)) nodes, applying
// the double-quote escape rules for \" \\ \$ \` and \newline; any other
// \x sequence is left as the two literal characters.
func (p *Parser) scanDoubleQuoted() (WordNode, error) {
	start := p.curPos()
	p.advance() // opening "
	var parts []WordNode
	var lit strings.Builder
	litStart := p.pos

	flush := func() {
		if lit.Len() == 0 {
			return
		}
		parts = append(parts, &Literal{ValuePos: Pos(litStart + 1), ValueEnd: p.curPos(), Value: lit.String(), Quoted: true})
		lit.Reset()
	}

	for {
		if p.eof() {
			return nil, p.errf(start, "unterminated double-quoted string")
		}
		c := p.cur()
		switch c {
		case '"':
			p.advance()
			flush()
			return &DoubleQuoted{Lq: start, Rq: p.curPos() - 1, Parts: parts}, nil
		case '\\':
			nxt := p.byteAt(1)
			switch nxt {
			case '"', '\\', '$', '`':
				p.advance()
				lit.WriteByte(p.advance())
			case '\n':
				p.advance()
				p.advance()
			default:
				lit.WriteByte(p.advance())
				if !p.eof() {
					lit.WriteByte(p.advance())
				}
			}
			continue
		case '$':
			part, consumed, err := p.scanDollar(true)
			if err != nil {
				return nil, err
			}
			if !consumed {
				lit.WriteByte(p.advance())
				continue
			}
			flush()
			if part != nil {
				parts = append(parts, part)
			}
			litStart = p.pos
			continue
		default:
			lit.WriteByte(p.advance())
			continue
		}
	}
}

// scanDollar scans a $ construct: $NAME, ${NAME}, $(...) or $((...)).
// consumed is false when the '$' does not introduce any recognized form
// (end of input, or followed by a character that can't start a name,
// brace or paren), in which case the caller treats '$' as a literal byte
// and scanDollar has not advanced the position.
func (p *Parser) scanDollar(quoted bool) (WordNode, bool, error) {
	start := p.curPos()
	// p.cur() == '$'
	nxt := p.byteAt(1)
	switch {
	case nxt == '(' && p.byteAt(2) == '(':
		return p.scanArithmetic(start, quoted)
	case nxt == '(':
		return p.scanSubstitution(start, quoted)
	case nxt == '{':
		return p.scanBracedVariable(start, quoted)
	case isIdentStart(nxt):
		p.advance() // $
		nameStart := p.pos
		for !p.eof() && isIdentPart(p.cur()) {
			p.advance()
		}
		name := string(p.src[nameStart:p.pos])
		return &Variable{ValuePos: start, ValueEnd: p.curPos(), Name: name, Quoted: quoted}, true, nil
	default:
		return nil, false, nil
	}
}

func (p *Parser) scanBracedVariable(start Pos, quoted bool) (WordNode, bool, error) {
	p.pos += 2 // ${
	nameStart := p.pos
	for !p.eof() && isIdentPart(p.cur()) {
		p.advance()
	}
	name := string(p.src[nameStart:p.pos])
	if p.eof() || p.cur() != '}' {
		return nil, false, p.errf(start, "unterminated ${")
	}
	p.advance() // }
	if name == "" {
		return nil, false, p.errf(start, "bad substitution: ${} needs a name")
	}
	return &Variable{ValuePos: start, ValueEnd: p.curPos(), Name: name, Quoted: quoted}, true, nil
}

// scanSubstitution captures the raw source of a $(...) with balanced-paren
// counting, respecting nested quotes and nested $(...), then eagerly
// parses it into a *File.
func (p *Parser) scanSubstitution(start Pos, quoted bool) (WordNode, bool, error) {
	p.pos += 2 // $(
	inner, err := p.captureBalanced('(', ')', start)
	if err != nil {
		return nil, false, err
	}
	body, err := parseSource(inner, p.name)
	if err != nil {
		return nil, false, err
	}
	return &Substitution{ValuePos: start, ValueEnd: p.curPos(), Body: body, Quoted: quoted}, true, nil
}

// scanArithmetic captures until the matching `))`.
func (p *Parser) scanArithmetic(start Pos, quoted bool) (WordNode, bool, error) {
	p.pos += 3 // $((
	innerStart := p.pos
	depth := 1
	for {
		if p.eof() {
			return nil, false, p.errf(start, "unterminated $((")
		}
		if p.cur() == '(' {
			depth++
			p.advance()
			continue
		}
		if p.cur() == ')' {
			if p.byteAt(1) == ')' && depth == 1 {
				break
			}
			depth--
			p.advance()
			continue
		}
		p.advance()
	}
	inner := string(p.src[innerStart:p.pos])
	exprPos := Pos(innerStart + 1)
	p.pos += 2 // ))
	expr, err := ParseArith(inner, exprPos)
	if err != nil {
		return nil, false, p.errf(start, "%v", err)
	}
	return &Arithmetic{ValuePos: start, ValueEnd: p.curPos(), Expr: expr}, true, nil
}

// captureBalanced captures raw source up to the matching close rune,
// counting nested opens/closes of the same pair and skipping over quoted
// regions so that a ')' inside a string literal doesn't end the capture
// early. start is only used for error positions.
func (p *Parser) captureBalanced(open, close byte, start Pos) (string, error) {
	captureStart := p.pos
	depth := 1
	for {
		if p.eof() {
			return "", p.errf(start, "unterminated %q", "$(")
		}
		c := p.cur()
		switch c {
		case '\\':
			p.advance()
			if !p.eof() {
				p.advance()
			}
			continue
		case '\'':
			p.advance()
			for !p.eof() && p.cur() != '\'' {
				p.advance()
			}
			if p.eof() {
				return "", p.errf(start, "unterminated single-quoted string")
			}
			p.advance()
			continue
		case '"':
			p.advance()
			for !p.eof() && p.cur() != '"' {
				if p.cur() == '\\' {
					p.advance()
					if p.eof() {
						break
					}
				}
				p.advance()
			}
			if p.eof() {
				return "", p.errf(start, "unterminated double-quoted string")
			}
			p.advance()
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				inner := string(p.src[captureStart:p.pos])
				p.advance()
				return inner, nil
			}
		}
		p.advance()
	}
}
