// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/ricsam/shelldsl/token"
)

// ParseError is returned for malformed source: an unterminated quote, an
// unterminated $(...)/${...}/$((...)), an unterminated heredoc, or a
// grammar violation such as an unmatched fi/done/esac/). No commands run
// when parsing fails.
type ParseError struct {
	token.Position
	Filename, Text string
}

func (e *ParseError) Error() string {
	prefix := ""
	if e.Filename != "" {
		prefix = e.Filename + ":"
	}
	return fmt.Sprintf("%s%d:%d: %s", prefix, e.Line, e.Column, e.Text)
}

// Option configures a Parser.
type Option func(*Parser)

// Parser turns shell source into a *File. A Parser is not safe for
// concurrent use, but is safe to reuse sequentially.
type Parser struct {
	src    []byte
	name   string
	pos    int // next unread byte offset
	lines  []int

	pendingHeredocs []*pendingHeredoc
}

type pendingHeredoc struct {
	node     *Heredoc
	stripTab bool
}

// NewParser returns a ready-to-use Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse lexes and parses the program in r, returning its AST or a
// *ParseError.
func (p *Parser) Parse(r io.Reader, name string) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fp := &Parser{src: data, name: name, lines: []int{0}}
	stmts, err := fp.parseStmtList(atEOF)
	if err != nil {
		return nil, err
	}
	if !fp.eof() {
		end := fp.pos + 1
		for end < len(fp.src) && !isBlankOrMeta(fp.src[end]) {
			end++
		}
		return nil, fp.errf(fp.curPos(), "unexpected %q", fp.src[fp.pos:end])
	}
	return &File{Name: name, Stmts: stmts, Lines: fp.lines}, nil
}

// parseSource is used internally to parse a $(...) body captured by the
// lexer: the raw inner source, re-lexed and re-parsed at parse time.
func parseSource(src string, name string) (*File, error) {
	return NewParser().Parse(strings.NewReader(src), name)
}

// ---- low-level byte scanning ----

func (p *Parser) eof() bool { return p.pos >= len(p.src) }

func (p *Parser) byteAt(off int) byte {
	i := p.pos + off
	if i < 0 || i >= len(p.src) {
		return 0
	}
	return p.src[i]
}

func (p *Parser) cur() byte { return p.byteAt(0) }

func (p *Parser) curPos() Pos { return Pos(p.pos + 1) }

// advance consumes one byte, updating the line table.
func (p *Parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.lines = append(p.lines, p.pos)
	}
	return c
}

func (p *Parser) hasPrefix(s string) bool {
	return strings.HasPrefix(string(p.src[p.pos:]), s)
}

func (p *Parser) position(pos Pos) token.Position {
	offset := int(pos) - 1
	line := 1
	for i, lineStart := range p.lines {
		if lineStart > offset {
			break
		}
		line = i + 1
	}
	lineStart := 0
	if line-1 < len(p.lines) {
		lineStart = p.lines[line-1]
	}
	return token.Position{Offset: offset, Line: line, Column: offset - lineStart + 1}
}

func (p *Parser) errf(pos Pos, format string, args ...any) error {
	return &ParseError{Position: p.position(pos), Filename: p.name, Text: fmt.Sprintf(format, args...)}
}

// skipBlanks consumes spaces, tabs and (optionally) a trailing comment, but
// never a newline.
func (p *Parser) skipBlanks() {
	for {
		switch p.cur() {
		case ' ', '\t':
			p.advance()
			continue
		case '#':
			for !p.eof() && p.cur() != '\n' {
				p.advance()
			}
			continue
		case '\\':
			if p.byteAt(1) == '\n' {
				p.advance()
				p.advance()
				continue
			}
		}
		return
	}
}

// skipBlanksAndNewlines additionally consumes newlines and semicolons-free
// blank lines, used where the grammar allows a list of newlines (e.g.
// after `do`, `then`, `in`).
func (p *Parser) skipBlanksAndNewlines() {
	for {
		p.skipBlanks()
		if p.cur() == '\n' {
			p.advance()
			continue
		}
		return
	}
}

func isBlankOrMeta(c byte) bool {
	switch c {
	case 0, ' ', '\t', '\n', '|', '&', ';', '<', '>', '(', ')':
		return true
	}
	return false
}

// ---- reserved words / operators recognition ----

// peekWordLit reports whether, ignoring surrounding blanks, the upcoming
// bare word is exactly lit (used to recognize reserved words, which are
// only special in command position and only when they form a whole word).
func (p *Parser) peekWordLit(lit string) bool {
	if !p.hasPrefix(lit) {
		return false
	}
	return isBlankOrMeta(p.byteAt(len(lit))) || p.pos+len(lit) >= len(p.src)
}

func (p *Parser) consumeWordLit(lit string) {
	p.pos += len(lit)
}

const atEOF = ""

// parseStmtList parses `and_or ( (';' | newline) and_or )*` until EOF or
// one of the stop words (used for compound-command bodies, e.g. stopping
// at "fi"/"done"/"esac").
func (p *Parser) parseStmtList(stopWords ...string) ([]Node, error) {
	var stmts []Node
	for {
		p.skipBlanksAndNewlines()
		for {
			p.skipBlanks()
			if p.cur() == ';' && p.byteAt(1) != ';' {
				p.advance()
				p.skipBlanksAndNewlines()
				continue
			}
			break
		}
		if p.eof() {
			return stmts, nil
		}
		if p.atStopWord(stopWords) {
			return stmts, nil
		}
		before := p.pos
		node, err := p.parseAndOr()
		if err != nil {
			return nil, err
		}
		if p.pos == before {
			// Nothing here starts a statement (a ')' or a reserved word
			// closing some other construct): the caller decides.
			return stmts, nil
		}
		stmts = append(stmts, node)
		if err := p.afterStmtSeparator(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) atStopWord(words []string) bool {
	for _, w := range words {
		if w != "" && p.peekWordLit(w) {
			return true
		}
	}
	return false
}

// afterStmtSeparator consumes the ';' or newline(s) ending a statement, if
// present, and captures any pending heredoc bodies once the logical line
// has ended. It is not an error for there to be no separator immediately
// before EOF or a stop word.
func (p *Parser) afterStmtSeparator() error {
	p.skipBlanks()
	sawNewline := false
	switch p.cur() {
	case ';':
		if p.byteAt(1) != ';' {
			p.advance()
		}
	case '\n':
		p.advance()
		sawNewline = true
	case '&':
		return p.errf(p.curPos(), "background commands ('&') are not supported")
	}
	if sawNewline || p.eof() {
		if err := p.captureHeredocs(); err != nil {
			return err
		}
	}
	return nil
}

// captureHeredocs reads the bodies of any heredocs introduced on the line
// that just ended, in the order their redirects were parsed.
func (p *Parser) captureHeredocs() error {
	pending := p.pendingHeredocs
	p.pendingHeredocs = nil
	for _, ph := range pending {
		var lines []string
		for {
			if p.eof() {
				return p.errf(ph.node.ValuePos, "unterminated heredoc (want %q)", ph.node.Delim)
			}
			lineStart := p.pos
			for !p.eof() && p.cur() != '\n' {
				p.advance()
			}
			line := string(p.src[lineStart:p.pos])
			if !p.eof() {
				p.advance() // consume newline
			}
			cmp := line
			if ph.stripTab {
				cmp = strings.TrimLeft(line, "\t")
			}
			if cmp == ph.node.Delim {
				break
			}
			if ph.stripTab {
				line = strings.TrimLeft(line, "\t")
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			ph.node.ContentTemplate = ""
		} else {
			ph.node.ContentTemplate = strings.Join(lines, "\n") + "\n"
		}
	}
	return nil
}

// ---- and_or / pipeline ----

func (p *Parser) parseAndOr() (Node, error) {
	left, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	for {
		p.skipBlanks()
		switch {
		case p.hasPrefix("&&"):
			p.pos += 2
			p.skipBlanksAndNewlines()
			right, err := p.parsePipeline()
			if err != nil {
				return nil, err
			}
			left = &And{Left: left.(AstNode), Right: right.(AstNode)}
		case p.hasPrefix("||"):
			p.pos += 2
			p.skipBlanksAndNewlines()
			right, err := p.parsePipeline()
			if err != nil {
				return nil, err
			}
			left = &Or{Left: left.(AstNode), Right: right.(AstNode)}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parsePipeline() (AstNode, error) {
	p.skipBlanks()
	negated := false
	if p.cur() == '!' && isBlankOrMeta(p.byteAt(1)) {
		negated = true
		p.advance()
		p.skipBlanks()
	}
	first, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	stages := []AstNode{first}
	for {
		p.skipBlanks()
		if p.cur() == '|' && p.byteAt(1) != '|' {
			p.advance()
			p.skipBlanksAndNewlines()
			next, err := p.parseCommand()
			if err != nil {
				return nil, err
			}
			stages = append(stages, next)
			continue
		}
		break
	}
	if len(stages) == 1 && !negated {
		return stages[0], nil
	}
	return &Pipeline{Stages: stages, Negated: negated}, nil
}

// ---- commands ----

func (p *Parser) parseCommand() (AstNode, error) {
	p.skipBlanks()
	switch {
	case p.peekWordLit("if"):
		return p.parseIf()
	case p.peekWordLit("for"):
		return p.parseFor()
	case p.peekWordLit("while"):
		return p.parseWhileUntil(false)
	case p.peekWordLit("until"):
		return p.parseWhileUntil(true)
	case p.peekWordLit("case"):
		return p.parseCase()
	case p.cur() == '{' && isBlankOrMeta(p.byteAt(1)):
		return p.parseBlock()
	case p.cur() == '(':
		return p.parseSubshell()
	default:
		return p.parseSimpleCommand()
	}
}

func (p *Parser) parseBlock() (AstNode, error) {
	start := p.curPos()
	p.advance() // '{'
	body, err := p.parseStmtList("}")
	if err != nil {
		return nil, err
	}
	p.skipBlanksAndNewlines()
	if !p.peekWordLit("}") {
		return nil, p.errf(p.curPos(), "expected '}'")
	}
	p.consumeWordLit("}")
	return &Block{Body: seqOf(body), StartPos: start, EndPos: p.curPos()}, nil
}

func (p *Parser) parseSubshell() (AstNode, error) {
	start := p.curPos()
	p.advance() // '('
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	p.skipBlanksAndNewlines()
	if p.cur() != ')' {
		return nil, p.errf(p.curPos(), "expected ')'")
	}
	p.advance()
	return &Subshell{Body: seqOf(body), StartPos: start, EndPos: p.curPos()}, nil
}

// seqOf folds a statement list into a right-leaning Sequence chain, the
// same shape parseStmtList's caller would get from top-level parsing.
// SeqOf folds a statement list (such as a File's top-level Stmts) into a
// right-leaning Sequence chain, the same shape a parsed ';'-separated list
// produces; an empty list becomes a no-op empty Command.
func SeqOf(stmts []Node) AstNode { return seqOf(stmts) }

func seqOf(stmts []Node) AstNode {
	if len(stmts) == 0 {
		return &Command{}
	}
	nodes := make([]AstNode, len(stmts))
	for i, s := range stmts {
		nodes[i] = s.(AstNode)
	}
	result := nodes[len(nodes)-1]
	for i := len(nodes) - 2; i >= 0; i-- {
		result = &Sequence{Left: nodes[i], Right: result}
	}
	return result
}

func (p *Parser) parseIf() (AstNode, error) {
	start := p.curPos()
	p.consumeWordLit("if")
	var branches []IfBranch
	for {
		cond, err := p.parseStmtList("then")
		if err != nil {
			return nil, err
		}
		p.skipBlanksAndNewlines()
		if !p.peekWordLit("then") {
			return nil, p.errf(p.curPos(), "expected 'then'")
		}
		p.consumeWordLit("then")
		body, err := p.parseStmtList("elif", "else", "fi")
		if err != nil {
			return nil, err
		}
		branches = append(branches, IfBranch{Cond: seqOf(cond), Body: seqOf(body)})
		p.skipBlanksAndNewlines()
		if p.peekWordLit("elif") {
			p.consumeWordLit("elif")
			continue
		}
		break
	}
	var elseBody AstNode
	if p.peekWordLit("else") {
		p.consumeWordLit("else")
		body, err := p.parseStmtList("fi")
		if err != nil {
			return nil, err
		}
		elseBody = seqOf(body)
	}
	p.skipBlanksAndNewlines()
	if !p.peekWordLit("fi") {
		return nil, p.errf(p.curPos(), "expected 'fi'")
	}
	p.consumeWordLit("fi")
	return &If{Branches: branches, Else: elseBody, StartPos: start, EndPos: p.curPos()}, nil
}

func (p *Parser) parseFor() (AstNode, error) {
	start := p.curPos()
	p.consumeWordLit("for")
	p.skipBlanks()
	name, err := p.scanBareIdent()
	if err != nil {
		return nil, err
	}
	p.skipBlanksAndNewlines()
	var items []WordNode
	if p.peekWordLit("in") {
		p.consumeWordLit("in")
		for {
			p.skipBlanks()
			if p.cur() == ';' || p.cur() == '\n' || p.eof() {
				break
			}
			w, err := p.parseWord()
			if err != nil {
				return nil, err
			}
			if w == nil {
				break
			}
			items = append(items, w)
		}
		p.skipBlanks()
		if p.cur() == ';' {
			p.advance()
		}
	}
	p.skipBlanksAndNewlines()
	if !p.peekWordLit("do") {
		return nil, p.errf(p.curPos(), "expected 'do'")
	}
	p.consumeWordLit("do")
	body, err := p.parseStmtList("done")
	if err != nil {
		return nil, err
	}
	p.skipBlanksAndNewlines()
	if !p.peekWordLit("done") {
		return nil, p.errf(p.curPos(), "expected 'done'")
	}
	p.consumeWordLit("done")
	return &For{VarName: name, Items: items, Body: seqOf(body), StartPos: start, EndPos: p.curPos()}, nil
}

func (p *Parser) parseWhileUntil(until bool) (AstNode, error) {
	start := p.curPos()
	if until {
		p.consumeWordLit("until")
	} else {
		p.consumeWordLit("while")
	}
	cond, err := p.parseStmtList("do")
	if err != nil {
		return nil, err
	}
	p.skipBlanksAndNewlines()
	if !p.peekWordLit("do") {
		return nil, p.errf(p.curPos(), "expected 'do'")
	}
	p.consumeWordLit("do")
	body, err := p.parseStmtList("done")
	if err != nil {
		return nil, err
	}
	p.skipBlanksAndNewlines()
	if !p.peekWordLit("done") {
		return nil, p.errf(p.curPos(), "expected 'done'")
	}
	p.consumeWordLit("done")
	return &While{Cond: seqOf(cond), Body: seqOf(body), Until: until, StartPos: start, EndPos: p.curPos()}, nil
}

func (p *Parser) parseCase() (AstNode, error) {
	start := p.curPos()
	p.consumeWordLit("case")
	p.skipBlanks()
	subject, err := p.parseWord()
	if err != nil {
		return nil, err
	}
	p.skipBlanksAndNewlines()
	if !p.peekWordLit("in") {
		return nil, p.errf(p.curPos(), "expected 'in'")
	}
	p.consumeWordLit("in")
	p.skipBlanksAndNewlines()
	var arms []CaseArm
	for !p.peekWordLit("esac") {
		if p.eof() {
			return nil, p.errf(p.curPos(), "expected 'esac'")
		}
		p.skipBlanks()
		if p.cur() == '(' {
			p.advance()
			p.skipBlanks()
		}
		var patterns []WordNode
		for {
			w, err := p.parseWord()
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, w)
			p.skipBlanks()
			if p.cur() == '|' {
				p.advance()
				p.skipBlanks()
				continue
			}
			break
		}
		if p.cur() != ')' {
			return nil, p.errf(p.curPos(), "expected ')' in case pattern")
		}
		p.advance()
		body, err := p.parseStmtList(";;", "esac")
		if err != nil {
			return nil, err
		}
		var bodyNode AstNode
		if len(body) > 0 {
			bodyNode = seqOf(body)
		}
		arms = append(arms, CaseArm{Patterns: patterns, Body: bodyNode})
		p.skipBlanksAndNewlines()
		if p.hasPrefix(";;") {
			p.pos += 2
		}
		p.skipBlanksAndNewlines()
	}
	p.consumeWordLit("esac")
	return &Case{Subject: subject, Arms: arms, StartPos: start, EndPos: p.curPos()}, nil
}

// scanBareIdent scans a plain identifier (for-loop variable names) with no
// expansion or quoting.
func (p *Parser) scanBareIdent() (string, error) {
	start := p.pos
	for !p.eof() && isIdentPart(p.cur()) {
		p.advance()
	}
	if p.pos == start {
		return "", p.errf(p.curPos(), "expected a name")
	}
	return string(p.src[start:p.pos]), nil
}

// ---- simple commands ----

func (p *Parser) parseSimpleCommand() (AstNode, error) {
	start := p.curPos()
	cmd := &Command{StartPos: start}
	// leading assignments
	for {
		p.skipBlanks()
		save := p.pos
		if name, ok := p.tryScanAssignName(); ok {
			var val WordNode
			if !isBlankOrMeta(p.cur()) {
				w, err := p.parseWord()
				if err != nil {
					return nil, err
				}
				val = w
			}
			cmd.Assigns = append(cmd.Assigns, &Assign{NamePos: Pos(save + 1), Name: name, Value: val})
			continue
		}
		p.pos = save
		break
	}
	for {
		p.skipBlanks()
		if redir, ok, err := p.tryParseRedirect(); err != nil {
			return nil, err
		} else if ok {
			cmd.Redirects = append(cmd.Redirects, redir)
			continue
		}
		if isBlankOrMeta(p.cur()) || p.eof() {
			break
		}
		if p.peekAnyWordLit("then", "fi", "do", "done", "elif", "else", "esac") && len(cmd.Words) == 0 {
			break
		}
		w, err := p.parseWord()
		if err != nil {
			return nil, err
		}
		if w == nil {
			break
		}
		cmd.Words = append(cmd.Words, w)
	}
	cmd.EndPos = p.curPos()
	return cmd, nil
}

func (p *Parser) peekAnyWordLit(lits ...string) bool {
	for _, l := range lits {
		if p.peekWordLit(l) {
			return true
		}
	}
	return false
}

// tryScanAssignName recognizes NAME=  with no intervening blank, only
// valid while no command words have been seen yet for this simple
// command (checked by the caller's loop placement).
func (p *Parser) tryScanAssignName() (string, bool) {
	start := p.pos
	if !isIdentStart(p.cur()) {
		return "", false
	}
	for !p.eof() && isIdentPart(p.cur()) {
		p.advance()
	}
	if p.cur() != '=' {
		p.pos = start
		return "", false
	}
	name := string(p.src[start:p.pos])
	p.advance() // '='
	return name, true
}

// tryParseRedirect recognizes one of the fixed redirect operator spellings
// and parses its target.
func (p *Parser) tryParseRedirect() (*Redirect, bool, error) {
	opPos := p.curPos()
	var mode token.RedirectMode
	switch {
	case p.hasPrefix("2>&1"):
		p.pos += 4
		return &Redirect{OpPos: opPos, Mode: token.RedirDupErr, IsDup: true, FdFrom: 2, FdTo: 1}, true, nil
	case p.hasPrefix("1>&2"):
		p.pos += 4
		return &Redirect{OpPos: opPos, Mode: token.RedirDupOut, IsDup: true, FdFrom: 1, FdTo: 2}, true, nil
	case p.hasPrefix("2>>"):
		p.pos += 3
		mode = token.RedirErrApp
	case p.hasPrefix("2>"):
		p.pos += 2
		mode = token.RedirErr
	case p.hasPrefix("&>>"):
		p.pos += 3
		mode = token.RedirAllApp
	case p.hasPrefix("&>"):
		p.pos += 2
		mode = token.RedirAll
	case p.hasPrefix("<<-"):
		p.pos += 3
		return p.finishHeredoc(opPos, true)
	case p.hasPrefix("<<"):
		p.pos += 2
		return p.finishHeredoc(opPos, false)
	case p.hasPrefix(">>"):
		p.pos += 2
		mode = token.RedirAppend
	case p.cur() == '>':
		p.advance()
		mode = token.RedirOut
	case p.cur() == '<':
		p.advance()
		mode = token.RedirIn
	default:
		return nil, false, nil
	}
	p.skipBlanks()
	target, err := p.parseWord()
	if err != nil {
		return nil, false, err
	}
	if target == nil {
		return nil, false, p.errf(p.curPos(), "expected a word after redirect operator")
	}
	return &Redirect{OpPos: opPos, Mode: mode, Target: target}, true, nil
}

func (p *Parser) finishHeredoc(opPos Pos, strip bool) (*Redirect, bool, error) {
	p.skipBlanks()
	delimStart := p.pos
	quoted := false
	for !p.eof() && !isBlankOrMeta(p.cur()) {
		c := p.cur()
		if c == '\'' || c == '"' {
			quoted = true
			q := c
			p.advance()
			for !p.eof() && p.cur() != q {
				p.advance()
			}
			if p.eof() {
				return nil, false, p.errf(opPos, "unterminated quoted heredoc delimiter")
			}
			p.advance()
			continue
		}
		if c == '\\' {
			quoted = true
			p.advance()
			if !p.eof() {
				p.advance()
			}
			continue
		}
		p.advance()
	}
	raw := string(p.src[delimStart:p.pos])
	delim := stripHeredocDelimQuotes(raw)
	node := &Heredoc{ValuePos: opPos, Delim: delim, Expand: !quoted}
	p.pendingHeredocs = append(p.pendingHeredocs, &pendingHeredoc{node: node, stripTab: strip})
	node.ValueEnd = p.curPos()
	return &Redirect{OpPos: opPos, Mode: token.RedirHeredoc, HeredocContent: node}, true, nil
}

func stripHeredocDelimQuotes(s string) string {
	var sb strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\'', '"':
			i++
		case '\\':
			i++
			if i < len(s) {
				sb.WriteByte(s[i])
				i++
			}
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}
