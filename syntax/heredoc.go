// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strings"

// ParseHeredocBody turns a captured heredoc ContentTemplate into a
// WordNode, recognizing $VAR, ${VAR}, $(...) and $((...)) exactly as a
// double-quoted string would, but with no backslash-escape processing:
// POSIX heredocs with an unquoted delimiter only treat '$' (and, unlike
// double quotes, leave a literal backslash alone outside of those
// constructs) as special. base is the heredoc content's starting
// position, used for the returned node's child positions.
func ParseHeredocBody(s string, base Pos) (WordNode, error) {
	p := &Parser{src: []byte(s), name: "<heredoc>"}
	var parts []WordNode
	var lit strings.Builder
	litStart := p.pos

	flush := func() {
		if lit.Len() == 0 {
			return
		}
		parts = append(parts, &Literal{
			ValuePos: base + Pos(litStart),
			ValueEnd: base + Pos(p.pos),
			Value:    lit.String(),
			Quoted:   true,
		})
		lit.Reset()
	}

	for !p.eof() {
		if p.cur() == '$' {
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
		}
		lit.WriteByte(p.advance())
	}
	flush()

	switch len(parts) {
	case 0:
		return &Literal{ValuePos: base, ValueEnd: base, Value: "", Quoted: true}, nil
	case 1:
		return parts[0], nil
	default:
		return &Concat{Parts: parts}, nil
	}
}
