// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"fmt"
	"strconv"
	"strings"
)

// expandBraceLiteral expands a {a,b,c} or {1..5} / {01..10} brace group
// occurring in a literal string, outside-in: the outermost group is split
// first, and each alternative is then recursively re-scanned for further
// groups. A string with no top-level brace group is returned unchanged as
// its own single-element result. This runs purely on literal text — it is
// the caller's job to only invoke it on the literal parts of an unquoted
// word, never on quoted text or after variable expansion.
func expandBraceLiteral(s string) []string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return []string{s}
	}
	end, items, ok := splitBraceGroup(s, start)
	if !ok {
		return []string{s}
	}
	prefix, suffix := s[:start], s[end+1:]
	var out []string
	for _, item := range items {
		for _, alt := range expandBraceLiteral(item) {
			for _, tail := range expandBraceLiteral(suffix) {
				for _, head := range expandBraceLiteral(prefix) {
					out = append(out, head+alt+tail)
				}
			}
		}
	}
	if len(out) == 0 {
		return []string{s}
	}
	return out
}

// splitBraceGroup finds the matching '}' for the '{' at s[start] and
// returns its index plus the list of alternatives inside, honoring nested
// braces (a nested group is kept intact within its own alternative so it
// can be expanded on the recursive call instead of being split here).
// ok is false when the group has no comma and isn't a valid range (in
// which case it is not a brace expansion at all, matching the rule that
// "{foo}" alone is literal).
func splitBraceGroup(s string, start int) (end int, items []string, ok bool) {
	depth := 0
	partStart := start + 1
	var parts []string
	i := start
	for ; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				parts = append(parts, s[partStart:i])
				if items, ok := rangeAlternatives(parts); ok {
					return i, items, true
				}
				if len(parts) < 2 {
					return 0, nil, false
				}
				return i, parts, true
			}
		case ',':
			if depth == 1 {
				parts = append(parts, s[partStart:i])
				partStart = i + 1
			}
		}
	}
	return 0, nil, false
}

// rangeAlternatives recognizes the single-part {A..B} numeric range form.
func rangeAlternatives(parts []string) ([]string, bool) {
	if len(parts) != 1 {
		return nil, false
	}
	lo, hi, digitWidth, ok := parseRange(parts[0])
	if !ok {
		return nil, false
	}
	zeroPad := digitWidth > 0
	var out []string
	step := 1
	if hi < lo {
		step = -1
	}
	width := 0
	if zeroPad {
		width = digitWidth
		if lo < 0 || hi < 0 {
			width++ // room for '-'
		}
	}
	for n := lo; ; n += step {
		if zeroPad {
			out = append(out, fmt.Sprintf("%0*d", width, n))
		} else {
			out = append(out, strconv.Itoa(n))
		}
		if n == hi {
			break
		}
	}
	return out, true
}

// parseRange parses an "A..B" range operand, returning the endpoints and
// the zero-padded digit width to use (0 meaning no zero-padding): any
// operand with a leading zero sets the width to the widest digit count
// among the two, so "{01..03}" and "{01..10}" both pad to their longest
// operand's digit count regardless of how large the numbers are.
func parseRange(s string) (lo, hi, digitWidth int, ok bool) {
	a, b, found := strings.Cut(s, "..")
	if !found || a == "" || b == "" {
		return 0, 0, 0, false
	}
	lo, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, 0, false
	}
	hi, err = strconv.Atoi(b)
	if err != nil {
		return 0, 0, 0, false
	}
	if hasLeadingZero(a) || hasLeadingZero(b) {
		digitWidth = max(digitsOf(a), digitsOf(b))
	}
	return lo, hi, digitWidth, true
}

func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0'
}

func digitsOf(s string) int {
	return len(strings.TrimPrefix(s, "-"))
}
