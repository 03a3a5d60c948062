// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package expand turns a parsed WordNode into the final argument strings a
// command receives, per the expansion engine's component design: brace
// expansion, then variable/substitution, then arithmetic, then
// concatenation, then glob — an order that is load-bearing (see Config's
// doc comment) and is not meant to be reordered per word kind.
package expand

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ricsam/shelldsl/pattern"
	"github.com/ricsam/shelldsl/syntax"
)

// Globber resolves a glob pattern against a directory tree rooted at cwd.
// It is implemented by the virtual filesystem adapters; expand depends only
// on this narrow interface so it never needs to import the vfs package.
type Globber interface {
	Glob(cwd, pattern string) ([]string, error)
}

// CmdSubst runs a parsed command-substitution body to completion and
// returns its captured, trailing-newline-stripped stdout as text. The
// interpreter supplies this callback so that expand never depends on
// interp (which in turn depends on expand), and so that each substitution
// inherits but cannot leak mutations back to the calling context, per the
// design note on command-substitution isolation.
type CmdSubst func(body *syntax.File) (string, error)

// Config bundles everything an expansion needs beyond the WordNode itself.
//
// The order brace -> variable/substitution -> arithmetic -> concat -> glob
// is load-bearing: swapping brace and variable would let "{$A,$B}" behave
// differently than real shells do, and postponing glob until after concat
// ensures a word split into "*.t" + "xt" is globbed only as the joined
// "*.txt", never as "*.t".
type Config struct {
	Env    Environ
	FS     Globber
	Cwd    string
	Subst  CmdSubst
	NoGlob bool // skips the filesystem-glob step entirely (set for redirect targets)
}

// Arith evaluates a parsed arithmetic expression against cfg.Env, returning
// its integer result. Unset or non-numeric identifiers default to 0 (see
// the design-notes resolution of the arithmetic-on-non-numeric question).
func Arith(cfg *Config, expr syntax.ArithExpr) (int, error) {
	switch x := expr.(type) {
	case *syntax.ArithLit:
		n, err := strconv.Atoi(x.Value)
		if err != nil {
			return 0, fmt.Errorf("invalid arithmetic literal %q", x.Value)
		}
		return n, nil
	case *syntax.ArithVar:
		v, ok := cfg.Env.Get(x.Name)
		if !ok {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, nil
		}
		return n, nil
	case *syntax.ArithUnary:
		v, err := Arith(cfg, x.X)
		if err != nil {
			return 0, err
		}
		if x.Op == '-' {
			return -v, nil
		}
		return v, nil
	case *syntax.ArithParen:
		return Arith(cfg, x.X)
	case *syntax.ArithBinary:
		l, err := Arith(cfg, x.X)
		if err != nil {
			return 0, err
		}
		r, err := Arith(cfg, x.Y)
		if err != nil {
			return 0, err
		}
		return arithBinOp(x.Op, l, r)
	default:
		return 0, fmt.Errorf("unsupported arithmetic node %T", expr)
	}
}

func arithBinOp(op syntax.ArithBinOp, l, r int) (int, error) {
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	switch op {
	case syntax.ArAdd:
		return l + r, nil
	case syntax.ArSub:
		return l - r, nil
	case syntax.ArMul:
		return l * r, nil
	case syntax.ArDiv:
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case syntax.ArMod:
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l % r, nil
	case syntax.ArEq:
		return b2i(l == r), nil
	case syntax.ArNeq:
		return b2i(l != r), nil
	case syntax.ArLt:
		return b2i(l < r), nil
	case syntax.ArLe:
		return b2i(l <= r), nil
	case syntax.ArGt:
		return b2i(l > r), nil
	case syntax.ArGe:
		return b2i(l >= r), nil
	default:
		return 0, fmt.Errorf("unknown arithmetic operator %q", op)
	}
}

// Fields expands a single WordNode into its final argument strings: brace
// expansion may multiply it into several strings before glob expansion
// multiplies it further still.
func Fields(cfg *Config, w syntax.WordNode) ([]string, error) {
	return fieldsOf(cfg, w, true)
}

// Literal expands w to exactly one string, without brace or glob
// multiplication — used for contexts the design treats as single-valued:
// redirect targets, the for-loop variable name binding, a case subject.
func Literal(cfg *Config, w syntax.WordNode) (string, error) {
	fields, err := fieldsOf(cfg, w, false)
	if err != nil {
		return "", err
	}
	return strings.Join(fields, ""), nil
}

func fieldsOf(cfg *Config, w syntax.WordNode, allowMulti bool) ([]string, error) {
	if w == nil {
		return []string{""}, nil
	}
	switch x := w.(type) {
	case *syntax.Literal:
		if x.Quoted || !allowMulti {
			return []string{x.Value}, nil
		}
		return expandBraceLiteral(x.Value), nil
	case *syntax.Glob:
		if !allowMulti {
			return []string{x.Pattern}, nil
		}
		lits := expandBraceLiteral(x.Pattern)
		var out []string
		for _, lit := range lits {
			matches, err := globExpand(cfg, lit)
			if err != nil {
				return nil, err
			}
			out = append(out, matches...)
		}
		return out, nil
	case *syntax.Variable:
		v, _ := cfg.Env.Get(x.Name)
		return []string{v}, nil
	case *syntax.Substitution:
		if cfg.Subst == nil {
			return []string{""}, nil
		}
		out, err := cfg.Subst(x.Body)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	case *syntax.Arithmetic:
		n, err := Arith(cfg, x.Expr)
		if err != nil {
			return nil, err
		}
		return []string{strconv.Itoa(n)}, nil
	case *syntax.DoubleQuoted:
		var sb strings.Builder
		for _, part := range x.Parts {
			s, err := Literal(cfg, part)
			if err != nil {
				return nil, err
			}
			sb.WriteString(s)
		}
		return []string{sb.String()}, nil
	case *syntax.Concat:
		return concatParts(cfg, x.Parts, allowMulti)
	default:
		return nil, fmt.Errorf("expand: unsupported word node %T", w)
	}
}

// concatParts expands a Concat (or MergedCluster) part by part; each part
// expands to exactly one string, with no brace or glob multiplication of
// its own, and the parts are joined. Globbing then runs only when at least
// one part is an unquoted Glob node, on the joined text, so "*.t""xt" only
// globs as a whole, as "*.txt".
func concatParts(cfg *Config, parts []syntax.WordNode, allowMulti bool) ([]string, error) {
	var sb strings.Builder
	anyGlob := false
	for _, part := range parts {
		if g, ok := part.(*syntax.Glob); ok {
			anyGlob = true
			sb.WriteString(g.Pattern)
			continue
		}
		s, err := Literal(cfg, part)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	joined := sb.String()
	if !allowMulti {
		return []string{joined}, nil
	}
	lits := expandBraceLiteral(joined)
	if !anyGlob {
		return lits, nil
	}
	var out []string
	for _, lit := range lits {
		matches, err := globExpand(cfg, lit)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

// globExpand matches pat against cfg.FS rooted at cfg.Cwd. If any matches
// exist, the sorted unique list of matches is returned; otherwise, and also
// when pat is not a valid pattern (a lone "["), the literal pattern is
// returned unchanged, per the component design.
func globExpand(cfg *Config, pat string) ([]string, error) {
	if cfg.NoGlob || cfg.FS == nil || !pattern.HasMeta(pat) {
		return []string{pat}, nil
	}
	matches, err := cfg.FS.Glob(cfg.Cwd, pat)
	if err != nil {
		var synErr *pattern.SyntaxError
		if errors.As(err, &synErr) {
			return []string{pat}, nil
		}
		return nil, err
	}
	if len(matches) == 0 {
		return []string{pat}, nil
	}
	uniq := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		if _, ok := uniq[m]; ok {
			continue
		}
		uniq[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// MatchCase reports whether subject matches the glob-style case-arm
// pattern pat, with the subject treated as the entire target (so a bare
// "*" matches anything, including "/"), and with negated classes like
// "[!abc]" working as the pattern package already translates them.
func MatchCase(pat, subject string) (bool, error) {
	expr, err := pattern.Regexp(pat, pattern.EntireString)
	if err != nil {
		return false, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false, err
	}
	return re.MatchString(subject), nil
}
