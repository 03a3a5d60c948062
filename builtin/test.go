// Copyright (c) 2025, Andrey Nering <andrey@nering.com.br>
// See LICENSE for licensing information

package builtin

import (
	"context"
	"strconv"

	"github.com/ricsam/shelldsl/interp"
)

// test evaluates a small subset of POSIX test(1): string comparisons
// (-z, -n, =, !=), integer comparisons (-eq, -ne, -lt, -le, -gt, -ge),
// and file-status checks against the command's own FS (-e, -f, -d).
func test(_ context.Context, c *interp.CommandContext) (int, error) {
	return evalTest(c, c.Args)
}

// bracketTest implements "[ ... ]", which is test with a required
// trailing "]" operand stripped before evaluation.
func bracketTest(_ context.Context, c *interp.CommandContext) (int, error) {
	args := c.Args
	if len(args) == 0 || args[len(args)-1] != "]" {
		return 2, nil
	}
	return evalTest(c, args[:len(args)-1])
}

func evalTest(c *interp.CommandContext, args []string) (int, error) {
	switch len(args) {
	case 0:
		return 1, nil
	case 1:
		if args[0] == "" {
			return 1, nil
		}
		return 0, nil
	case 2:
		return evalUnary(c, args[0], args[1])
	case 3:
		return evalBinary(args[0], args[1], args[2])
	default:
		return 2, nil
	}
}

func evalUnary(c *interp.CommandContext, op, operand string) (int, error) {
	switch op {
	case "-z":
		return boolCode(operand == ""), nil
	case "-n":
		return boolCode(operand != ""), nil
	case "-e", "-f", "-d":
		path := c.FS.Resolve(c.Cwd, operand)
		if !c.FS.Exists(path) {
			return 1, nil
		}
		if op == "-e" {
			return 0, nil
		}
		info, err := c.FS.Stat(path)
		if err != nil {
			return 1, nil
		}
		if op == "-f" {
			return boolCode(info.IsFile), nil
		}
		return boolCode(info.IsDirectory), nil
	default:
		return 2, nil
	}
}

func evalBinary(lhs, op, rhs string) (int, error) {
	switch op {
	case "=":
		return boolCode(lhs == rhs), nil
	case "!=":
		return boolCode(lhs != rhs), nil
	}
	l, errL := strconv.Atoi(lhs)
	r, errR := strconv.Atoi(rhs)
	if errL != nil || errR != nil {
		return 2, nil
	}
	switch op {
	case "-eq":
		return boolCode(l == r), nil
	case "-ne":
		return boolCode(l != r), nil
	case "-lt":
		return boolCode(l < r), nil
	case "-le":
		return boolCode(l <= r), nil
	case "-gt":
		return boolCode(l > r), nil
	case "-ge":
		return boolCode(l >= r), nil
	default:
		return 2, nil
	}
}

func boolCode(b bool) int {
	if b {
		return 0
	}
	return 1
}
