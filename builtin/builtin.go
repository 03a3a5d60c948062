// Copyright (c) 2025, Andrey Nering <andrey@nering.com.br>
// See LICENSE for licensing information

// Package builtin provides a small, ready-to-use interp.Registry of
// common commands (echo, cat, grep, pwd, cd, true, false, printf, test)
// implemented directly against the vfs.FS contract, the way a host
// would register its own. Unlike a real coreutils binary these never
// touch the OS directly — every path they resolve and every byte they
// read or write goes through the CommandContext's FS, so they work
// identically whether that FS is in-memory or rooted at a real
// directory.
package builtin

import (
	"github.com/ricsam/shelldsl/interp"
)

// All returns a fresh registry containing every builtin this package
// provides, under its conventional name.
func All() interp.Registry {
	return interp.Registry{
		"echo":   echo,
		"cat":    cat,
		"grep":   grep,
		"pwd":    pwd,
		"cd":     cd,
		"true":   trueCmd,
		"false":  falseCmd,
		"printf": printfCmd,
		"test":   test,
		"[":      bracketTest,
	}
}
