// Copyright (c) 2025, Andrey Nering <andrey@nering.com.br>
// See LICENSE for licensing information

package builtin_test

import (
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ricsam/shelldsl/builtin"
	"github.com/ricsam/shelldsl/shell"
	"github.com/ricsam/shelldsl/vfs"
)

func TestEchoDashN(t *testing.T) {
	sh := shell.New()
	sh.Commands = builtin.All()
	res, err := sh.Run(context.Background(), "echo -n hi", shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "hi")
}

func TestGrepInvertAndLineNumbers(t *testing.T) {
	sh := shell.New()
	sh.Commands = builtin.All()
	sh.FS = vfs.NewMemFS()
	sh.FS.WriteFile("/f.txt", []byte("apple\nbanana\ncherry\n"))

	res, err := sh.Run(context.Background(), "grep -n -v banana /f.txt", shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "1:apple\n3:cherry\n")
}

func TestTestIntegerComparison(t *testing.T) {
	sh := shell.New()
	sh.Commands = builtin.All()
	res, err := sh.Run(context.Background(), "test 3 -lt 5 && echo yes", shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "yes\n")
}

func TestBracketTestFileExists(t *testing.T) {
	sh := shell.New()
	sh.Commands = builtin.All()
	sh.FS = vfs.NewMemFS()
	sh.FS.WriteFile("/f.txt", []byte("x"))

	res, err := sh.Run(context.Background(), "[ -f /f.txt ] && echo yes", shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "yes\n")
}

func TestPrintfRecyclesFormat(t *testing.T) {
	sh := shell.New()
	sh.Commands = builtin.All()
	res, err := sh.Run(context.Background(), `printf "%s\n" a b c`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, strings.Count(string(res.Stdout), "\n"), qt.Equals, 3)
	qt.Assert(t, string(res.Stdout), qt.Equals, "a\nb\nc\n")
}

func TestPwd(t *testing.T) {
	sh := shell.New()
	sh.Commands = builtin.All()
	sh.Dir = "/home/ada"
	res, err := sh.Run(context.Background(), "pwd", shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "/home/ada\n")
}
