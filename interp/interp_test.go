// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp_test

import (
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ricsam/shelldsl/builtin"
	"github.com/ricsam/shelldsl/interp"
	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/syntax"
	"github.com/ricsam/shelldsl/vfs"
)

func mustParse(t *testing.T, src string) *syntax.File {
	t.Helper()
	f, err := syntax.NewParser().Parse(strings.NewReader(src), "test")
	qt.Assert(t, err, qt.IsNil)
	return f
}

func TestPipelineNegation(t *testing.T) {
	out := stream.NewCollector()
	r, err := interp.New(interp.StdoutWriter(out), interp.Commands(builtin.All()))
	qt.Assert(t, err, qt.IsNil)

	code, err := r.Run(context.Background(), mustParse(t, "! false"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, code, qt.Equals, 0)
}

func TestSubshellDoesNotLeakCwdOrEnv(t *testing.T) {
	fs := vfs.NewMemFS()
	fs.Mkdir("/sub", vfs.MkdirOptions{})
	r, err := interp.New(interp.Env(map[string]string{"X": "outer"}), interp.FS(fs),
		interp.Commands(builtin.All()), interp.CdCommands("cd"))
	qt.Assert(t, err, qt.IsNil)

	_, err = r.Run(context.Background(), mustParse(t, "(X=inner; cd /sub)"))
	qt.Assert(t, err, qt.IsNil)

	v, _ := r.Env.Get("X")
	qt.Assert(t, v, qt.Equals, "outer")
	qt.Assert(t, r.Cwd, qt.Equals, "/")
}

func TestBreakWithLevel(t *testing.T) {
	out := stream.NewCollector()
	r, err := interp.New(interp.StdoutWriter(out), interp.Commands(builtin.All()))
	qt.Assert(t, err, qt.IsNil)

	script := `
for i in 1 2; do
  for j in a b; do
    echo "$i-$j"
    break 2
  done
done
`
	code, err := r.Run(context.Background(), mustParse(t, script))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, code, qt.Equals, 0)
	qt.Assert(t, out.String(), qt.Equals, "1-a\n")
}

func TestCommandNotFoundExitCode(t *testing.T) {
	out, errOut := stream.NewCollector(), stream.NewCollector()
	r, err := interp.New(interp.StdoutWriter(out), interp.StderrWriter(errOut))
	qt.Assert(t, err, qt.IsNil)

	code, err := r.Run(context.Background(), mustParse(t, "nonexistent-cmd"))
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, code, qt.Equals, 127)
}
