// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package shell_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ricsam/shelldsl/builtin"
	"github.com/ricsam/shelldsl/shell"
	"github.com/ricsam/shelldsl/vfs"
)

func newTestShell() *shell.Shell {
	sh := shell.New()
	sh.Commands = builtin.All()
	sh.CdCommands = []string{"cd"}
	return sh
}

func TestEchoGrepPipeline(t *testing.T) {
	sh := newTestShell()
	res, err := sh.Run(context.Background(), `echo "foo bar baz" | grep bar`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, res.ExitCode, qt.Equals, 0)
	qt.Assert(t, string(res.Stdout), qt.Equals, "foo bar baz\n")
}

func TestVariableExpansion(t *testing.T) {
	sh := newTestShell()
	res, err := sh.Run(context.Background(), `echo $USER`, shell.RunOptions{Env: map[string]string{"USER": "ada"}})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "ada\n")
}

func TestSingleQuotesSuppressExpansion(t *testing.T) {
	sh := newTestShell()
	res, err := sh.Run(context.Background(), `echo '$USER'`, shell.RunOptions{Env: map[string]string{"USER": "ada"}})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "$USER\n")
}

func TestDoubleQuotesExpand(t *testing.T) {
	sh := newTestShell()
	res, err := sh.Run(context.Background(), `echo "hi $USER"`, shell.RunOptions{Env: map[string]string{"USER": "ada"}})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "hi ada\n")
}

func TestHeredoc(t *testing.T) {
	sh := newTestShell()
	res, err := sh.Run(context.Background(), "cat <<EOF\nline $USER\nEOF\n", shell.RunOptions{Env: map[string]string{"USER": "ada"}})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "line ada\n")
}

func TestForLoop(t *testing.T) {
	sh := newTestShell()
	res, err := sh.Run(context.Background(), `for x in a b c; do echo $x; done`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "a\nb\nc\n")
}

func TestWhileLoopWithBreak(t *testing.T) {
	sh := newTestShell()
	script := `
i=0
while true; do
  i=$((i+1))
  echo $i
  if test $i -eq 3; then
    break
  fi
done
`
	res, err := sh.Run(context.Background(), script, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "1\n2\n3\n")
}

func TestAndOrShortCircuit(t *testing.T) {
	sh := newTestShell()
	res, err := sh.Run(context.Background(), `false && echo no; true || echo no2; true && echo yes`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "yes\n")
}

func TestGlobSortedUnique(t *testing.T) {
	sh := shell.New()
	sh.Commands = builtin.All()
	sh.FS = vfs.NewMemFS()
	sh.FS.WriteFile("/b.txt", []byte("x"))
	sh.FS.WriteFile("/a.txt", []byte("x"))

	res, err := sh.Run(context.Background(), `echo *.txt`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "/a.txt /b.txt\n")
}

func TestCommandSubstitution(t *testing.T) {
	sh := newTestShell()
	res, err := sh.Run(context.Background(), `echo "result: $(echo hi)"`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "result: hi\n")
}

func TestCommandSubstitutionDoesNotLeakEnv(t *testing.T) {
	sh := newTestShell()
	res, err := sh.Run(context.Background(), `x=outer; y=$(x=inner; echo $x); echo "$x $y"`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "outer inner\n")
}

func TestRedirectOutAndIn(t *testing.T) {
	sh := shell.New()
	sh.Commands = builtin.All()
	sh.FS = vfs.NewMemFS()

	_, err := sh.Run(context.Background(), `echo hello > /out.txt`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)

	res, err := sh.Run(context.Background(), `cat < /out.txt`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "hello\n")
}

func TestCaseMatching(t *testing.T) {
	sh := newTestShell()
	script := `
case foo.txt in
  *.go) echo go ;;
  *.txt) echo txt ;;
  *) echo other ;;
esac
`
	res, err := sh.Run(context.Background(), script, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "txt\n")
}

func TestCommandNotFound(t *testing.T) {
	sh := shell.New()
	res, err := sh.Run(context.Background(), `does-not-exist`, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, res.ExitCode, qt.Equals, 127)
}

func TestNoThrowFlattensParseError(t *testing.T) {
	sh := shell.New()
	res, err := sh.Run(context.Background(), `if true`, shell.RunOptions{NoThrow: true})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, res.ExitCode, qt.Not(qt.Equals), 0)
}

func TestBuildEscapesMetacharacters(t *testing.T) {
	source, bindings := shell.Build([]string{"echo ", ""}, "a;b|c")
	qt.Assert(t, bindings.Empty(), qt.Equals, true)
	qt.Assert(t, source, qt.Equals, `echo a\;b\|c`)

	sh := shell.New()
	sh.Commands = builtin.All()
	res, err := sh.Run(context.Background(), source, shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "a;b|c\n")
}

func TestBuildRawBypassesEscaping(t *testing.T) {
	source, _ := shell.Build([]string{"", " | wc -l"}, shell.Raw("echo hi"))
	qt.Assert(t, source, qt.Equals, "echo hi | wc -l")
}

func TestRunTemplateStreamTarget(t *testing.T) {
	var out bytes.Buffer
	sh := shell.New()
	sh.Commands = builtin.All()

	res, err := sh.RunTemplate(context.Background(), shell.RunOptions{},
		[]string{"echo hi > ", ""}, shell.StreamTarget{Target: &out})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, res.ExitCode, qt.Equals, 0)
	qt.Assert(t, out.String(), qt.Equals, "hi\n")
}

func TestTraceEmitsCommandLines(t *testing.T) {
	var trace strings.Builder
	sh := newTestShell()
	sh.Trace = &trace
	_, err := sh.Run(context.Background(), "echo a\necho b\n", shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, trace.String(), qt.Equals, "+ echo a\n+ echo b\n")
}

func TestCdChangesCwdForBuiltinRegistry(t *testing.T) {
	fs := vfs.NewMemFS()
	fs.Mkdir("/sub", vfs.MkdirOptions{})
	fs.WriteFile("/sub/f.txt", []byte("hi"))

	sh := shell.New()
	sh.Commands = builtin.All()
	sh.FS = fs
	sh.CdCommands = []string{"cd"}

	res, err := sh.Run(context.Background(), "cd /sub && cat f.txt", shell.RunOptions{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, string(res.Stdout), qt.Equals, "hi")
}
