// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"context"
	"io"

	"github.com/ricsam/shelldsl/stream"
	"github.com/ricsam/shelldsl/syntax"
	"golang.org/x/sync/errgroup"
)

// execPipeline launches every stage of a pipeline concurrently, wired
// through N-1 in-memory pipes, and joins on their completion; the
// reported exit code is the last stage's, inverted if the pipeline was
// negated with a leading '!'. Per the concurrency model, each stage sees
// only a starting snapshot of the environment and cwd (a copy), since Go
// genuinely runs the stages on separate goroutines rather than
// interleaving them on one cooperative thread the way the source
// language's single-threaded scheduler would — mutations a stage makes to
// its own copy never race with, or leak into, the other stages or the
// enclosing context.
func (r *Runner) execPipeline(ctx context.Context, p *syntax.Pipeline, stdin io.Reader, stdout, stderr stream.Writer) (int, error) {
	n := len(p.Stages)
	if n == 1 {
		code, err := r.exec(ctx, p.Stages[0], stdin, stdout, stderr)
		if p.Negated {
			code = negateExit(code)
		}
		return code, err
	}

	pipes := make([]*stream.Pipe, n-1)
	for i := range pipes {
		pipes[i] = stream.NewPipe()
	}

	codes := make([]int, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		stageIn := stdin
		if i > 0 {
			stageIn = pipes[i-1].Reader()
		}
		stageOut := stdout
		if i < n-1 {
			stageOut = pipes[i].Writer()
		}
		stage := p.Stages[i]

		child := &Runner{
			Env:      copyEnviron(r.Env),
			Cwd:      r.Cwd,
			FS:       r.FS,
			Commands: r.Commands,
			Stdin:    r.Stdin,
			cdNames:  r.cdNames,
			tracer:   r.tracer,
		}

		g.Go(func() error {
			defer func() {
				if i < n-1 {
					pipes[i].Writer().Close()
				}
				if i > 0 {
					pipes[i-1].Reader().Close()
				}
			}()
			code, err := child.exec(gctx, stage, stageIn, stageOut, stderr)
			codes[i] = code
			return err
		})
	}

	err := g.Wait()
	code := codes[n-1]
	if p.Negated {
		code = negateExit(code)
	}
	return code, err
}

// negateExit inverts a pipeline's reported exit status: 0 becomes 1, and
// any non-zero code becomes 0.
func negateExit(code int) int {
	if code == 0 {
		return 1
	}
	return 0
}
