// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/cmdresolve/pkg/types"
)

type (
	// IO holds the standard streams given to the interpreter.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner executes resolved commands in the embedded interpreter.
	Runner struct {
		lang   syntax.LangVariant
		dir    string
		env    []string
		logger *log.Logger
	}

	// RunnerOption configures a Runner.
	RunnerOption func(*Runner)
)

// WithDialect selects the parser variant. The default is Bash.
func WithDialect(lang syntax.LangVariant) RunnerOption {
	return func(r *Runner) { r.lang = lang }
}

// WithDir sets the working directory. The default is the process directory.
func WithDir(dir string) RunnerOption {
	return func(r *Runner) { r.dir = dir }
}

// WithEnv replaces the inherited environment with env ("KEY=value" entries).
func WithEnv(env []string) RunnerOption {
	return func(r *Runner) { r.env = env }
}

// WithLogger sets the logger that records each executed program at debug level.
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner that inherits the process environment.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		lang:   syntax.LangBash,
		env:    os.Environ(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run parses and executes command. A non-zero exit status is returned as the
// exit code with a nil error; err is reserved for parse and interpreter failures.
// A canceled ctx yields ExitInterrupted and the context's error.
func (r *Runner) Run(ctx context.Context, command string, stdio IO) (types.ExitCode, error) {
	file, err := Parse(command, r.lang)
	if err != nil {
		return types.ExitUsage, err
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(r.env...)),
		interp.StdIO(stdio.Stdin, stdio.Stdout, stdio.Stderr),
		interp.ExecHandlers(r.execHandler),
	}
	if r.dir != "" {
		opts = append(opts, interp.Dir(r.dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return types.ExitFailure, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, file); err != nil {
		if ctx.Err() != nil {
			return types.ExitInterrupted, ctx.Err()
		}
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return types.ExitCode(status), nil
		}
		return types.ExitFailure, fmt.Errorf("command execution failed: %w", err)
	}
	return types.ExitSuccess, nil
}

func (r *Runner) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if len(args) > 0 {
			r.logger.Debug("exec", "program", args[0], "args", len(args)-1)
		}
		return next(ctx, args)
	}
}
