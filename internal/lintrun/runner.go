// Package lintrun executes an external static-analysis tool with the flags
// rendered from a rule selection policy.
//
// The runner is a single synchronous invocation with no retries and no
// interpretation of the tool's findings: stdout and stderr pass through
// unmodified and the tool's exit code is propagated verbatim.
package lintrun

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/probelab/pingmon/internal/policy"
)

const defaultStderrTailBytes = 32 * 1024

// Result describes one completed tool invocation.
type Result struct {
	// Argv is the full command line that was executed.
	Argv []string

	// ExitCode is the tool's own exit code, propagated verbatim.
	ExitCode int

	// Duration is the wall-clock time of the invocation.
	Duration time.Duration
}

// Runner invokes the external tool.
type Runner struct {
	dir        string
	env        []string
	stdout     io.Writer
	stderr     io.Writer
	stderrTail int
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithDir sets the working directory for the tool.
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// WithEnv appends environment variables (KEY=VALUE) to the tool's environment.
func WithEnv(env []string) Option {
	return func(r *Runner) { r.env = env }
}

// WithOutput redirects the tool's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithStderrTailBytes sets how much trailing stderr is kept for error context.
func WithStderrTailBytes(n int) Option {
	return func(r *Runner) { r.stderrTail = n }
}

// WithLogger sets the logger used for invocation tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		stderrTail: defaultStderrTailBytes,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates the policy, composes the command line and executes it once.
//
// A non-zero exit from the tool is not an error here: the result carries the
// code and the caller decides what to do with it. Run returns an error only
// when the invocation itself could not complete (invalid policy, tool not
// found, context cancelled).
func (r *Runner) Run(ctx context.Context, p policy.Policy, extra ...string) (Result, error) {
	start := time.Now()

	if err := p.Validate(); err != nil {
		return Result{}, &RunError{Op: "lint policy", Err: err}
	}

	argv := p.Command(extra...)
	r.logger.Debug("invoking analysis tool",
		"target", p.Name, "argv", argv, "dir", r.dir)

	tail := newTailBuffer(r.stderrTail)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // Tool command is explicit user configuration.
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	cmd.Stdout = r.stdout
	cmd.Stderr = io.MultiWriter(r.stderr, tail)

	err := cmd.Run()
	res := Result{
		Argv:     argv,
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		res.ExitCode = 0
	case isExitError(err):
		// The tool ran and reported its own pass/fail determination.
		var ee *exec.ExitError
		errors.As(err, &ee)
		res.ExitCode = ee.ExitCode()
		err = nil
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}
		return Result{}, &RunError{
			Op:     "lint run " + filepath.Base(argv[0]),
			Err:    err,
			Stderr: tail.String(),
		}
	}

	r.logger.Debug("analysis tool finished",
		"target", p.Name, "exit", res.ExitCode, "duration", res.Duration)
	return res, nil
}

func isExitError(err error) bool {
	var ee *exec.ExitError
	return errors.As(err, &ee)
}
