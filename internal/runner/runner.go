package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrSpawnDisabled is returned by Disabled for every call.
var ErrSpawnDisabled = errors.New("process spawning is disabled")

// waitDelay bounds how long a killed process may keep its output pipes open.
const waitDelay = 2 * time.Second

// Result is what a finished process left behind. A non-zero ExitCode is not
// an error on its own.
type Result struct {
	ExitCode int
	Output   string
}

// FirstLine returns the first non-blank line of Output, trimmed.
func (r Result) FirstLine() string {
	s := strings.TrimSpace(r.Output)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

type Runner interface {
	// Run executes name with args and captures combined stdout/stderr.
	Run(ctx context.Context, name string, args ...string) (Result, error)
	// RunToFile executes name with args, writing stdout to outPath.
	RunToFile(ctx context.Context, outPath, name string, args ...string) (Result, error)
}

type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner returns a runner that kills any process still running after
// timeout. A zero timeout means no limit.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{timeout: timeout}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay
	return finish(ctx, cmd.Run(), name, &out)
}

func (r *ExecRunner) RunToFile(ctx context.Context, outPath, name string, args ...string) (Result, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	f, err := os.Create(outPath)
	if err != nil {
		return Result{}, fmt.Errorf("create %s: %w", outPath, err)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = f
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	runErr := cmd.Run()
	if cErr := f.Close(); cErr != nil && runErr == nil {
		return Result{}, fmt.Errorf("close %s: %w", outPath, cErr)
	}
	return finish(ctx, runErr, name, &stderr)
}

func (r *ExecRunner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

func finish(ctx context.Context, runErr error, name string, out *bytes.Buffer) (Result, error) {
	res := Result{Output: out.String()}
	if runErr == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s killed: %w", name, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("spawn %s: %w", name, runErr)
}

// Disabled never starts a process.
type Disabled struct{}

func (Disabled) Run(context.Context, string, ...string) (Result, error) {
	return Result{}, ErrSpawnDisabled
}

func (Disabled) RunToFile(context.Context, string, string, ...string) (Result, error) {
	return Result{}, ErrSpawnDisabled
}
