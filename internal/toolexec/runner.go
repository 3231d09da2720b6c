package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner is the narrow capability the pipeline needs from external tools.
// Implementations must never route arguments through a shell.
type Runner interface {
	// Output runs the command and returns its combined stdout and stderr as
	// lines. A non-zero exit is not an error: callers always get whatever
	// text the tool produced.
	Output(ctx context.Context, name string, args ...string) []string

	// Run runs the command and returns its stdout. A non-zero exit, a failure
	// to start, or a timeout is returned as an error.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExitError reports a tool that ran but exited unsuccessfully.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// ExecRunner runs tools with os/exec.
type ExecRunner struct {
	// Dir is the working directory for every command. Empty means the
	// current directory.
	Dir string

	// Timeout bounds a single invocation. Zero disables it.
	Timeout time.Duration

	Logger *logrus.Logger
}

// NewExecRunner creates a runner rooted at dir.
func NewExecRunner(dir string, timeout time.Duration, logger *logrus.Logger) *ExecRunner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ExecRunner{Dir: dir, Timeout: timeout, Logger: logger}
}

// command returns cmd together with the context bounding it, which carries
// the per-call timeout.
func (r *ExecRunner) command(ctx context.Context, name string, args []string) (*exec.Cmd, context.Context, context.CancelFunc) {
	cancel := context.CancelFunc(func() {})
	if r.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	// Grandchildren holding the pipes open must not outlive the deadline.
	cmd.WaitDelay = time.Second
	return cmd, ctx, cancel
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) []string {
	cmd, _, cancel := r.command(ctx, name, args)
	defer cancel()

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	start := time.Now()
	err := cmd.Run()
	entry := r.Logger.WithFields(logrus.Fields{
		"tool":     name,
		"duration": time.Since(start).Round(time.Millisecond),
	})
	if err != nil {
		// Tolerated: the output is still handed back to the caller.
		entry.WithError(err).Warn("tool exited unsuccessfully")
	} else {
		entry.Debug("tool finished")
	}

	return SplitLines(combined.String())
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd, cmdCtx, cancel := r.command(ctx, name, args)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.Logger.WithFields(logrus.Fields{
		"tool":     name,
		"args":     args,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("tool finished")

	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s cancelled: %w", name, ctx.Err())
		}
		if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s timed out after %s: %w", name, r.Timeout, context.DeadlineExceeded)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExitError{Name: name, Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return "", fmt.Errorf("failed to run %s: %w", name, err)
	}

	return stdout.String(), nil
}

// SplitLines splits tool output into lines, tolerating CRLF endings.
// A trailing newline does not produce an empty final line.
// Lines have no length limit.
func SplitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
