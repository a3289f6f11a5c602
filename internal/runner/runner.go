// Package runner executes external tools and captures their output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Invocation is everything an external tool receives from the driver.
type Invocation struct {
	Args []string
	Dir  string
	Env  []string
}

// String renders the command line for console output.
func (i Invocation) String() string { return strings.Join(i.Args, " ") }

// Result is the captured outcome of one invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	// StartErr is set when the process could not be started, or was killed by a signal.
	StartErr error
	// Signaled marks a process that started and was killed; its captured output is kept.
	Signaled bool
}

// Failed reports a non-zero exit or a start failure.
func (r Result) Failed() bool { return r.StartErr != nil || r.ExitCode != 0 }

// Output joins stdout and stderr the way they are written to the compilation log.
func (r Result) Output() string {
	out := r.Stdout + "\n" + r.Stderr
	switch {
	case r.StartErr == nil:
		return out
	case r.Signaled:
		return out + "\n" + r.StartErr.Error()
	default:
		return r.StartErr.Error()
	}
}

// Runner runs one invocation to completion.
type Runner interface {
	Run(ctx context.Context, inv Invocation) Result
}

// ExecRunner runs invocations with os/exec. Calls block until the process exits.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, inv Invocation) Result {
	if len(inv.Args) == 0 {
		return Result{ExitCode: -1, StartErr: errors.New("empty command")}
	}

	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Invoking external tool", "command", inv.String(), "dir", inv.Dir)
	t0 := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(t0),
	}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode == -1 { // killed by a signal
			res.Signaled = true
			res.StartErr = fmt.Errorf("%s: %w", inv.Args[0], err)
		}
		return res
	}
	res.ExitCode = -1
	res.StartErr = fmt.Errorf("failed to run %s: %w", inv.Args[0], err)
	return res
}
