// Package process provides process execution and lifecycle utilities
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/polyforge/polyforge/pkg/logger"
)

// Command describes one external command invocation. The working directory
// is always carried explicitly so concurrent callers never touch the
// process-wide current directory.
type Command struct {
	Dir  string
	Name string
	Args []string
	Env  map[string]string

	// Tee receives a copy of the combined output as it is produced,
	// typically the per-service build log. May be nil.
	Tee io.Writer
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result captures the outcome of a command invocation.
type Result struct {
	Output   []byte
	ExitCode int
}

// CommandRunner abstracts external process execution so strategies can be
// exercised without a real toolchain and dry runs can skip execution
// entirely.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec, capturing combined output.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command in its own working directory and blocks until it
// terminates. The caller's directory context is never changed.
func (r *ExecRunner) Run(ctx context.Context, spec Command) (Result, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir

	if spec.Env != nil {
		cmd.Env = os.Environ()
		for k, v := range spec.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var buf bytes.Buffer
	var out io.Writer = &buf
	if spec.Tee != nil {
		out = io.MultiWriter(&buf, spec.Tee)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	result := Result{Output: buf.Bytes()}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		return result, fmt.Errorf("%s: %w", spec, err)
	}

	return result, nil
}

// DryRunner reports what it would execute without spawning anything. It
// mirrors the real runner's interface so the decision path above it stays
// identical.
type DryRunner struct {
	log logger.Logger
}

// NewDryRunner creates a runner that only logs intended commands.
func NewDryRunner(log logger.Logger) *DryRunner {
	return &DryRunner{log: log}
}

// Run logs the command and returns a synthetic success.
func (r *DryRunner) Run(_ context.Context, spec Command) (Result, error) {
	if r.log != nil {
		r.log.Info("would run: "+spec.String(), logger.WithField("dir", spec.Dir))
	}
	return Result{Output: []byte("dry-run: " + spec.String() + "\n")}, nil
}
