// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/NVIDIA/pkg-analyzer/pkg/defaults"
	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
)

// Spec describes one command invocation.
type Spec struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

// String returns the command line as it would be typed.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.Args, " ")
}

// Result is the outcome of a command that ran to completion.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Lines returns the non-empty, trimmed lines of stdout.
func (r *Result) Lines() []string {
	if r == nil {
		return nil
	}
	return SplitLines(r.Stdout)
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, spec Spec) (*Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// MaxOutput caps captured stdout; larger output is truncated.
	MaxOutput int
	// LookPath resolves binaries; defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// NewExecRunner returns an ExecRunner with default limits.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		MaxOutput: defaults.MaxCommandOutput,
		LookPath:  exec.LookPath,
	}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, parentDone(spec, err)
	}

	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(spec.Name)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound,
			fmt.Sprintf("%s not found in PATH", spec.Name), err,
			map[string]any{"command": spec.String()})
	}

	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	maxOutput := r.MaxOutput
	if maxOutput <= 0 {
		maxOutput = defaults.MaxCommandOutput
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, path, spec.Args...)
	cmd.Stdout = &limitedWriter{w: &stdout, n: maxOutput}
	cmd.Stderr = &limitedWriter{w: &stderr, n: 64 << 10}
	cmd.Env = append(cmd.Environ(), "LC_ALL=C")
	// Children that inherit the pipes must not hold Wait open past the kill.
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	runErr := cmd.Run()
	slog.Debug("command finished",
		"command", spec.String(),
		"duration", time.Since(start).String(),
		"stdout_bytes", stdout.Len())

	// Parent cancellation wins over the per-call timeout.
	if err := ctx.Err(); err != nil {
		return nil, parentDone(spec, err)
	}
	if stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, errors.WrapWithContext(errors.ErrCodeTimeout, "command timed out", runCtx.Err(),
			map[string]any{"command": spec.String(), "timeout": spec.Timeout.String()})
	}

	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to execute command", runErr,
			map[string]any{"command": spec.String()})
	}

	return res, nil
}

// parentDone wraps the caller's context error. errors.Is still matches
// context.Canceled and context.DeadlineExceeded.
func parentDone(spec Spec, err error) error {
	code := errors.ErrCodeCanceled
	if stderrors.Is(err, context.DeadlineExceeded) {
		code = errors.ErrCodeTimeout
	}
	return errors.WrapWithContext(code, "command not completed", err,
		map[string]any{"command": spec.String()})
}

// limitedWriter discards everything after n bytes while reporting full
// writes, so the child never blocks on a full pipe.
type limitedWriter struct {
	w io.Writer
	n int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	total := len(p)
	if l.n <= 0 {
		return total, nil
	}
	if len(p) > l.n {
		p = p[:l.n]
	}
	written, err := l.w.Write(p)
	l.n -= written
	if err != nil {
		return written, err
	}
	return total, nil
}

// SplitLines splits s on newlines and drops blank lines; surrounding
// whitespace is trimmed.
func SplitLines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
