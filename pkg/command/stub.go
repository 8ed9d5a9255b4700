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
	"context"
	"fmt"
	"sync"
)

// Stub is a Runner that returns canned results keyed by the command line
// (Spec.String()). Unknown commands fail with Missing, mimicking a host
// without dnf or rpm.
type Stub struct {
	mu      sync.Mutex
	results map[string]stubEntry
	calls   []Spec

	// Missing is returned for commands with no canned result. Nil means an
	// empty successful result instead.
	Missing error
}

type stubEntry struct {
	res *Result
	err error
}

// NewStub returns an empty Stub whose unknown commands succeed with no output.
func NewStub() *Stub {
	return &Stub{results: make(map[string]stubEntry)}
}

// On registers stdout and exit code for a command line.
func (s *Stub) On(cmdline, stdout string, exitCode int) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[cmdline] = stubEntry{res: &Result{Stdout: stdout, ExitCode: exitCode}}
	return s
}

// OnError registers an error for a command line.
func (s *Stub) OnError(cmdline string, err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[cmdline] = stubEntry{err: err}
	return s
}

// Calls returns the specs seen so far, in order.
func (s *Stub) Calls() []Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Spec, len(s.calls))
	copy(out, s.calls)
	return out
}

// Run implements Runner.
func (s *Stub) Run(ctx context.Context, spec Spec) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, spec)

	e, ok := s.results[spec.String()]
	if !ok {
		if s.Missing != nil {
			return nil, fmt.Errorf("%s: %w", spec.String(), s.Missing)
		}
		return &Result{}, nil
	}
	if e.err != nil {
		return nil, e.err
	}
	res := *e.res
	return &res, nil
}
