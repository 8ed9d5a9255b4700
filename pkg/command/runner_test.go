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
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestSpec_String(t *testing.T) {
	assert.Equal(t, "rpm", Spec{Name: "rpm"}.String())
	assert.Equal(t, "dnf check-update --quiet", Spec{Name: "dnf", Args: []string{"check-update", "--quiet"}}.String())
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("  a \n\n b\r\n\t\nc")
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Empty(t, SplitLines(""))
	assert.Empty(t, SplitLines("\n \n"))
}

func TestResult_Helpers(t *testing.T) {
	var nilRes *Result
	assert.False(t, nilRes.Success())
	assert.Nil(t, nilRes.Lines())

	res := &Result{Stdout: "x\ny\n", ExitCode: 0}
	assert.True(t, res.Success())
	assert.Equal(t, []string{"x", "y"}, res.Lines())
}

func TestExecRunner_Success(t *testing.T) {
	requireShell(t)
	r := NewExecRunner()

	res, err := r.Run(context.Background(), Spec{Name: "sh", Args: []string{"-c", "echo hello; echo oops >&2"}, Timeout: 5 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Equal(t, "oops\n", res.Stderr)
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	requireShell(t)
	r := NewExecRunner()

	res, err := r.Run(context.Background(), Spec{Name: "sh", Args: []string{"-c", "echo partial; exit 100"}})
	require.NoError(t, err)
	assert.Equal(t, 100, res.ExitCode)
	assert.Equal(t, "partial\n", res.Stdout)
	assert.False(t, res.Success())
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExecRunner()

	_, err := r.Run(context.Background(), Spec{Name: "definitely-not-a-real-binary-xyz"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestExecRunner_Timeout(t *testing.T) {
	requireShell(t)
	r := NewExecRunner()

	_, err := r.Run(context.Background(), Spec{Name: "sh", Args: []string{"-c", "sleep 5"}, Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTimeout))
}

func TestExecRunner_ParentCanceled(t *testing.T) {
	r := NewExecRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, Spec{Name: "sh", Args: []string{"-c", "true"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, errors.ErrCodeCanceled, errors.CodeOf(err))
}

func TestExecRunner_ParentDeadline(t *testing.T) {
	r := NewExecRunner()
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := r.Run(ctx, Spec{Name: "sh", Args: []string{"-c", "true"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
}

func TestExecRunner_OutputCap(t *testing.T) {
	requireShell(t)
	r := NewExecRunner()
	r.MaxOutput = 4

	res, err := r.Run(context.Background(), Spec{Name: "sh", Args: []string{"-c", "printf 0123456789"}})
	require.NoError(t, err)
	assert.Equal(t, "0123", res.Stdout)
}

func TestStub(t *testing.T) {
	s := NewStub().
		On("rpm -qa", "a\nb\n", 0).
		On("dnf check-update --quiet", "", 100).
		OnError("du -sh /var/cache/dnf", errors.New(errors.ErrCodeTimeout, "slow"))

	ctx := context.Background()

	res, err := s.Run(ctx, Spec{Name: "rpm", Args: []string{"-qa"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Lines())

	res, err = s.Run(ctx, Spec{Name: "dnf", Args: []string{"check-update", "--quiet"}})
	require.NoError(t, err)
	assert.Equal(t, 100, res.ExitCode)

	_, err = s.Run(ctx, Spec{Name: "du", Args: []string{"-sh", "/var/cache/dnf"}})
	assert.True(t, errors.HasCode(err, errors.ErrCodeTimeout))

	res, err = s.Run(ctx, Spec{Name: "unknown"})
	require.NoError(t, err)
	assert.Empty(t, res.Stdout)

	assert.Len(t, s.Calls(), 4)
}

func TestStub_Missing(t *testing.T) {
	s := NewStub()
	s.Missing = errors.New(errors.ErrCodeNotFound, "not installed")

	_, err := s.Run(context.Background(), Spec{Name: "dnf", Args: []string{"check"}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestStub_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStub().Run(ctx, Spec{Name: "rpm"})
	require.ErrorIs(t, err, context.Canceled)
}
