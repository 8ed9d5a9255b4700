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

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

func run(id string, at time.Time, packages int) *report.Report {
	return &report.Report{
		RunID:         id,
		Timestamp:     at,
		TimestampUnix: at.Unix(),
		Hostname:      "fedora",
		Issues:        []report.Issue{},
		Summary:       report.Summary{TotalPackages: packages, TotalUpdates: 3, TotalIssues: 1, CacheSizeMB: 12.5},
	}
}

func TestSQLiteRecorder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "history.sqlite")

	rec, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer rec.Close()

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, rec.Record(ctx, "nightly", run("a", base, 100), "/r/a.json"))
	require.NoError(t, rec.Record(ctx, "nightly", run("b", base.Add(time.Hour), 101), "/r/b.json"))
	require.NoError(t, rec.Record(ctx, "", run("c", base.Add(2*time.Hour), 102), "/r/c.json"))

	nightly, err := rec.Runs(ctx, "nightly")
	require.NoError(t, err)
	require.Len(t, nightly, 2)
	assert.Equal(t, "b", nightly[0].RunID)
	assert.Equal(t, "a", nightly[1].RunID)
	assert.Equal(t, 101, nightly[0].TotalPackages)
	assert.Equal(t, "/r/b.json", nightly[0].ReportPath)
	assert.InDelta(t, 12.5, nightly[0].CacheSizeMB, 1e-9)
	assert.True(t, nightly[0].Timestamp.Equal(base.Add(time.Hour)))

	all, err := rec.Runs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "c", all[0].RunID)
}

func TestSQLiteRecorder_DuplicateRunID(t *testing.T) {
	ctx := context.Background()
	rec, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "h.sqlite"))
	require.NoError(t, err)
	defer rec.Close()

	r := run("same", time.Now(), 1)
	require.NoError(t, rec.Record(ctx, "s", r, "p"))
	assert.Error(t, rec.Record(ctx, "s", r, "p"))
}

func TestSQLiteRecorder_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "h.sqlite")

	rec, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, rec.Record(ctx, "s", run("x", time.Now(), 1), "p"))
	require.NoError(t, rec.Close())

	rec, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer rec.Close()
	runs, err := rec.Runs(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteRecorder_NilReport(t *testing.T) {
	rec, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "h.sqlite"))
	require.NoError(t, err)
	defer rec.Close()
	assert.Error(t, rec.Record(context.Background(), "s", nil, "p"))
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	assert.NoError(t, r.Record(context.Background(), "s", nil, ""))
}
