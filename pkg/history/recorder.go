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
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register the sqlite driver

	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

//go:embed schema.sql
var schema string

const insertRun = `INSERT INTO runs (
	session_id, run_id, timestamp, timestamp_unix, hostname,
	total_packages, total_updates, total_issues, cache_size_mb,
	report_path, report_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectRuns = `SELECT session_id, run_id, timestamp, hostname,
	total_packages, total_updates, total_issues, cache_size_mb, report_path
FROM runs WHERE (? = '' OR session_id = ?)
ORDER BY timestamp_unix DESC, id DESC`

// Recorder persists a saved report under a session id.
type Recorder interface {
	Record(ctx context.Context, sessionID string, rep *report.Report, path string) error
}

// NopRecorder discards every run.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, string, *report.Report, string) error { return nil }

// Run is one recorded analyze run.
type Run struct {
	SessionID     string    `json:"session_id" yaml:"session_id"`
	RunID         string    `json:"run_id" yaml:"run_id"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	Hostname      string    `json:"hostname" yaml:"hostname"`
	TotalPackages int       `json:"total_packages" yaml:"total_packages"`
	TotalUpdates  int       `json:"total_updates" yaml:"total_updates"`
	TotalIssues   int       `json:"total_issues" yaml:"total_issues"`
	CacheSizeMB   float64   `json:"cache_size_mb" yaml:"cache_size_mb"`
	ReportPath    string    `json:"report_path" yaml:"report_path"`
}

// SQLiteRecorder stores runs in a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
// The caller must Close the recorder.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to create history directory", err,
				map[string]any{"dir": dir})
		}
	}

	u := url.URL{
		Scheme: `file`,
		Opaque: path,
		RawQuery: url.Values{
			"_pragma": {
				"busy_timeout(5000)",
				"journal_mode(WAL)",
			},
		}.Encode(),
	}
	db, err := sql.Open(`sqlite`, u.String())
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to open history database", err,
			map[string]any{"path": path})
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to open history database", err,
			map[string]any{"path": path})
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to apply history schema", err,
			map[string]any{"path": path})
	}
	return &SQLiteRecorder{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// Record implements Recorder.
func (r *SQLiteRecorder) Record(ctx context.Context, sessionID string, rep *report.Report, path string) error {
	if rep == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "report is nil")
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertRun,
		sessionID,
		rep.RunID,
		rep.Timestamp.UTC().Format(time.RFC3339),
		rep.TimestampUnix,
		rep.Hostname,
		rep.Summary.TotalPackages,
		rep.Summary.TotalUpdates,
		rep.Summary.TotalIssues,
		rep.Summary.CacheSizeMB,
		path,
		string(data),
	)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to record run", err,
			map[string]any{"run_id": rep.RunID, "session_id": sessionID})
	}

	slog.Debug("run recorded", "run_id", rep.RunID, "session_id", sessionID)
	return nil
}

// Runs lists recorded runs newest first. An empty sessionID lists all runs.
func (r *SQLiteRecorder) Runs(ctx context.Context, sessionID string) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, selectRuns, sessionID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("history: query error: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run Run
			ts  string
		)
		if err := rows.Scan(&run.SessionID, &run.RunID, &ts, &run.Hostname,
			&run.TotalPackages, &run.TotalUpdates, &run.TotalIssues, &run.CacheSizeMB, &run.ReportPath); err != nil {
			return nil, fmt.Errorf("history: scan error: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			run.Timestamp = t
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: sql error: %w", err)
	}
	return out, nil
}
