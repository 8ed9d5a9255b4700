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

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/pkg-analyzer/pkg/analyzer"
	"github.com/NVIDIA/pkg-analyzer/pkg/collector"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/history"
	"github.com/NVIDIA/pkg-analyzer/pkg/serializer"
	"github.com/NVIDIA/pkg-analyzer/pkg/store"
)

type analyzeOptions struct {
	sessionID   string
	format      serializer.Format
	metricsFile string
	// historyDB is empty when runs are not recorded.
	historyDB string
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Collect package metrics and save a JSON report",
		Description: `Runs the packages, updates, orphans, cache and dependencies collectors,
derives issues and saves the result to <output-dir>/packages_<YYYYMMDD_HHMMSS>.json.

Every command is read-only. A collector that fails is recorded as
{"error": "..."} in its section; the run still succeeds.

# Examples

Analyze and save to the configured output directory:
  pkg-analyzer analyze

Also print the report as YAML and export Prometheus metrics:
  pkg-analyzer analyze --format yaml --metrics-file /var/lib/node_exporter/pkg_analyzer.prom

Tag the run with a session id and record it in the history database:
  pkg-analyzer analyze --session nightly-42`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Session id attached to the report and recorded in the history database",
				Sources: cli.EnvVars("PKG_ANALYZER_SESSION"),
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory for JSON reports",
				Sources: cli.EnvVars("PKG_ANALYZER_OUTPUT_DIR"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("Also print the report to stdout (%v)", serializer.SupportedFormats()),
				Sources: cli.EnvVars("PKG_ANALYZER_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics in textfile collector format to this path",
				Sources: cli.EnvVars("PKG_ANALYZER_METRICS_FILE"),
			},
			&cli.StringFlag{
				Name:    "history-db",
				Usage:   "SQLite database recording each run (default from config when --session is set)",
				Sources: cli.EnvVars("PKG_ANALYZER_HISTORY_DB"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := parseAnalyzeOptions(cmd, cfg)
			if err != nil {
				return err
			}
			factory := collector.NewDefaultFactory(collector.WithConfig(cfg))
			rec, closeRec := openRecorder(ctx, opts.historyDB)
			defer closeRec()
			return runAnalyze(ctx, cfg, opts, factory, rec, os.Stdout, os.Stderr)
		},
	}
}

// parseAnalyzeOptions applies flag overrides to cfg and returns the
// remaining options.
func parseAnalyzeOptions(cmd *cli.Command, cfg *config.Config) (analyzeOptions, error) {
	opts := analyzeOptions{
		sessionID:   cmd.String("session"),
		metricsFile: cmd.String("metrics-file"),
	}

	if v := cmd.String("format"); v != "" {
		opts.format = serializer.Format(v)
		if opts.format.IsUnknown() {
			return opts, fmt.Errorf("unknown output format %q, supported: %v", v, serializer.SupportedFormats())
		}
	}
	if cmd.IsSet("output-dir") {
		cfg.Paths.OutputDir = cmd.String("output-dir")
	}
	if cmd.IsSet("history-db") {
		cfg.Paths.HistoryDB = cmd.String("history-db")
		opts.historyDB = cfg.Paths.HistoryDB
	} else if opts.sessionID != "" {
		opts.historyDB = cfg.Paths.HistoryDB
	}
	return opts, nil
}

// runAnalyze collects, saves and summarizes one report and hands it to rec.
// The summary goes to stderr when the report itself is printed to stdout.
func runAnalyze(ctx context.Context, cfg *config.Config, opts analyzeOptions, factory collector.Factory,
	rec history.Recorder, stdout, stderr io.Writer) error {
	if t := cfg.Timeouts.Analyze.Std(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	a := &analyzer.Analyzer{
		Factory:   factory,
		Config:    cfg,
		Version:   version,
		SessionID: opts.sessionID,
	}
	rep, err := a.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analysis aborted: %w", err)
	}

	path, err := store.New(cfg.Paths.OutputDir).Save(ctx, rep)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	slog.Info("report saved", "path", path)

	if err := rec.Record(ctx, opts.sessionID, rep, path); err != nil {
		slog.Warn("failed to record run", "session_id", opts.sessionID, "error", err)
	}

	if opts.metricsFile != "" {
		if err := analyzer.WriteMetrics(opts.metricsFile); err != nil {
			slog.Warn("failed to write metrics", "path", opts.metricsFile, "error", err)
		}
	}

	summaryOut := stdout
	if opts.format != "" {
		if err := serializer.NewWriter(opts.format, stdout).Serialize(ctx, rep); err != nil {
			return fmt.Errorf("failed to print report: %w", err)
		}
		summaryOut = stderr
	}

	printSummary(summaryOut, rep, path, cfg.Limits.SummaryIssues)
	return nil
}

// openRecorder opens the history database at dbPath. An empty path or an
// unavailable database yields a NopRecorder so analyze still succeeds.
func openRecorder(ctx context.Context, dbPath string) (history.Recorder, func()) {
	if dbPath == "" {
		return history.NopRecorder{}, func() {}
	}
	rec, err := history.OpenSQLite(ctx, dbPath)
	if err != nil {
		slog.Warn("history database unavailable", "path", dbPath, "error", err)
		return history.NopRecorder{}, func() {}
	}
	return rec, func() {
		if err := rec.Close(); err != nil {
			slog.Warn("failed to close history database", "path", dbPath, "error", err)
		}
	}
}
