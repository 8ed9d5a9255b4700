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
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
	"github.com/NVIDIA/pkg-analyzer/pkg/history"
	"github.com/NVIDIA/pkg-analyzer/pkg/serializer"
)

type historyOptions struct {
	sessionID string
	format    serializer.Format
	output    string
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List analyze runs recorded in the history database",
		Description: `Lists recorded runs newest first. Runs are recorded by analyze when
--session or --history-db is given.

# Examples

List every run as a table:
  pkg-analyzer history

List one session as JSON into a file:
  pkg-analyzer history --session nightly-42 --format json --output runs.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Only list runs of this session id",
				Sources: cli.EnvVars("PKG_ANALYZER_SESSION"),
			},
			&cli.StringFlag{
				Name:    "history-db",
				Usage:   "SQLite history database (default from config)",
				Sources: cli.EnvVars("PKG_ANALYZER_HISTORY_DB"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("Output format (%v)", serializer.SupportedFormats()),
				Value:   string(serializer.FormatTable),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := parseHistoryOptions(cmd, cfg)
			if err != nil {
				return err
			}
			return runHistory(ctx, cfg.Paths.HistoryDB, opts)
		},
	}
}

func parseHistoryOptions(cmd *cli.Command, cfg *config.Config) (historyOptions, error) {
	opts := historyOptions{
		sessionID: cmd.String("session"),
		format:    serializer.Format(cmd.String("format")),
		output:    cmd.String("output"),
	}
	if opts.format.IsUnknown() {
		return opts, fmt.Errorf("unknown output format %q, supported: %v", opts.format, serializer.SupportedFormats())
	}
	if cmd.IsSet("history-db") {
		cfg.Paths.HistoryDB = cmd.String("history-db")
	}
	return opts, nil
}

// runHistory prints the runs recorded in dbPath. A missing database is
// NOT_FOUND rather than an empty list so a wrong path is noticed.
func runHistory(ctx context.Context, dbPath string, opts historyOptions) error {
	if _, err := os.Stat(dbPath); err != nil {
		return errors.WrapWithContext(errors.ErrCodeNotFound, "no history database", err,
			map[string]any{"path": dbPath})
	}

	rec, err := history.OpenSQLite(ctx, dbPath)
	if err != nil {
		return err
	}
	defer rec.Close()

	runs, err := rec.Runs(ctx, opts.sessionID)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if runs == nil {
		runs = []history.Run{}
	}

	w := serializer.NewFileWriterOrStdout(opts.format, opts.output)
	defer w.Close()
	return w.Serialize(ctx, runs)
}
