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

package collector

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

// OrphansCollector finds packages that are no longer required.
type OrphansCollector struct {
	Runner   command.Runner
	Timeouts config.Timeouts
	Limits   config.Limits
}

// Collect gathers unneeded and autoremovable packages.
// It implements the Collector interface.
func (c *OrphansCollector) Collect(ctx context.Context) (*report.OrphanMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	slog.Info("detecting orphaned packages")

	orphans := make([]report.OrphanRecord, 0)
	if res := run(ctx, c.Runner, c.Timeouts.RepoQuery, "dnf", "repoquery", "--unneeded"); res.Success() {
		for _, line := range res.Lines() {
			orphans = append(orphans, report.OrphanRecord{Name: stripArch(line)})
		}
	}

	removable := make([]report.AutoremoveRecord, 0)
	// autoremove --assumeno exits 1 after printing the transaction.
	if res := run(ctx, c.Runner, c.Timeouts.List, "dnf", "autoremove", "--assumeno"); res != nil {
		for _, name := range parseAutoremove(res.Stdout) {
			removable = append(removable, report.AutoremoveRecord{Name: name})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &report.OrphanMetrics{
		OrphanedCount:         len(orphans),
		OrphanedPackages:      head(orphans, c.Limits.OrphanList),
		AutoremovableCount:    len(removable),
		AutoremovablePackages: head(removable, c.Limits.AutoremoveList),
	}
	logDone("orphans", start, "orphaned", res.OrphanedCount, "autoremovable", res.AutoremovableCount)
	return res, nil
}

var transactionActions = map[string]bool{
	"Installing": true,
	"Upgrading":  true,
	"Removing":   true,
}

// parseAutoremove returns the first column of the lines following the
// "Removing" header, up to the transaction summary.
func parseAutoremove(out string) []string {
	var names []string
	inRemove := false
	for _, line := range command.SplitLines(out) {
		if strings.Contains(line, "Removing") {
			inRemove = true
			continue
		}
		if !inRemove {
			continue
		}
		if strings.HasPrefix(line, "Transaction") {
			break
		}
		fields := strings.Fields(line)
		if transactionActions[strings.TrimSuffix(fields[0], ":")] {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}
