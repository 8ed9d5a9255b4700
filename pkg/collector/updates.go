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

	version "github.com/knqyf263/go-rpm-version"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

const installedVersionQueryFormat = "%{NAME} %{EPOCHNUM}:%{VERSION}-%{RELEASE}\n"

// UpdatesCollector lists pending updates and security advisories.
type UpdatesCollector struct {
	Runner         command.Runner
	Timeouts       config.Timeouts
	Limits         config.Limits
	Units          UnitStater
	AutoUpdateUnit string
}

// Collect gathers pending updates.
// It implements the Collector interface.
func (c *UpdatesCollector) Collect(ctx context.Context) (*report.UpdateMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	slog.Info("checking available updates")

	updates := c.pendingUpdates(ctx)
	advisories := c.securityAdvisories(ctx)

	res := &report.UpdateMetrics{
		TotalUpdates:    len(updates),
		SecurityUpdates: len(advisories),
		UpdatesList:     head(updates, c.Limits.UpdatesList),
		SecurityList:    head(advisories, c.Limits.SecurityList),
	}
	c.classify(ctx, res.UpdatesList)

	if c.Units != nil && c.AutoUpdateUnit != "" && ctx.Err() == nil {
		au, err := c.Units.UnitState(ctx, c.AutoUpdateUnit)
		if err != nil {
			slog.Warn("automatic update timer state unavailable", "unit", c.AutoUpdateUnit, "error", err)
		} else {
			res.AutoUpdate = au
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logDone("updates", start, "updates", res.TotalUpdates, "security", res.SecurityUpdates)
	return res, nil
}

func (c *UpdatesCollector) pendingUpdates(ctx context.Context) []report.UpdateRecord {
	res := run(ctx, c.Runner, c.Timeouts.RepoQuery, "dnf", "check-update", "--quiet")
	if res == nil {
		return []report.UpdateRecord{}
	}
	// 100 means updates are available.
	if res.ExitCode != 0 && res.ExitCode != 100 {
		slog.Warn("dnf check-update failed", "exit_code", res.ExitCode, "stderr", strings.TrimSpace(res.Stderr))
		return []report.UpdateRecord{}
	}
	return parseCheckUpdate(res.Stdout)
}

// parseCheckUpdate reads "name.arch version repo" lines. The obsoletes
// section repeats packages already listed and ends the scan.
func parseCheckUpdate(out string) []report.UpdateRecord {
	updates := make([]report.UpdateRecord, 0)
	for _, line := range command.SplitLines(out) {
		if strings.HasPrefix(line, "Obsoleting") {
			break
		}
		if strings.HasPrefix(line, "Last") || strings.HasPrefix(line, "Security") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		updates = append(updates, report.UpdateRecord{
			Package:    stripArch(fields[0]),
			NewVersion: fields[1],
			Repository: fields[2],
		})
	}
	return updates
}

func (c *UpdatesCollector) securityAdvisories(ctx context.Context) []report.SecurityAdvisory {
	res := run(ctx, c.Runner, c.Timeouts.List, "dnf", "updateinfo", "list", "security", "--available")
	if !res.Success() {
		return []report.SecurityAdvisory{}
	}
	return parseAdvisories(res.Stdout)
}

// parseAdvisories reads "ADVISORY SEVERITY/sec PACKAGE" lines.
func parseAdvisories(out string) []report.SecurityAdvisory {
	list := make([]report.SecurityAdvisory, 0)
	for _, line := range command.SplitLines(out) {
		if !strings.Contains(line, "FEDORA") && !strings.Contains(strings.ToLower(line), "security") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		adv := report.SecurityAdvisory{
			Advisory: fields[0],
			Type:     "security",
			Severity: strings.TrimSuffix(fields[1], "/Sec."),
		}
		if len(fields) > 2 {
			adv.Package = fields[2]
		}
		list = append(list, adv)
	}
	return list
}

// classify fills InstalledVersion and Kind by comparing EVRs.
func (c *UpdatesCollector) classify(ctx context.Context, updates []report.UpdateRecord) {
	if len(updates) == 0 {
		return
	}

	args := []string{"-q", "--queryformat", installedVersionQueryFormat}
	for _, u := range updates {
		args = append(args, u.Package)
	}
	installed := make(map[string]string)
	// rpm -q exits non-zero when any name is not installed; the rest still print.
	if res := run(ctx, c.Runner, c.Timeouts.Count, "rpm", args...); res != nil {
		for _, line := range res.Lines() {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				continue
			}
			installed[fields[0]] = fields[1]
		}
	}

	for i := range updates {
		updates[i].Kind = report.UpdateKindUnknown
		cur, ok := installed[updates[i].Package]
		if !ok {
			continue
		}
		updates[i].InstalledVersion = cur
		updates[i].Kind = updateKind(cur, updates[i].NewVersion)
	}
}

func updateKind(installed, candidate string) string {
	switch version.NewVersion(withEpoch(installed)).Compare(version.NewVersion(withEpoch(candidate))) {
	case version.LESS:
		return report.UpdateKindUpgrade
	case version.GREATER:
		return report.UpdateKindDowngrade
	default:
		return report.UpdateKindUnknown
	}
}

// withEpoch makes the implicit zero epoch explicit so "1.0-1" and
// "0:1.0-1" compare equal.
func withEpoch(evr string) string {
	if strings.Contains(evr, ":") {
		return evr
	}
	return "0:" + evr
}
