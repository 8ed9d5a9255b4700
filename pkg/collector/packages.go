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
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

const (
	sizeQueryFormat        = "%{NAME}|%{SIZE}|%{VERSION}\n"
	installTimeQueryFormat = "%{INSTALLTIME}"
)

// PackagesCollector counts installed packages and ranks them by size.
type PackagesCollector struct {
	Runner   command.Runner
	Timeouts config.Timeouts
	Limits   config.Limits
}

// Collect gathers package counts, the largest packages, and details.
// It implements the Collector interface.
func (c *PackagesCollector) Collect(ctx context.Context) (*report.PackageMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	slog.Info("collecting installed packages")

	total := c.countLines(ctx, "rpm", "-qa")
	user := c.countLines(ctx, "dnf", "repoquery", "--userinstalled")

	bySize := c.packagesBySize(ctx)
	repos := c.repositories(ctx)
	for i := range bySize {
		if repo, ok := repos[bySize[i].Name]; ok {
			bySize[i].Repository = repo
		}
	}

	scan := head(bySize, c.Limits.PackagesScan)
	var scanBytes int64
	for _, p := range scan {
		scanBytes += p.SizeBytes
	}

	res := &report.PackageMetrics{
		Summary: report.PackageSummary{
			TotalPackages: total,
			UserInstalled: user,
			Dependencies:  max(total-user, 0),
			TotalSizeGB:   report.BytesToGB(scanBytes),
		},
		LargestPackages:   head(bySize, c.Limits.LargestPackages),
		AllPackagesSample: head(bySize, c.Limits.PackagesSample),
	}

	for _, p := range head(bySize, c.Limits.PackageDetails) {
		if ctx.Err() != nil {
			break
		}
		res.Details = append(res.Details, c.details(ctx, p.Name))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logDone("packages", start, "total", total, "ranked", len(bySize))
	return res, nil
}

func (c *PackagesCollector) countLines(ctx context.Context, name string, args ...string) int {
	res := run(ctx, c.Runner, c.Timeouts.Count, name, args...)
	if !res.Success() {
		return 0
	}
	return len(res.Lines())
}

// packagesBySize parses NAME|SIZE|VERSION lines sorted by size, largest first.
func (c *PackagesCollector) packagesBySize(ctx context.Context) []report.PackageRecord {
	res := run(ctx, c.Runner, c.Timeouts.List, "rpm", "-qa", "--queryformat", sizeQueryFormat)
	if !res.Success() {
		return []report.PackageRecord{}
	}

	pkgs := make([]report.PackageRecord, 0, 1024)
	for _, line := range res.Lines() {
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}
		size, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			continue
		}
		pkgs = append(pkgs, report.PackageRecord{
			Name:      parts[0],
			Version:   parts[2],
			SizeBytes: size,
			SizeMB:    report.BytesToMB(size),
		})
	}

	sort.SliceStable(pkgs, func(i, j int) bool {
		return pkgs[i].SizeBytes > pkgs[j].SizeBytes
	})
	return pkgs
}

// repositories maps package name to the repository dnf list installed
// reports for it.
func (c *PackagesCollector) repositories(ctx context.Context) map[string]string {
	repos := make(map[string]string)
	res := run(ctx, c.Runner, c.Timeouts.List, "dnf", "list", "installed")
	if !res.Success() {
		return repos
	}
	for _, line := range res.Lines() {
		if strings.HasPrefix(line, "Installed") || strings.HasPrefix(line, "Last metadata") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		repos[stripArch(fields[0])] = fields[2]
	}
	return repos
}

func (c *PackagesCollector) details(ctx context.Context, name string) report.PackageDetails {
	d := report.PackageDetails{
		Name:          name,
		InstallReason: report.InstallReasonUnknown,
	}

	if res := run(ctx, c.Runner, c.Timeouts.Info, "dnf", "info", name); res.Success() {
		parseInfo(res.Stdout, &d)
	}

	if res := run(ctx, c.Runner, c.Timeouts.Query, "rpm", "-q", "--queryformat", installTimeQueryFormat, name); res.Success() {
		if ts, err := strconv.ParseInt(strings.TrimSpace(res.Stdout), 10, 64); err == nil && ts > 0 {
			t := time.Unix(ts, 0).UTC()
			d.InstallDate = &t
		}
	}

	if res := run(ctx, c.Runner, c.Timeouts.Query, "dnf", "repoquery", "--userinstalled", name); res != nil {
		if res.Success() && len(res.Lines()) > 0 {
			d.InstallReason = report.InstallReasonUser
		} else {
			d.InstallReason = report.InstallReasonDependency
		}
	}

	return d
}

// parseInfo reads "Key : value" lines of dnf info. dnf may print an
// installed and an available block; the first value of each key wins.
func parseInfo(out string, d *report.PackageDetails) {
	seen := make(map[string]bool)
	for _, line := range command.SplitLines(out) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if seen[key] {
			continue
		}
		seen[key] = true

		switch key {
		case "Size", "Installed size", "Installed Size":
			if d.SizeBytes != 0 {
				continue
			}
			size, err := ParseSize(value)
			if err != nil {
				slog.Debug("unparsable package size", "package", d.Name, "value", value)
				continue
			}
			d.SizeBytes = size
		case "Summary":
			d.Description = value
		case "URL":
			d.URL = value
		}
	}
}
