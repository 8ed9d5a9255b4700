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
	"strings"
	"time"

	version "github.com/knqyf263/go-rpm-version"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

// DependenciesCollector checks dependency consistency.
type DependenciesCollector struct {
	Runner   command.Runner
	Timeouts config.Timeouts
	Limits   config.Limits
}

// Collect gathers broken dependencies and duplicate packages.
// It implements the Collector interface.
func (c *DependenciesCollector) Collect(ctx context.Context) (*report.DependencyMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	slog.Info("checking dependencies")

	broken := make([]report.DependencyIssue, 0)

	// dnf check exits non-zero only when it found problems.
	if res := run(ctx, c.Runner, c.Timeouts.RepoQuery, "dnf", "check"); res != nil && res.ExitCode != 0 {
		for _, line := range res.Lines() {
			lower := strings.ToLower(line)
			if strings.Contains(lower, "missing") || strings.Contains(lower, "broken") {
				broken = append(broken, report.DependencyIssue{Issue: line, Source: report.SourceDNFCheck})
			}
		}
	}

	if res := run(ctx, c.Runner, c.Timeouts.Verify, "rpm", "-Va", "--nofiles", "--nodigest"); res != nil {
		for _, line := range head(res.Lines(), c.Limits.VerifyLines) {
			broken = append(broken, report.DependencyIssue{Issue: line, Source: report.SourceRPMVerify})
		}
	}

	duplicates := make([]report.DuplicatePackage, 0)
	if res := run(ctx, c.Runner, c.Timeouts.List, "dnf", "repoquery", "--duplicates"); res.Success() {
		for _, line := range res.Lines() {
			duplicates = append(duplicates, parseNEVRA(line))
		}
		sortDuplicates(duplicates)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &report.DependencyMetrics{
		BrokenDependencies: len(broken),
		BrokenList:         head(broken, c.Limits.DependencyList),
		DuplicatePackages:  len(duplicates),
		DuplicateList:      head(duplicates, c.Limits.DependencyList),
		HasIssues:          len(broken) > 0 || len(duplicates) > 0,
	}
	logDone("dependencies", start, "broken", res.BrokenDependencies, "duplicates", res.DuplicatePackages)
	return res, nil
}

// parseNEVRA splits "name-[epoch:]version-release.arch" into name and
// [epoch:]version-release. Lines that do not fit keep only Package.
func parseNEVRA(line string) report.DuplicatePackage {
	d := report.DuplicatePackage{Package: line}

	rest := stripArch(line)
	rel := strings.LastIndexByte(rest, '-')
	if rel <= 0 {
		return d
	}
	ver := strings.LastIndexByte(rest[:rel], '-')
	if ver <= 0 {
		return d
	}
	d.Name = rest[:ver]
	d.Version = rest[ver+1:]
	return d
}

// sortDuplicates orders by name, then newest version first.
func sortDuplicates(list []report.DuplicatePackage) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		if list[i].Version == "" || list[j].Version == "" {
			return false
		}
		vi := version.NewVersion(withEpoch(list[i].Version))
		vj := version.NewVersion(withEpoch(list[j].Version))
		return vi.Compare(vj) == version.GREATER
	})
}
