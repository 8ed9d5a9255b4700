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

package analyzer

import (
	"fmt"

	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

// Thresholds controls issue derivation.
type Thresholds struct {
	Orphans int
}

// ThresholdsFrom reads thresholds from cfg.
func ThresholdsFrom(cfg *config.Config) Thresholds {
	if cfg == nil {
		cfg = config.Default()
	}
	return Thresholds{Orphans: cfg.Thresholds.Orphans}
}

// DeriveIssues applies the threshold rules to m. Failed sections contribute
// nothing. The result is never nil.
func DeriveIssues(m report.Metrics, t Thresholds) []report.Issue {
	issues := make([]report.Issue, 0, 5)

	if u := m.Updates.Value(); !m.Updates.Failed() {
		if u.TotalUpdates > 0 {
			issues = append(issues, report.Issue{
				Type:     report.IssueUpdates,
				Severity: report.SeverityInfo,
				Message:  fmt.Sprintf("%d updates available", u.TotalUpdates),
			})
		}
		if u.SecurityUpdates > 0 {
			issues = append(issues, report.Issue{
				Type:     report.IssueSecurity,
				Severity: report.SeverityWarning,
				Message:  fmt.Sprintf("%d security updates available", u.SecurityUpdates),
			})
		}
	}

	if o := m.Orphans.Value(); !m.Orphans.Failed() && o.OrphanedCount > t.Orphans {
		issues = append(issues, report.Issue{
			Type:     report.IssueOrphans,
			Severity: report.SeverityInfo,
			Message:  fmt.Sprintf("%d orphaned packages detected", o.OrphanedCount),
		})
	}

	if c := m.Cache.Value(); !m.Cache.Failed() && c.CanClean {
		issues = append(issues, report.Issue{
			Type:     report.IssueCache,
			Severity: report.SeverityInfo,
			Message:  fmt.Sprintf("DNF cache is using %gMB", c.TotalSizeMB),
		})
	}

	if d := m.Dependencies.Value(); !m.Dependencies.Failed() && d.HasIssues {
		issues = append(issues, report.Issue{
			Type:     report.IssueDependencies,
			Severity: report.SeverityWarning,
			Message:  "Dependency problems detected",
		})
	}

	return issues
}

// Summarize builds the report roll-up. Failed sections count as zero.
func Summarize(m report.Metrics, issues []report.Issue) report.Summary {
	return report.Summary{
		TotalPackages: m.Packages.Value().Summary.TotalPackages,
		TotalUpdates:  m.Updates.Value().TotalUpdates,
		TotalIssues:   len(issues),
		CacheSizeMB:   m.Cache.Value().TotalSizeMB,
	}
}
