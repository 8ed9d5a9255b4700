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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

func TestDeriveIssues(t *testing.T) {
	defaultThresholds := ThresholdsFrom(config.Default())

	tests := []struct {
		name    string
		metrics report.Metrics
		want    []report.Issue
	}{
		{
			name: "updates and security",
			metrics: report.Metrics{
				Updates: report.Ok(&report.UpdateMetrics{TotalUpdates: 23, SecurityUpdates: 5}),
			},
			want: []report.Issue{
				{Type: report.IssueUpdates, Severity: report.SeverityInfo, Message: "23 updates available"},
				{Type: report.IssueSecurity, Severity: report.SeverityWarning, Message: "5 security updates available"},
			},
		},
		{
			name: "orphans above threshold",
			metrics: report.Metrics{
				Orphans: report.Ok(&report.OrphanMetrics{OrphanedCount: 11}),
			},
			want: []report.Issue{
				{Type: report.IssueOrphans, Severity: report.SeverityInfo, Message: "11 orphaned packages detected"},
			},
		},
		{
			name: "orphans at threshold",
			metrics: report.Metrics{
				Orphans: report.Ok(&report.OrphanMetrics{OrphanedCount: 10}),
			},
			want: []report.Issue{},
		},
		{
			name: "orphans below threshold",
			metrics: report.Metrics{
				Orphans: report.Ok(&report.OrphanMetrics{OrphanedCount: 5}),
			},
			want: []report.Issue{},
		},
		{
			name: "cache can clean",
			metrics: report.Metrics{
				Cache: report.Ok(&report.CacheInfo{TotalSizeMB: 512.25, CanClean: true}),
			},
			want: []report.Issue{
				{Type: report.IssueCache, Severity: report.SeverityInfo, Message: "DNF cache is using 512.25MB"},
			},
		},
		{
			name: "dependency problems",
			metrics: report.Metrics{
				Dependencies: report.Ok(&report.DependencyMetrics{HasIssues: true}),
			},
			want: []report.Issue{
				{Type: report.IssueDependencies, Severity: report.SeverityWarning, Message: "Dependency problems detected"},
			},
		},
		{
			name: "failed sections contribute nothing",
			metrics: report.Metrics{
				Updates: report.FromError[report.UpdateMetrics](errors.New("boom")),
				Cache:   report.FromError[report.CacheInfo](nil),
			},
			want: []report.Issue{},
		},
		{
			name:    "zero metrics",
			metrics: report.Metrics{},
			want:    []report.Issue{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveIssues(tt.metrics, defaultThresholds)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveIssues_Order(t *testing.T) {
	m := report.Metrics{
		Updates:      report.Ok(&report.UpdateMetrics{TotalUpdates: 1, SecurityUpdates: 1}),
		Orphans:      report.Ok(&report.OrphanMetrics{OrphanedCount: 50}),
		Cache:        report.Ok(&report.CacheInfo{TotalSizeMB: 200, CanClean: true}),
		Dependencies: report.Ok(&report.DependencyMetrics{HasIssues: true}),
	}
	got := DeriveIssues(m, Thresholds{Orphans: 10})

	types := make([]report.IssueType, 0, len(got))
	for _, i := range got {
		types = append(types, i.Type)
	}
	assert.Equal(t, []report.IssueType{
		report.IssueUpdates, report.IssueSecurity, report.IssueOrphans, report.IssueCache, report.IssueDependencies,
	}, types)
}

func TestDeriveIssues_CustomThreshold(t *testing.T) {
	m := report.Metrics{Orphans: report.Ok(&report.OrphanMetrics{OrphanedCount: 5})}
	assert.Len(t, DeriveIssues(m, Thresholds{Orphans: 3}), 1)
}

func TestThresholdsFrom_Nil(t *testing.T) {
	assert.Equal(t, Thresholds{Orphans: 10}, ThresholdsFrom(nil))
}

func TestSummarize(t *testing.T) {
	m := report.Metrics{
		Packages: report.Ok(&report.PackageMetrics{Summary: report.PackageSummary{TotalPackages: 2000}}),
		Updates:  report.FromError[report.UpdateMetrics](errors.New("x")),
		Cache:    report.Ok(&report.CacheInfo{TotalSizeMB: 12.5}),
	}
	issues := []report.Issue{{Type: report.IssueCache}}

	assert.Equal(t, report.Summary{
		TotalPackages: 2000,
		TotalUpdates:  0,
		TotalIssues:   1,
		CacheSizeMB:   12.5,
	}, Summarize(m, issues))
}
