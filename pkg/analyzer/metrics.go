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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

var (
	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pkg_analyzer_analysis_duration_seconds",
			Help:    "Time taken to run all collectors",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	analysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pkg_analyzer_analysis_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"}, // success or canceled
	)

	collectorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pkg_analyzer_collector_duration_seconds",
			Help:    "Time taken by individual collectors",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"collector"},
	)

	collectorTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pkg_analyzer_collector_runs_total",
			Help: "Collector runs by outcome",
		},
		[]string{"collector", "outcome"}, // success, error, canceled
	)

	issueCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pkg_analyzer_issues",
			Help: "Issues derived in the last analysis run",
		},
		[]string{"severity"},
	)
)

func recordIssues(issues []report.Issue) {
	counts := map[report.Severity]int{
		report.SeverityInfo:    0,
		report.SeverityWarning: 0,
	}
	for _, i := range issues {
		counts[i.Severity]++
	}
	for sev, n := range counts {
		issueCount.WithLabelValues(string(sev)).Set(float64(n))
	}
}

// WriteMetrics writes all registered metrics to path in the node_exporter
// textfile collector format.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
