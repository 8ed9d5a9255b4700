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

// Package analyzer runs the collectors and assembles a report.
//
// Collectors run one after another in a fixed order: packages, updates,
// orphans, cache, dependencies. Each runs behind a failure boundary. An
// error or a panic inside a collector becomes an {"error": "..."} section
// and the run continues, so a report always carries all five metrics keys.
// Only cancellation of the parent context aborts a run.
//
// Issues are derived from the collected metrics by DeriveIssues, a pure
// function of the metrics and the configured thresholds:
//
//	analyzer := &analyzer.Analyzer{
//	    Factory: collector.NewDefaultFactory(collector.WithConfig(cfg)),
//	    Config:  cfg,
//	    Version: version,
//	}
//	rep, err := analyzer.Analyze(ctx)
//
// Run durations, outcomes and issue counts are exported as Prometheus
// metrics and can be written in textfile collector format with WriteMetrics.
package analyzer
