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

package defaults

// Output caps keep the persisted report small enough to embed in a prompt.
const (
	// PackagesScanLimit is how many of the largest packages count toward total_size_gb.
	PackagesScanLimit = 50
	// LargestPackagesLimit caps largest_packages.
	LargestPackagesLimit = 20
	// PackagesSampleLimit caps all_packages_sample.
	PackagesSampleLimit = 100
	// PackageDetailsLimit is how many of the largest packages get dnf info details.
	PackageDetailsLimit = 5
	// UpdatesListLimit caps updates_list.
	UpdatesListLimit = 30
	// SecurityListLimit caps security_list.
	SecurityListLimit = 10
	// OrphanListLimit caps orphaned_packages.
	OrphanListLimit = 50
	// AutoremoveListLimit caps autoremovable_packages.
	AutoremoveListLimit = 30
	// VerifyLinesLimit caps how many rpm -Va lines become dependency issues.
	VerifyLinesLimit = 10
	// DependencyListLimit caps broken_list and duplicate_list.
	DependencyListLimit = 20
	// SummaryIssuesLimit is how many issues the terminal summary prints.
	SummaryIssuesLimit = 5
	// MaxCommandOutput is the largest stdout a single command may return.
	MaxCommandOutput = 32 << 20
)

// Thresholds for issue derivation.
const (
	// OrphanThreshold is the orphan count above which an issue is raised.
	OrphanThreshold = 10
	// CacheCleanThresholdMB is the cache size above which cleanup is suggested.
	CacheCleanThresholdMB = 100
)

// Paths and names. OutputDir, HTMLDir and HistoryDB are relative to the
// per-user data directory.
const (
	// DataDirName is the application directory under the data home.
	DataDirName = "pkg-analyzer"
	// CacheDir is the dnf cache directory.
	CacheDir = "/var/cache/dnf"
	// OutputDir is where analyze writes reports when nothing else is configured.
	OutputDir = "reports/raw"
	// HTMLDir is where report writes rendered HTML.
	HTMLDir = "reports/html"
	// HistoryDB is the SQLite file used in session mode.
	HistoryDB = "reports/history.sqlite"
	// AutoUpdateUnit is the systemd timer checked for automatic updates.
	AutoUpdateUnit = "dnf-automatic.timer"
	// GeminiModel is the default generation model.
	GeminiModel = "gemini-2.5-flash"
	// OpenAIModel is the default model for OpenAI-compatible endpoints.
	OpenAIModel = "gpt-4o-mini"
)

// Sampling parameters for report generation.
const (
	Temperature     = 0.7
	TopP            = 0.95
	MaxOutputTokens = 8192
)
