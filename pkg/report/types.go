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

package report

import (
	"math"
	"time"
)

// Severity classifies a derived issue.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// IssueType names the metric family an issue was derived from.
type IssueType string

const (
	IssueUpdates      IssueType = "updates"
	IssueSecurity     IssueType = "security"
	IssueOrphans      IssueType = "orphans"
	IssueCache        IssueType = "cache"
	IssueDependencies IssueType = "dependencies"
)

// Install reasons reported in PackageDetails.
const (
	InstallReasonUser       = "user"
	InstallReasonDependency = "dependency"
	InstallReasonUnknown    = "unknown"
)

// Update kinds reported in UpdateRecord.
const (
	UpdateKindUpgrade   = "upgrade"
	UpdateKindDowngrade = "downgrade"
	UpdateKindUnknown   = "unknown"
)

// Dependency issue sources.
const (
	SourceDNFCheck  = "dnf-check"
	SourceRPMVerify = "rpm-verify"
)

// Report is the aggregated result of one analyze run.
type Report struct {
	RunID         string    `json:"run_id" yaml:"run_id"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	TimestampUnix int64     `json:"timestamp_unix" yaml:"timestamp_unix"`
	Hostname      string    `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Version       string    `json:"version,omitempty" yaml:"version,omitempty"`
	SessionID     string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Metrics       Metrics   `json:"metrics" yaml:"metrics"`
	Issues        []Issue   `json:"issues" yaml:"issues"`
	Summary       Summary   `json:"summary" yaml:"summary"`
}

// Metrics holds one section per collector.
type Metrics struct {
	Packages     Section[PackageMetrics]    `json:"packages" yaml:"packages"`
	Updates      Section[UpdateMetrics]     `json:"updates" yaml:"updates"`
	Orphans      Section[OrphanMetrics]     `json:"orphans" yaml:"orphans"`
	Cache        Section[CacheInfo]         `json:"cache" yaml:"cache"`
	Dependencies Section[DependencyMetrics] `json:"dependencies" yaml:"dependencies"`
}

// Issue is a finding derived from threshold checks over Metrics.
type Issue struct {
	Type     IssueType `json:"type" yaml:"type"`
	Severity Severity  `json:"severity" yaml:"severity"`
	Message  string    `json:"message" yaml:"message"`
}

// Summary is the roll-up printed by the CLI and embedded in the report.
type Summary struct {
	TotalPackages int     `json:"total_packages" yaml:"total_packages"`
	TotalUpdates  int     `json:"total_updates" yaml:"total_updates"`
	TotalIssues   int     `json:"total_issues" yaml:"total_issues"`
	CacheSizeMB   float64 `json:"cache_size_mb" yaml:"cache_size_mb"`
}

// PackageRecord describes one installed package.
type PackageRecord struct {
	Name       string  `json:"name" yaml:"name"`
	Version    string  `json:"version" yaml:"version"`
	Repository string  `json:"repository,omitempty" yaml:"repository,omitempty"`
	SizeBytes  int64   `json:"size_bytes" yaml:"size_bytes"`
	SizeMB     float64 `json:"size_mb" yaml:"size_mb"`
}

// PackageDetails is the dnf info / rpm view of a single package.
type PackageDetails struct {
	Name          string     `json:"name" yaml:"name"`
	SizeBytes     int64      `json:"size_bytes" yaml:"size_bytes"`
	InstallDate   *time.Time `json:"install_date" yaml:"install_date"`
	InstallReason string     `json:"install_reason" yaml:"install_reason"`
	Description   string     `json:"description" yaml:"description"`
	URL           string     `json:"url" yaml:"url"`
}

// PackageSummary counts installed packages.
type PackageSummary struct {
	TotalPackages int     `json:"total_packages" yaml:"total_packages"`
	UserInstalled int     `json:"user_installed" yaml:"user_installed"`
	Dependencies  int     `json:"dependencies" yaml:"dependencies"`
	TotalSizeGB   float64 `json:"total_size_gb" yaml:"total_size_gb"`
}

// PackageMetrics is the packages collector result.
type PackageMetrics struct {
	Summary           PackageSummary   `json:"summary" yaml:"summary"`
	LargestPackages   []PackageRecord  `json:"largest_packages" yaml:"largest_packages"`
	AllPackagesSample []PackageRecord  `json:"all_packages_sample" yaml:"all_packages_sample"`
	Details           []PackageDetails `json:"details,omitempty" yaml:"details,omitempty"`
}

// UpdateRecord is one pending update from dnf check-update.
type UpdateRecord struct {
	Package          string `json:"package" yaml:"package"`
	NewVersion       string `json:"new_version" yaml:"new_version"`
	Repository       string `json:"repository" yaml:"repository"`
	InstalledVersion string `json:"installed_version,omitempty" yaml:"installed_version,omitempty"`
	Kind             string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// SecurityAdvisory is one entry of dnf updateinfo list security.
type SecurityAdvisory struct {
	Advisory string `json:"advisory" yaml:"advisory"`
	Type     string `json:"type" yaml:"type"`
	Severity string `json:"severity" yaml:"severity"`
	Package  string `json:"package,omitempty" yaml:"package,omitempty"`
}

// AutoUpdate reports the state of the automatic update timer.
type AutoUpdate struct {
	Unit        string `json:"unit" yaml:"unit"`
	ActiveState string `json:"active_state,omitempty" yaml:"active_state,omitempty"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
}

// UpdateMetrics is the updates collector result.
type UpdateMetrics struct {
	TotalUpdates    int                `json:"total_updates" yaml:"total_updates"`
	SecurityUpdates int                `json:"security_updates" yaml:"security_updates"`
	UpdatesList     []UpdateRecord     `json:"updates_list" yaml:"updates_list"`
	SecurityList    []SecurityAdvisory `json:"security_list" yaml:"security_list"`
	AutoUpdate      *AutoUpdate        `json:"auto_update,omitempty" yaml:"auto_update,omitempty"`
}

// OrphanRecord is a package no longer needed by anything else.
type OrphanRecord struct {
	Name string `json:"name" yaml:"name"`
}

// AutoremoveRecord is a package dnf autoremove would remove.
type AutoremoveRecord struct {
	Name string `json:"name" yaml:"name"`
}

// OrphanMetrics is the orphans collector result.
type OrphanMetrics struct {
	OrphanedCount         int                `json:"orphaned_count" yaml:"orphaned_count"`
	OrphanedPackages      []OrphanRecord     `json:"orphaned_packages" yaml:"orphaned_packages"`
	AutoremovableCount    int                `json:"autoremovable_count" yaml:"autoremovable_count"`
	AutoremovablePackages []AutoremoveRecord `json:"autoremovable_packages" yaml:"autoremovable_packages"`
}

// CacheInfo is the cache collector result.
type CacheInfo struct {
	CacheDir       string  `json:"cache_dir" yaml:"cache_dir"`
	TotalSizeBytes int64   `json:"total_size_bytes" yaml:"total_size_bytes"`
	TotalSizeMB    float64 `json:"total_size_mb" yaml:"total_size_mb"`
	TotalSizeGB    float64 `json:"total_size_gb" yaml:"total_size_gb"`
	CacheSizeHuman string  `json:"cache_size_human,omitempty" yaml:"cache_size_human,omitempty"`
	CanClean       bool    `json:"can_clean" yaml:"can_clean"`
}

// DependencyIssue is a broken-dependency or verification finding.
type DependencyIssue struct {
	Issue  string `json:"issue" yaml:"issue"`
	Source string `json:"source" yaml:"source"`
}

// DuplicatePackage is one line of dnf repoquery --duplicates.
type DuplicatePackage struct {
	Package string `json:"package" yaml:"package"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// DependencyMetrics is the dependencies collector result.
type DependencyMetrics struct {
	BrokenDependencies int                `json:"broken_dependencies" yaml:"broken_dependencies"`
	BrokenList         []DependencyIssue  `json:"broken_list" yaml:"broken_list"`
	DuplicatePackages  int                `json:"duplicate_packages" yaml:"duplicate_packages"`
	DuplicateList      []DuplicatePackage `json:"duplicate_list" yaml:"duplicate_list"`
	HasIssues          bool               `json:"has_issues" yaml:"has_issues"`
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// BytesToMB converts bytes to megabytes rounded to two decimals.
func BytesToMB(b int64) float64 {
	return RoundTo(float64(b)/(1<<20), 2)
}

// BytesToGB converts bytes to gigabytes rounded to two decimals.
func BytesToGB(b int64) float64 {
	return RoundTo(float64(b)/(1<<30), 2)
}
