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

package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/NVIDIA/pkg-analyzer/pkg/defaults"
	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
	"github.com/NVIDIA/pkg-analyzer/pkg/serializer"
)

// Provider names an AI text generation backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Config is the complete runtime configuration.
type Config struct {
	Paths      Paths      `json:"paths" yaml:"paths"`
	Timeouts   Timeouts   `json:"timeouts" yaml:"timeouts"`
	Limits     Limits     `json:"limits" yaml:"limits"`
	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`
	AI         AI         `json:"ai" yaml:"ai"`
	// AutoUpdateUnit is the systemd unit whose state is reported as auto_update.
	AutoUpdateUnit string `json:"auto_update_unit" yaml:"auto_update_unit"`

	// LegacyOutputDir is the top-level output_dir key of older config files.
	// Load moves it into Paths.OutputDir.
	LegacyOutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// Paths holds file system locations.
type Paths struct {
	CacheDir  string `json:"cache_dir" yaml:"cache_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	HTMLDir   string `json:"html_dir" yaml:"html_dir"`
	HistoryDB string `json:"history_db" yaml:"history_db"`
	Template  string `json:"template,omitempty" yaml:"template,omitempty"`
}

// Timeouts holds per command class ceilings.
type Timeouts struct {
	Query     Duration `json:"query" yaml:"query"`
	Info      Duration `json:"info" yaml:"info"`
	Count     Duration `json:"count" yaml:"count"`
	List      Duration `json:"list" yaml:"list"`
	RepoQuery Duration `json:"repoquery" yaml:"repoquery"`
	Verify    Duration `json:"verify" yaml:"verify"`
	Generate  Duration `json:"generate" yaml:"generate"`
	Analyze   Duration `json:"analyze" yaml:"analyze"`
}

// Limits holds list truncation caps.
type Limits struct {
	PackagesScan    int `json:"packages_scan" yaml:"packages_scan"`
	LargestPackages int `json:"largest_packages" yaml:"largest_packages"`
	PackagesSample  int `json:"packages_sample" yaml:"packages_sample"`
	PackageDetails  int `json:"package_details" yaml:"package_details"`
	UpdatesList     int `json:"updates_list" yaml:"updates_list"`
	SecurityList    int `json:"security_list" yaml:"security_list"`
	OrphanList      int `json:"orphan_list" yaml:"orphan_list"`
	AutoremoveList  int `json:"autoremove_list" yaml:"autoremove_list"`
	VerifyLines     int `json:"verify_lines" yaml:"verify_lines"`
	DependencyList  int `json:"dependency_list" yaml:"dependency_list"`
	SummaryIssues   int `json:"summary_issues" yaml:"summary_issues"`
}

// Thresholds holds issue derivation thresholds.
type Thresholds struct {
	Orphans      int     `json:"orphans" yaml:"orphans"`
	CacheCleanMB float64 `json:"cache_clean_mb" yaml:"cache_clean_mb"`
}

// AI configures the report generator.
type AI struct {
	Provider        Provider `json:"provider" yaml:"provider"`
	Model           string   `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL         string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Temperature     float64  `json:"temperature" yaml:"temperature"`
	TopP            float64  `json:"top_p" yaml:"top_p"`
	MaxOutputTokens int      `json:"max_output_tokens" yaml:"max_output_tokens"`
}

// ModelName returns the configured model or the provider default.
func (a AI) ModelName() string {
	if a.Model != "" {
		return a.Model
	}
	if a.Provider == ProviderOpenAI {
		return defaults.OpenAIModel
	}
	return defaults.GeminiModel
}

// DataDir returns the base directory for reports: $XDG_DATA_HOME/pkg-analyzer,
// else ~/.local/share/pkg-analyzer, else the working directory.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(d) {
		return filepath.Join(d, defaults.DataDirName)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "share", defaults.DataDirName)
	}
	return "."
}

// Default returns the built-in configuration. Report paths live under
// DataDir.
func Default() *Config {
	data := DataDir()
	return &Config{
		Paths: Paths{
			CacheDir:  defaults.CacheDir,
			OutputDir: filepath.Join(data, defaults.OutputDir),
			HTMLDir:   filepath.Join(data, defaults.HTMLDir),
			HistoryDB: filepath.Join(data, defaults.HistoryDB),
		},
		Timeouts: Timeouts{
			Query:     Duration(defaults.QueryTimeout),
			Info:      Duration(defaults.InfoTimeout),
			Count:     Duration(defaults.CountTimeout),
			List:      Duration(defaults.ListTimeout),
			RepoQuery: Duration(defaults.RepoQueryTimeout),
			Verify:    Duration(defaults.VerifyTimeout),
			Generate:  Duration(defaults.GenerateTimeout),
			Analyze:   Duration(defaults.CLIAnalyzeTimeout),
		},
		Limits: Limits{
			PackagesScan:    defaults.PackagesScanLimit,
			LargestPackages: defaults.LargestPackagesLimit,
			PackagesSample:  defaults.PackagesSampleLimit,
			PackageDetails:  defaults.PackageDetailsLimit,
			UpdatesList:     defaults.UpdatesListLimit,
			SecurityList:    defaults.SecurityListLimit,
			OrphanList:      defaults.OrphanListLimit,
			AutoremoveList:  defaults.AutoremoveListLimit,
			VerifyLines:     defaults.VerifyLinesLimit,
			DependencyList:  defaults.DependencyListLimit,
			SummaryIssues:   defaults.SummaryIssuesLimit,
		},
		Thresholds: Thresholds{
			Orphans:      defaults.OrphanThreshold,
			CacheCleanMB: defaults.CacheCleanThresholdMB,
		},
		AI: AI{
			Provider:        ProviderGemini,
			Temperature:     defaults.Temperature,
			TopP:            defaults.TopP,
			MaxOutputTokens: defaults.MaxOutputTokens,
		},
		AutoUpdateUnit: defaults.AutoUpdateUnit,
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults; a file that cannot be parsed or fails validation is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			slog.Warn("config file not found, using defaults", "path", path)
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read config file", err)
	}

	reader, err := serializer.NewFileReaderAuto(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to open config file", err)
	}
	defer reader.Close()

	if err := reader.Strict().Deserialize(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "malformed config file", err,
			map[string]any{"path": path})
	}

	if cfg.LegacyOutputDir != "" {
		// paths.output_dir wins when both are given.
		if cfg.Paths.OutputDir == Default().Paths.OutputDir {
			cfg.Paths.OutputDir = cfg.LegacyOutputDir
		}
		cfg.LegacyOutputDir = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("config loaded", "path", path)
	return cfg, nil
}

// Validate rejects negative caps, timeouts and thresholds, and unknown
// providers.
func (c *Config) Validate() error {
	var problems []string

	timeouts := map[string]Duration{
		"timeouts.query":     c.Timeouts.Query,
		"timeouts.info":      c.Timeouts.Info,
		"timeouts.count":     c.Timeouts.Count,
		"timeouts.list":      c.Timeouts.List,
		"timeouts.repoquery": c.Timeouts.RepoQuery,
		"timeouts.verify":    c.Timeouts.Verify,
		"timeouts.generate":  c.Timeouts.Generate,
		"timeouts.analyze":   c.Timeouts.Analyze,
	}
	for name, d := range timeouts {
		if d < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative", name))
		}
	}

	limits := map[string]int{
		"limits.packages_scan":    c.Limits.PackagesScan,
		"limits.largest_packages": c.Limits.LargestPackages,
		"limits.packages_sample":  c.Limits.PackagesSample,
		"limits.package_details":  c.Limits.PackageDetails,
		"limits.updates_list":     c.Limits.UpdatesList,
		"limits.security_list":    c.Limits.SecurityList,
		"limits.orphan_list":      c.Limits.OrphanList,
		"limits.autoremove_list":  c.Limits.AutoremoveList,
		"limits.verify_lines":     c.Limits.VerifyLines,
		"limits.dependency_list":  c.Limits.DependencyList,
		"limits.summary_issues":   c.Limits.SummaryIssues,
		"thresholds.orphans":      c.Thresholds.Orphans,
	}
	for name, v := range limits {
		if v < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative", name))
		}
	}

	if c.Thresholds.CacheCleanMB < 0 {
		problems = append(problems, "thresholds.cache_clean_mb must not be negative")
	}

	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		problems = append(problems, fmt.Sprintf("ai.provider %q is not supported", c.AI.Provider))
	}

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	return errors.NewWithContext(errors.ErrCodeInvalidRequest, "invalid configuration: "+strings.Join(problems, "; "),
		map[string]any{"problems": problems})
}
