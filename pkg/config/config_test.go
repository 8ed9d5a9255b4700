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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/pkg-analyzer/pkg/defaults"
	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, defaults.CacheDir, cfg.Paths.CacheDir)
	assert.Equal(t, defaults.RepoQueryTimeout, cfg.Timeouts.RepoQuery.Std())
	assert.Equal(t, 30, cfg.Limits.UpdatesList)
	assert.Equal(t, 10, cfg.Thresholds.Orphans)
	assert.InDelta(t, 100.0, cfg.Thresholds.CacheCleanMB, 0)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "dnf-automatic.timer", cfg.AutoUpdateUnit)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesOnlyGivenKeys(t *testing.T) {
	path := writeFile(t, "c.yaml", `
paths:
  output_dir: /tmp/raw
timeouts:
  repoquery: 90s
limits:
  package_details: 0
ai:
  provider: openai
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/raw", cfg.Paths.OutputDir)
	assert.Equal(t, Default().Paths.HTMLDir, cfg.Paths.HTMLDir)
	assert.Equal(t, 90*time.Second, cfg.Timeouts.RepoQuery.Std())
	assert.Equal(t, defaults.VerifyTimeout, cfg.Timeouts.Verify.Std())
	assert.Equal(t, 0, cfg.Limits.PackageDetails)
	assert.Equal(t, defaults.UpdatesListLimit, cfg.Limits.UpdatesList)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, defaults.OpenAIModel, cfg.AI.ModelName())
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "c.json", `{"thresholds":{"orphans":3},"timeouts":{"info":"2s"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Thresholds.Orphans)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Info.Std())
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "c.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml syntax", "c.yaml", "paths: [unterminated"},
		{"bad duration", "c.yaml", "timeouts:\n  query: soon\n"},
		{"json syntax", "c.json", "{"},
		{"json unknown nested key", "c.json", `{"limits":{"updates_lst":5}}`},
		{"yaml unknown key", "c.yaml", "limits:\n  updates_lst: 5\n"},
		{"yaml unknown section", "c.yaml", "path:\n  output_dir: /x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative timeout", func(c *Config) { c.Timeouts.Verify = -1 }, "timeouts.verify"},
		{"negative limit", func(c *Config) { c.Limits.OrphanList = -1 }, "limits.orphan_list"},
		{"negative orphan threshold", func(c *Config) { c.Thresholds.Orphans = -5 }, "thresholds.orphans"},
		{"negative cache threshold", func(c *Config) { c.Thresholds.CacheCleanMB = -1 }, "cache_clean_mb"},
		{"unknown provider", func(c *Config) { c.AI.Provider = "llama" }, "ai.provider"},
		{"zero caps allowed", func(c *Config) { c.Limits.PackageDetails = 0 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDuration_JSON(t *testing.T) {
	d := Duration(1500 * time.Millisecond)
	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1.5s"`, string(b))

	var got Duration
	require.NoError(t, got.UnmarshalJSON([]byte(`"2m"`)))
	assert.Equal(t, 2*time.Minute, got.Std())

	require.NoError(t, got.UnmarshalJSON([]byte(`1000`)))
	assert.Equal(t, time.Microsecond, got.Std())

	assert.Error(t, got.UnmarshalJSON([]byte(`true`)))
}

func TestAI_ModelName(t *testing.T) {
	assert.Equal(t, defaults.GeminiModel, AI{Provider: ProviderGemini}.ModelName())
	assert.Equal(t, "custom", AI{Provider: ProviderGemini, Model: "custom"}.ModelName())
}

func TestLoad_LegacyOutputDir(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.json", `{"output_dir":"/srv/reports"}`))
	require.NoError(t, err)
	assert.Equal(t, "/srv/reports", cfg.Paths.OutputDir)
	assert.Empty(t, cfg.LegacyOutputDir)

	cfg, err = Load(writeFile(t, "c.yaml", "output_dir: /legacy\npaths:\n  output_dir: /explicit\n"))
	require.NoError(t, err)
	assert.Equal(t, "/explicit", cfg.Paths.OutputDir)

	_, err = Load(writeFile(t, "config.json", `{"output_dir":"/srv/reports","limits":{"updates_lst":5}}`))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
}

func TestDefault_PathsUnderDataDir(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	cfg := Default()
	base := filepath.Join(data, defaults.DataDirName)
	assert.Equal(t, base, DataDir())
	assert.Equal(t, filepath.Join(base, "reports", "raw"), cfg.Paths.OutputDir)
	assert.Equal(t, filepath.Join(base, "reports", "html"), cfg.Paths.HTMLDir)
	assert.Equal(t, filepath.Join(base, "reports", "history.sqlite"), cfg.Paths.HistoryDB)
	assert.Equal(t, defaults.CacheDir, cfg.Paths.CacheDir)
}

func TestDataDir_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".local", "share", defaults.DataDirName), DataDir())
}
