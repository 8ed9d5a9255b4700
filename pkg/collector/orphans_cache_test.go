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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
)

const autoremoveOutput = `Dependencies resolved.
================================================================================
 Package              Arch        Version              Repository         Size
================================================================================
Removing:
 libfoo               x86_64      1.2-3.fc39           @fedora            120 k
 python3-bar          noarch      0.4-1.fc39           @updates            45 k
Removing dependent packages:
 baz                  x86_64      2.0-1.fc39           @fedora            10 k
Installing weak dependencies:
 qux                  x86_64      1.0-1.fc39           fedora             1 k

Transaction Summary
================================================================================
Remove  3 Packages

Operation aborted.
`

func TestParseAutoremove(t *testing.T) {
	got := parseAutoremove(autoremoveOutput)
	assert.Equal(t, []string{"libfoo", "python3-bar", "baz", "qux"}, got)
}

func TestParseAutoremove_NothingToDo(t *testing.T) {
	assert.Empty(t, parseAutoremove("Dependencies resolved.\nNothing to do.\nComplete!\n"))
}

func TestOrphansCollector_Collect(t *testing.T) {
	stub := command.NewStub().
		On("dnf repoquery --unneeded", "libfoo-0:1.2-3.fc39.x86_64\npython3-bar-0:0.4-1.fc39.noarch\n", 0).
		On("dnf autoremove --assumeno", autoremoveOutput, 1)

	f := newTestFactory(stub, func(c *config.Config) {
		c.Limits.AutoremoveList = 2
	})
	m, err := f.CreateOrphansCollector().Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, m.OrphanedCount)
	require.Len(t, m.OrphanedPackages, 2)
	assert.Equal(t, "libfoo-0:1.2-3.fc39", m.OrphanedPackages[0].Name)
	assert.Equal(t, 4, m.AutoremovableCount)
	assert.Len(t, m.AutoremovablePackages, 2)
	assert.Equal(t, "libfoo", m.AutoremovablePackages[0].Name)
}

func TestOrphansCollector_RepoqueryFailure(t *testing.T) {
	stub := command.NewStub().On("dnf repoquery --unneeded", "garbage\n", 1)

	m, err := newTestFactory(stub).CreateOrphansCollector().Collect(context.Background())
	require.NoError(t, err)
	assert.Zero(t, m.OrphanedCount)
	assert.NotNil(t, m.OrphanedPackages)
}

func TestCacheCollector_Collect(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fedora", "packages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fedora", "packages", "a.rpm"), make([]byte, 2<<20), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.solv"), make([]byte, 1024), 0o600))

	stub := command.NewStub().On("du -sh "+dir, "2.1M\t"+dir+"\n", 0)
	c := &CacheCollector{
		Runner:      stub,
		Timeouts:    config.Default().Timeouts,
		Dir:         dir,
		ThresholdMB: 1,
	}

	info, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dir, info.CacheDir)
	assert.Equal(t, int64(2<<20+1024), info.TotalSizeBytes)
	assert.InDelta(t, 2.0, info.TotalSizeMB, 0)
	assert.InDelta(t, 0.0, info.TotalSizeGB, 0)
	assert.Equal(t, "2.1M", info.CacheSizeHuman)
	assert.True(t, info.CanClean)
}

func TestCacheCollector_BelowThreshold(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), make([]byte, 4096), 0o600))

	c := &CacheCollector{
		Runner:      command.NewStub(),
		Timeouts:    config.Default().Timeouts,
		Dir:         dir,
		ThresholdMB: 100,
	}
	info, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.False(t, info.CanClean)
	assert.Equal(t, "4.0 KiB", info.CacheSizeHuman)
}

func TestCacheCollector_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")
	c := &CacheCollector{
		Runner:      command.NewStub(),
		Timeouts:    config.Default().Timeouts,
		Dir:         dir,
		ThresholdMB: 100,
	}
	info, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Zero(t, info.TotalSizeBytes)
	assert.Equal(t, "0 B", info.CacheSizeHuman)
	assert.False(t, info.CanClean)
}
