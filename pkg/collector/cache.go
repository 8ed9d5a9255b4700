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
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

// CacheCollector measures the dnf cache directory.
type CacheCollector struct {
	Runner      command.Runner
	Timeouts    config.Timeouts
	Dir         string
	ThresholdMB float64
}

// Collect sums regular file sizes under Dir.
// It implements the Collector interface.
func (c *CacheCollector) Collect(ctx context.Context) (*report.CacheInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	slog.Info("analyzing dnf cache", "dir", c.Dir)

	total, err := dirSize(ctx, c.Dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Warn("failed to measure cache directory", "dir", c.Dir, "error", err)
	}

	res := &report.CacheInfo{
		CacheDir:       c.Dir,
		TotalSizeBytes: total,
		TotalSizeMB:    report.BytesToMB(total),
		TotalSizeGB:    report.BytesToGB(total),
	}
	res.CanClean = res.TotalSizeMB > c.ThresholdMB

	if c.Dir != "" {
		if out := run(ctx, c.Runner, c.Timeouts.Info, "du", "-sh", c.Dir); out.Success() {
			if fields := strings.Fields(out.Stdout); len(fields) > 0 {
				res.CacheSizeHuman = fields[0]
			}
		}
	}
	if res.CacheSizeHuman == "" {
		res.CacheSizeHuman = humanize.IBytes(uint64(total))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logDone("cache", start, "bytes", total)
	return res, nil
}

// dirSize walks root and sums regular file sizes. A missing root is zero;
// unreadable entries are skipped.
func dirSize(ctx context.Context, root string) (int64, error) {
	if root == "" {
		return 0, nil
	}
	if _, err := os.Stat(root); stderrors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	var total int64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total, err
}
