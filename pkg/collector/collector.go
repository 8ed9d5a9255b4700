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
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

// Collector gathers one section of the report.
type Collector[T any] interface {
	Collect(ctx context.Context) (*T, error)
}

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreatePackagesCollector() Collector[report.PackageMetrics]
	CreateUpdatesCollector() Collector[report.UpdateMetrics]
	CreateOrphansCollector() Collector[report.OrphanMetrics]
	CreateCacheCollector() Collector[report.CacheInfo]
	CreateDependenciesCollector() Collector[report.DependencyMetrics]
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	Runner command.Runner
	Config *config.Config
	Units  UnitStater
}

// Option configures a DefaultFactory.
type Option func(*DefaultFactory)

// WithRunner sets the command runner.
func WithRunner(r command.Runner) Option {
	return func(f *DefaultFactory) {
		f.Runner = r
	}
}

// WithConfig sets timeouts, limits and paths.
func WithConfig(cfg *config.Config) Option {
	return func(f *DefaultFactory) {
		f.Config = cfg
	}
}

// WithUnitStater sets the systemd unit state source.
func WithUnitStater(u UnitStater) Option {
	return func(f *DefaultFactory) {
		f.Units = u
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) *DefaultFactory {
	f := &DefaultFactory{}
	for _, opt := range opts {
		opt(f)
	}
	if f.Runner == nil {
		f.Runner = command.NewExecRunner()
	}
	if f.Config == nil {
		f.Config = config.Default()
	}
	if f.Units == nil {
		f.Units = &SystemdUnitStater{Timeout: f.Config.Timeouts.Query.Std()}
	}
	return f
}

// CreatePackagesCollector creates a packages collector.
func (f *DefaultFactory) CreatePackagesCollector() Collector[report.PackageMetrics] {
	return &PackagesCollector{
		Runner:   f.Runner,
		Timeouts: f.Config.Timeouts,
		Limits:   f.Config.Limits,
	}
}

// CreateUpdatesCollector creates an updates collector.
func (f *DefaultFactory) CreateUpdatesCollector() Collector[report.UpdateMetrics] {
	return &UpdatesCollector{
		Runner:         f.Runner,
		Timeouts:       f.Config.Timeouts,
		Limits:         f.Config.Limits,
		Units:          f.Units,
		AutoUpdateUnit: f.Config.AutoUpdateUnit,
	}
}

// CreateOrphansCollector creates an orphans collector.
func (f *DefaultFactory) CreateOrphansCollector() Collector[report.OrphanMetrics] {
	return &OrphansCollector{
		Runner:   f.Runner,
		Timeouts: f.Config.Timeouts,
		Limits:   f.Config.Limits,
	}
}

// CreateCacheCollector creates a cache collector.
func (f *DefaultFactory) CreateCacheCollector() Collector[report.CacheInfo] {
	return &CacheCollector{
		Runner:      f.Runner,
		Timeouts:    f.Config.Timeouts,
		Dir:         f.Config.Paths.CacheDir,
		ThresholdMB: f.Config.Thresholds.CacheCleanMB,
	}
}

// CreateDependenciesCollector creates a dependencies collector.
func (f *DefaultFactory) CreateDependenciesCollector() Collector[report.DependencyMetrics] {
	return &DependenciesCollector{
		Runner:   f.Runner,
		Timeouts: f.Config.Timeouts,
		Limits:   f.Config.Limits,
	}
}

// run executes one command and logs failures. It returns nil when the
// command could not run; a non-zero exit still yields a Result.
func run(ctx context.Context, r command.Runner, timeout config.Duration, name string, args ...string) *command.Result {
	spec := command.Spec{Name: name, Args: args, Timeout: timeout.Std()}
	res, err := r.Run(ctx, spec)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("command failed", "command", spec.String(), "code", errors.CodeOf(err), "error", err)
		}
		return nil
	}
	return res
}

// stripArch removes the trailing .arch from a name.arch token.
func stripArch(s string) string {
	if i := strings.LastIndexByte(s, '.'); i > 0 {
		return s[:i]
	}
	return s
}

// head returns at most n leading elements, never nil.
func head[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		s = s[:n]
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func logDone(name string, start time.Time, attrs ...any) {
	slog.Debug("collector finished", append([]any{"collector", name, "duration", time.Since(start).String()}, attrs...)...)
}
