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
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/pkg-analyzer/pkg/collector"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

// Analyzer collects package metrics from the current host.
type Analyzer struct {
	// Factory creates the collectors. If nil, the default factory is used.
	Factory collector.Factory

	// Config supplies thresholds. If nil, config.Default() is used.
	Config *config.Config

	// Version is stamped into the report.
	Version string

	// SessionID is attached to the report when set.
	SessionID string

	// Clock returns the report timestamp. If nil, time.Now is used.
	Clock func() time.Time

	// Hostname returns the host name. If nil, os.Hostname is used.
	Hostname func() (string, error)
}

// Analyze runs every collector and returns the assembled report. The error
// is non-nil only when ctx is canceled.
func (a *Analyzer) Analyze(ctx context.Context) (*report.Report, error) {
	if a.Config == nil {
		a.Config = config.Default()
	}
	if a.Factory == nil {
		a.Factory = collector.NewDefaultFactory(collector.WithConfig(a.Config))
	}
	clock := a.Clock
	if clock == nil {
		clock = time.Now
	}

	slog.Debug("starting package analysis")
	start := time.Now()
	defer func() {
		analysisDuration.Observe(time.Since(start).Seconds())
	}()

	now := clock()
	rep := &report.Report{
		RunID:         uuid.NewString(),
		Timestamp:     now,
		TimestampUnix: now.Unix(),
		Hostname:      a.hostname(),
		Version:       a.Version,
		SessionID:     a.SessionID,
	}

	var err error
	if rep.Metrics.Packages, err = runIsolated(ctx, "packages", a.Factory.CreatePackagesCollector); err != nil {
		return nil, a.aborted(err)
	}
	if rep.Metrics.Updates, err = runIsolated(ctx, "updates", a.Factory.CreateUpdatesCollector); err != nil {
		return nil, a.aborted(err)
	}
	if rep.Metrics.Orphans, err = runIsolated(ctx, "orphans", a.Factory.CreateOrphansCollector); err != nil {
		return nil, a.aborted(err)
	}
	if rep.Metrics.Cache, err = runIsolated(ctx, "cache", a.Factory.CreateCacheCollector); err != nil {
		return nil, a.aborted(err)
	}
	if rep.Metrics.Dependencies, err = runIsolated(ctx, "dependencies", a.Factory.CreateDependenciesCollector); err != nil {
		return nil, a.aborted(err)
	}

	rep.Issues = DeriveIssues(rep.Metrics, ThresholdsFrom(a.Config))
	rep.Summary = Summarize(rep.Metrics, rep.Issues)

	analysisTotal.WithLabelValues("success").Inc()
	recordIssues(rep.Issues)

	slog.Debug("package analysis complete",
		slog.Int("issues", len(rep.Issues)),
		slog.String("duration", time.Since(start).String()))

	return rep, nil
}

func (a *Analyzer) aborted(err error) error {
	analysisTotal.WithLabelValues("canceled").Inc()
	return err
}

func (a *Analyzer) hostname() string {
	fn := a.Hostname
	if fn == nil {
		fn = os.Hostname
	}
	name, err := fn()
	if err != nil {
		slog.Debug("hostname unavailable", "error", err)
		return ""
	}
	return name
}

// runIsolated creates and runs one collector. Errors and panics become an
// error section; only cancellation of ctx is returned as an error.
func runIsolated[T any](ctx context.Context, name string, create func() collector.Collector[T]) (sec report.Section[T], err error) {
	if err := ctx.Err(); err != nil {
		return sec, err
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("collector panicked", slog.String("collector", name), slog.Any("panic", r))
			sec = report.FromError[T](fmt.Errorf("collector panicked: %v", r))
			err = nil
		}
		collectorDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		switch {
		case err != nil:
			collectorTotal.WithLabelValues(name, "canceled").Inc()
		case sec.Failed():
			collectorTotal.WithLabelValues(name, "error").Inc()
		default:
			collectorTotal.WithLabelValues(name, "success").Inc()
		}
	}()

	slog.Debug("running collector", slog.String("collector", name))
	v, cerr := create().Collect(ctx)
	if cerr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sec, ctxErr
		}
		slog.Warn("collector failed", slog.String("collector", name), slog.String("error", cerr.Error()))
		return report.FromError[T](cerr), nil
	}
	if v == nil {
		return report.FromError[T](fmt.Errorf("%s collector returned no data", name)), nil
	}
	return report.Ok(v), nil
}
