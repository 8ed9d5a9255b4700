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

// Package collector gathers package manager telemetry from dnf and rpm.
//
// # Overview
//
// Five collectors each produce one section of the report:
//
//   - packages: installed package counts, the largest packages, and
//     dnf info details for the top few
//   - updates: pending updates, security advisories, and the state of the
//     automatic update timer
//   - orphans: packages nothing depends on and packages autoremove would drop
//   - cache: size of the dnf cache directory
//   - dependencies: broken dependencies, rpm verification findings, and
//     duplicate installed versions
//
// # Core Interface
//
//	type Collector[T any] interface {
//	    Collect(ctx context.Context) (*T, error)
//	}
//
// A collector never fails because one of its commands failed. Missing
// binaries, timeouts and unexpected exit codes are logged and the affected
// fields keep their zero values. Collect returns an error only when ctx is
// canceled.
//
// # Factory Pattern
//
// The Factory interface abstracts collector creation so the analyzer can be
// tested without a package manager:
//
//	factory := collector.NewDefaultFactory(
//	    collector.WithRunner(command.NewStub().On("rpm -qa", "bash\n", 0)),
//	    collector.WithConfig(cfg),
//	)
//	m, err := factory.CreatePackagesCollector().Collect(ctx)
//
// Every command runs with the timeout of its class from config.Timeouts and
// list output is truncated to config.Limits.
package collector
