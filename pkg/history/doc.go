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

// Package history records analyze runs for later comparison.
//
// A Recorder receives every saved report together with the session id the
// caller supplied. SQLiteRecorder keeps one row per run in a local SQLite
// database:
//
//	rec, err := history.OpenSQLite(ctx, "reports/history.sqlite")
//	if err != nil { ... }
//	defer rec.Close()
//	err = rec.Record(ctx, "nightly", rep, path)
//
// Recording is best effort. Callers log a failure and carry on; a broken
// history database never fails an analyze run.
package history
