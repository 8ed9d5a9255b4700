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

// Package serializer reads and writes reports and configuration in JSON,
// YAML, and a flattened table format.
//
// Writing:
//
//	w := serializer.NewWriter(serializer.FormatJSON, os.Stdout)
//	if err := w.Serialize(ctx, rep); err != nil {
//		return err
//	}
//
// JSON output is indented with two spaces and does not escape HTML
// characters, so package summaries and advisory text survive unchanged.
// Table output flattens the JSON view of a value into dotted keys, which
// keeps field names identical to the persisted report.
//
// Reading:
//
//	rep, err := serializer.FromFile[report.Report]("reports/raw/packages_20250101_120000.json")
//
// The format is detected from the file extension (.json, .yaml, .yml).
// Table format is write-only.
package serializer
