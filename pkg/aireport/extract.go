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

package aireport

import "strings"

// ExtractJSON strips markdown fences and surrounding prose from a model
// answer, returning the text between the first '{' and the last '}'.
// Text without braces is returned trimmed but otherwise unchanged.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)

	if i := strings.Index(s, "```json"); i >= 0 {
		start := i + len("```json")
		if end := strings.Index(s[start:], "```"); end > 0 {
			s = strings.TrimSpace(s[start : start+end])
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		start := i + len("```")
		if end := strings.LastIndex(s, "```"); end > start {
			s = strings.TrimSpace(s[start:end])
		}
	}

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first >= 0 && last > first {
		s = s[first : last+1]
	}
	return s
}
