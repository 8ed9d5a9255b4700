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

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

const promptHeader = `You are an expert in Linux package management on Fedora and RHEL family systems (DNF/RPM).

Analyze the package report below and write an interpretive, human friendly analysis as JSON.

SYSTEM DATA:
` + "```json\n"

const promptBody = "\n```" + `

Return a JSON object used to fill an HTML template.

JSON STRUCTURE:

{
    "executive_summary": "2-3 paragraphs describing the overall state of the packages. How many packages? Is the system clean or cluttered? Are updates pending? Use clear language.",

    "metric_cards": [
        {
            "icon": "emoji",
            "label": "Metric name",
            "value": "Value",
            "subtext": "Supporting text"
        }
    ],

    "packages_analysis": "Interpret the installed packages. Explain the count, the total size and the largest packages. Is it normal? Is it a lot? Give context.",

    "updates_analysis": "Analyze the available updates. How many? Are security updates urgent? What should be done?",

    "orphans_analysis": "Analyze orphaned packages. What are they? Is removing them worthwhile? How?",

    "cache_analysis": "Analyze the DNF cache. Is the size fine? Does it need cleaning? When should it be cleaned?",

    "dependencies_analysis": "Analyze dependencies. Are there problems? Duplicate packages? How can they be fixed?",

    "recommendations": [
        {
            "priority": "high, medium or low",
            "title": "Recommendation title",
            "description": "Explanation",
            "commands": ["command1"] or null
        }
    ],

    "conclusion": "1-2 paragraphs summarizing the state of the package system and the next steps"
}

RULES:

- INTERPRET, do not just list numbers
- EXPLAIN and give context to every metric
- Use accessible language
- Be practical and use real DNF commands
- Use analogies when they help
- Sections that failed to collect contain {"error": "..."}; mention them instead of guessing

EXAMPLES:

WRONG: "2450 packages installed"
RIGHT: "You have 2,450 packages installed using 15GB. That is normal for a Fedora Workstation with a full desktop and development tools."

WRONG: "23 updates available"
RIGHT: "There are 23 updates available, including 5 security updates. Update soon with 'sudo dnf update'."

WRONG: "150 orphaned packages"
RIGHT: "150 orphaned packages were found (installed as dependencies but no longer needed). Removing them with 'sudo dnf autoremove' could free about 500MB."

Return ONLY valid JSON, without markdown.`

// BuildPrompt returns the analysis prompt for rep.
func BuildPrompt(rep *report.Report) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("report is nil")
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	var b strings.Builder
	b.Grow(len(promptHeader) + len(data) + len(promptBody))
	b.WriteString(promptHeader)
	b.Write(data)
	b.WriteString(promptBody)
	return b.String(), nil
}
