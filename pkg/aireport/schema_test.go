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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
)

const validAnswer = `{
  "executive_summary": "The system is healthy.\n\nA few updates are pending.",
  "metric_cards": [
    {"icon": "📦", "label": "Packages", "value": 2450, "subtext": "15 GB"},
    {"icon": "🔄", "label": "Updates", "value": "23", "subtext": "5 security"}
  ],
  "packages_analysis": "Normal for a workstation.",
  "recommendations": [
    {"priority": "high", "title": "Apply security updates", "description": "Run the upgrade.", "commands": ["sudo dnf upgrade --security"]},
    {"priority": "low", "title": "Clean cache", "commands": null}
  ],
  "conclusion": "Keep it up."
}`

func TestParseAnalysis_Valid(t *testing.T) {
	a, err := ParseAnalysis("```json\n" + validAnswer + "\n```")
	require.NoError(t, err)

	assert.Equal(t, "The system is healthy.\n\nA few updates are pending.", a.ExecutiveSummary)
	require.Len(t, a.MetricCards, 2)
	assert.Equal(t, CardValue("2450"), a.MetricCards[0].Value)
	assert.Equal(t, CardValue("23"), a.MetricCards[1].Value)
	require.Len(t, a.Recommendations, 2)
	assert.Equal(t, []string{"sudo dnf upgrade --security"}, a.Recommendations[0].Commands)
	assert.Nil(t, a.Recommendations[1].Commands)
	assert.Empty(t, a.CacheAnalysis)
}

func TestParseAnalysis_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"not json", "I could not analyze this report."},
		{"truncated", `{"executive_summary": "cut off`},
		{"array", `[{"executive_summary": "ok"}]`},
		{"summary not a string", `{"executive_summary": ["a"]}`},
		{"title not a string", `{"recommendations": [{"title": 3}]}`},
		{"wrong type", `{"executive_summary": "ok", "metric_cards": "none"}`},
		{"bad command", `{"executive_summary": "ok", "recommendations": [{"title": "x", "commands": [1]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAnalysis(tt.in)
			require.Error(t, err)
			assert.Nil(t, a)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest), "got %v", err)
		})
	}
}

func TestParseAnalysis_MissingFieldsAccepted(t *testing.T) {
	a, err := ParseAnalysis(`{"executive_summary": "", "recommendations": [{"priority": "high", "description": "d"}]}`)
	require.NoError(t, err)
	require.Len(t, a.Recommendations, 1)
	assert.Empty(t, a.Recommendations[0].Title)

	a, err = ParseAnalysis(`{"conclusion": "done"}`)
	require.NoError(t, err)
	assert.Empty(t, a.ExecutiveSummary)
}

func TestCardValue_Null(t *testing.T) {
	a, err := ParseAnalysis(`{"executive_summary": "ok", "metric_cards": [{"label": "x", "value": null}]}`)
	require.NoError(t, err)
	require.Len(t, a.MetricCards, 1)
	assert.Equal(t, CardValue(""), a.MetricCards[0].Value)
}
