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
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://github.com/NVIDIA/pkg-analyzer/analysis.schema.json"

//go:embed analysis.schema.json
var analysisSchema []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Analysis is the model answer used to fill the HTML template.
type Analysis struct {
	ExecutiveSummary     string           `json:"executive_summary"`
	MetricCards          []MetricCard     `json:"metric_cards,omitempty"`
	PackagesAnalysis     string           `json:"packages_analysis,omitempty"`
	UpdatesAnalysis      string           `json:"updates_analysis,omitempty"`
	OrphansAnalysis      string           `json:"orphans_analysis,omitempty"`
	CacheAnalysis        string           `json:"cache_analysis,omitempty"`
	DependenciesAnalysis string           `json:"dependencies_analysis,omitempty"`
	Recommendations      []Recommendation `json:"recommendations,omitempty"`
	Conclusion           string           `json:"conclusion,omitempty"`
}

// MetricCard is a single headline figure.
type MetricCard struct {
	Icon    string    `json:"icon,omitempty"`
	Label   string    `json:"label,omitempty"`
	Value   CardValue `json:"value,omitempty"`
	Subtext string    `json:"subtext,omitempty"`
}

// Recommendation is an action item with optional shell commands.
type Recommendation struct {
	Priority    string   `json:"priority,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Commands    []string `json:"commands,omitempty"`
}

// CardValue accepts either a JSON string or a JSON number.
type CardValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *CardValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = CardValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("card value must be a string or number: %w", err)
	}
	*v = CardValue(n.String())
	return nil
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, bytes.NewReader(analysisSchema)); err != nil {
			compileErr = fmt.Errorf("failed to add analysis schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ParseAnalysis extracts the JSON object from a model answer, validates it
// against the analysis schema and decodes it.
func ParseAnalysis(text string) (*Analysis, error) {
	raw := ExtractJSON(text)
	if raw == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "empty AI response")
	}

	var doc any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "AI response is not valid JSON", err,
			map[string]any{"response": preview(raw)})
	}

	sch, err := schema()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to compile analysis schema", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "AI response does not match the analysis schema", err)
	}

	var a Analysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode AI response", err)
	}
	return &a, nil
}

func preview(s string) string {
	const limit = 500
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
