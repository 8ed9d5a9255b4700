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
	_ "embed"
	"html"
	"strings"
	"time"

	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

const notAvailable = "<p>N/A</p>"

// DefaultTemplate is the built-in HTML report template.
//
//go:embed template.html
var DefaultTemplate string

// Template placeholders.
const (
	PlaceholderTimestamp            = "{{TIMESTAMP}}"
	PlaceholderMetricsCards         = "{{METRICS_CARDS}}"
	PlaceholderExecutiveSummary     = "{{EXECUTIVE_SUMMARY}}"
	PlaceholderPackagesAnalysis     = "{{PACKAGES_ANALYSIS}}"
	PlaceholderUpdatesAnalysis      = "{{UPDATES_ANALYSIS}}"
	PlaceholderOrphansAnalysis      = "{{ORPHANS_ANALYSIS}}"
	PlaceholderCacheAnalysis        = "{{CACHE_ANALYSIS}}"
	PlaceholderDependenciesAnalysis = "{{DEPENDENCIES_ANALYSIS}}"
	PlaceholderRecommendations      = "{{RECOMMENDATIONS}}"
	PlaceholderConclusion           = "{{CONCLUSION}}"
)

// Render fills the placeholders of tmpl. All model text is escaped; the
// substitution is a single pass so model text containing a placeholder is
// left as is.
func Render(tmpl string, a *Analysis, rep *report.Report) string {
	if a == nil {
		a = &Analysis{}
	}

	ts := "N/A"
	if rep != nil && !rep.Timestamp.IsZero() {
		ts = rep.Timestamp.Format(time.RFC3339)
	}

	r := strings.NewReplacer(
		PlaceholderTimestamp, html.EscapeString(ts),
		PlaceholderMetricsCards, renderCards(a.MetricCards),
		PlaceholderExecutiveSummary, paragraphs(a.ExecutiveSummary),
		PlaceholderPackagesAnalysis, paragraphs(a.PackagesAnalysis),
		PlaceholderUpdatesAnalysis, paragraphs(a.UpdatesAnalysis),
		PlaceholderOrphansAnalysis, paragraphs(a.OrphansAnalysis),
		PlaceholderCacheAnalysis, paragraphs(a.CacheAnalysis),
		PlaceholderDependenciesAnalysis, paragraphs(a.DependenciesAnalysis),
		PlaceholderRecommendations, renderRecommendations(a.Recommendations),
		PlaceholderConclusion, paragraphs(a.Conclusion),
	)
	return r.Replace(tmpl)
}

// paragraphs escapes text and wraps each blank-line separated block in <p>.
func paragraphs(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return notAvailable
	}

	var b strings.Builder
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(block), "\n", "<br>\n"))
		b.WriteString("</p>\n")
	}
	return b.String()
}

func renderCards(cards []MetricCard) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(`<div class="metric-card">` + "\n")
		b.WriteString(`  <div class="icon">` + html.EscapeString(orDefault(c.Icon, "📊")) + "</div>\n")
		b.WriteString(`  <div class="label">` + html.EscapeString(orDefault(c.Label, "Metric")) + "</div>\n")
		b.WriteString(`  <div class="value">` + html.EscapeString(orDefault(string(c.Value), "N/A")) + "</div>\n")
		b.WriteString(`  <div class="subtext">` + html.EscapeString(c.Subtext) + "</div>\n")
		b.WriteString("</div>\n")
	}
	return b.String()
}

func renderRecommendations(recs []Recommendation) string {
	var b strings.Builder
	b.WriteString(`<ul class="recommendation-list">` + "\n")
	for _, r := range recs {
		b.WriteString(`<li class="priority-` + NormalizePriority(r.Priority) + `">` + "\n")
		b.WriteString("<strong>" + html.EscapeString(orDefault(r.Title, "Recommendation")) + "</strong><br>\n")
		if r.Description != "" {
			b.WriteString(html.EscapeString(r.Description) + "<br>\n")
		}
		if len(r.Commands) > 0 {
			b.WriteString("<pre><code>")
			for _, cmd := range r.Commands {
				b.WriteString(html.EscapeString(cmd) + "\n")
			}
			b.WriteString("</code></pre>\n")
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>")
	return b.String()
}

// NormalizePriority maps a free-form priority to high, medium or low.
// Unrecognized values become medium.
func NormalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high", "critical", "urgent", "alta":
		return "high"
	case "low", "baixa":
		return "low"
	default:
		return "medium"
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
