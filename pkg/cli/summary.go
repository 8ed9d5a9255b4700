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

package cli

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/NVIDIA/pkg-analyzer/pkg/report"
)

// printSummary writes a short human readable roll-up of rep. Numbers use
// digit grouping; at most maxIssues issues are listed.
func printSummary(w io.Writer, rep *report.Report, path string, maxIssues int) {
	p := message.NewPrinter(language.English)
	s := rep.Summary

	p.Fprintf(w, "Package analysis complete\n")
	p.Fprintf(w, "  Report:    %s\n", path)
	p.Fprintf(w, "  Packages:  %d\n", s.TotalPackages)
	p.Fprintf(w, "  Updates:   %d\n", s.TotalUpdates)
	p.Fprintf(w, "  Cache:     %.1f MB\n", s.CacheSizeMB)
	p.Fprintf(w, "  Issues:    %d\n", s.TotalIssues)

	if failed := failedSections(rep.Metrics); len(failed) > 0 {
		p.Fprintf(w, "\nCollectors with errors:\n")
		for _, f := range failed {
			p.Fprintf(w, "  - %s\n", f)
		}
	}

	if len(rep.Issues) == 0 || maxIssues <= 0 {
		return
	}
	p.Fprintf(w, "\nTop issues:\n")
	for i, issue := range rep.Issues {
		if i == maxIssues {
			p.Fprintf(w, "  ... and %d more\n", len(rep.Issues)-maxIssues)
			break
		}
		p.Fprintf(w, "  [%s] %s\n", issue.Severity, issue.Message)
	}
}

func failedSections(m report.Metrics) []string {
	var out []string
	add := func(name string, failed bool, msg string) {
		if failed {
			out = append(out, name+": "+msg)
		}
	}
	add("packages", m.Packages.Failed(), m.Packages.ErrorMessage())
	add("updates", m.Updates.Failed(), m.Updates.ErrorMessage())
	add("orphans", m.Orphans.Failed(), m.Orphans.ErrorMessage())
	add("cache", m.Cache.Failed(), m.Cache.ErrorMessage())
	add("dependencies", m.Dependencies.Failed(), m.Dependencies.ErrorMessage())
	return out
}
