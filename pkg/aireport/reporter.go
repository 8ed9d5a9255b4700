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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/defaults"
	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
	"github.com/NVIDIA/pkg-analyzer/pkg/store"
)

const htmlExt = ".html"

// Reporter renders the newest stored report as HTML.
type Reporter struct {
	// Store locates the input report.
	Store *store.Store
	// HTMLDir receives the rendered page.
	HTMLDir string
	// TemplatePath overrides DefaultTemplate when set.
	TemplatePath string
	Generator    Generator
	// Clock names the output file. If nil, time.Now is used.
	Clock func() time.Time
	// Runner launches the browser when Open is set.
	Runner command.Runner
	Open   bool
}

// Run generates the HTML report and returns its path.
func (r *Reporter) Run(ctx context.Context) (string, error) {
	if r.Store == nil || r.Generator == nil {
		return "", errors.New(errors.ErrCodeInvalidRequest, "reporter is missing a store or generator")
	}

	// The template is read before the model is called so a bad path fails fast.
	tmpl, err := r.template()
	if err != nil {
		return "", err
	}

	src, err := r.Store.Latest()
	if err != nil {
		return "", err
	}
	slog.Info("loading report", "path", src)

	rep, err := store.Load(src)
	if err != nil {
		return "", err
	}

	prompt, err := BuildPrompt(rep)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to build prompt", err)
	}

	answer, err := r.Generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	analysis, err := ParseAnalysis(answer)
	if err != nil {
		return "", err
	}

	page := Render(tmpl, analysis, rep)

	path, err := r.write(store.Stem(src), page)
	if err != nil {
		return "", err
	}
	slog.Info("html report saved", "path", path)

	if r.Open {
		r.open(ctx, path)
	}
	return path, nil
}

func (r *Reporter) template() (string, error) {
	if r.TemplatePath == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(r.TemplatePath)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to read template", err,
			map[string]any{"path": r.TemplatePath})
	}
	return string(data), nil
}

func (r *Reporter) write(stem, page string) (string, error) {
	if err := os.MkdirAll(r.HTMLDir, 0o755); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to create html directory", err,
			map[string]any{"dir": r.HTMLDir})
	}

	now := time.Now
	if r.Clock != nil {
		now = r.Clock
	}
	base := fmt.Sprintf("%s_report_%s", stem, now().Format(store.TimestampLayout))

	return store.WriteExclusive(r.HTMLDir, base, htmlExt, func(w io.Writer) error {
		_, err := io.WriteString(w, page)
		return err
	})
}

// open launches the desktop browser. Failures are logged only.
func (r *Reporter) open(ctx context.Context, path string) {
	runner := r.Runner
	if runner == nil {
		runner = command.NewExecRunner()
	}
	res, err := runner.Run(ctx, command.Spec{
		Name:    "xdg-open",
		Args:    []string{path},
		Timeout: defaults.InfoTimeout,
	})
	if err != nil {
		slog.Warn("failed to open browser", "path", path, "error", err)
		return
	}
	if !res.Success() {
		slog.Warn("browser launcher exited with error", "path", path, "exit_code", res.ExitCode)
	}
}
