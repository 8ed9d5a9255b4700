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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/pkg-analyzer/pkg/aireport"
	"github.com/NVIDIA/pkg-analyzer/pkg/command"
	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/store"
)

type reportOptions struct {
	open bool
}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Render the newest JSON report as HTML using a generative AI model",
		Description: `Loads the newest packages_*.json from the reports directory, asks the
configured model for an interpretive analysis and fills the HTML template with
the answer. The page is saved as <report>_report_<YYYYMMDD_HHMMSS>.html.

The API key is read from GEMINI_API_KEY (provider gemini) or OPENAI_API_KEY
(provider openai). A missing key, an unreadable template or an answer that is
not valid JSON for the analysis schema fails the command.

# Examples

Render with the default Gemini model and open the page:
  GEMINI_API_KEY=... pkg-analyzer report --open

Use an OpenAI compatible endpoint and a custom template:
  OPENAI_API_KEY=... pkg-analyzer report --provider openai --model gpt-4o --template ./my.html`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "reports-dir",
				Aliases: []string{"r"},
				Usage:   "Directory holding packages_*.json reports",
				Sources: cli.EnvVars("PKG_ANALYZER_REPORTS_DIR"),
			},
			&cli.StringFlag{
				Name:    "html-dir",
				Usage:   "Directory for HTML reports",
				Sources: cli.EnvVars("PKG_ANALYZER_HTML_DIR"),
			},
			&cli.StringFlag{
				Name:    "template",
				Usage:   "HTML template overriding the built-in one",
				Sources: cli.EnvVars("PKG_ANALYZER_TEMPLATE"),
			},
			&cli.StringFlag{
				Name:    "provider",
				Usage:   "AI provider (gemini, openai)",
				Sources: cli.EnvVars("PKG_ANALYZER_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "model",
				Usage:   "Model name (default depends on the provider)",
				Sources: cli.EnvVars("PKG_ANALYZER_MODEL"),
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the HTML report with xdg-open",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := parseReportOptions(cmd, cfg)
			if err != nil {
				return err
			}
			gen, err := newGenerator(cfg, os.Getenv)
			if err != nil {
				return err
			}
			return runReport(ctx, cfg, opts, gen, os.Stdout)
		},
	}
}

// parseReportOptions applies flag overrides to cfg.
func parseReportOptions(cmd *cli.Command, cfg *config.Config) (reportOptions, error) {
	if cmd.IsSet("reports-dir") {
		cfg.Paths.OutputDir = cmd.String("reports-dir")
	}
	if cmd.IsSet("html-dir") {
		cfg.Paths.HTMLDir = cmd.String("html-dir")
	}
	if cmd.IsSet("template") {
		cfg.Paths.Template = cmd.String("template")
	}
	if cmd.IsSet("provider") {
		cfg.AI.Provider = config.Provider(cmd.String("provider"))
	}
	if cmd.IsSet("model") {
		cfg.AI.Model = cmd.String("model")
	}
	if err := cfg.Validate(); err != nil {
		return reportOptions{}, err
	}
	return reportOptions{open: cmd.Bool("open")}, nil
}

// newGenerator builds the AI client, reading the provider API key through
// getenv. A missing key is an error.
func newGenerator(cfg *config.Config, getenv func(string) string) (aireport.Generator, error) {
	env := aireport.APIKeyEnv(cfg.AI.Provider)
	gen, err := aireport.NewGenerator(cfg.AI, getenv(env), cfg.Timeouts.Generate.Std())
	if err != nil {
		return nil, fmt.Errorf("cannot create %s client (set %s): %w", cfg.AI.Provider, env, err)
	}
	return gen, nil
}

func runReport(ctx context.Context, cfg *config.Config, opts reportOptions, gen aireport.Generator, out io.Writer) error {
	r := &aireport.Reporter{
		Store:        store.New(cfg.Paths.OutputDir),
		HTMLDir:      cfg.Paths.HTMLDir,
		TemplatePath: cfg.Paths.Template,
		Generator:    gen,
		Runner:       command.NewExecRunner(),
		Open:         opts.open,
	}
	path, err := r.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate HTML report: %w", err)
	}
	fmt.Fprintf(out, "HTML report saved to %s\n", path)
	return nil
}
