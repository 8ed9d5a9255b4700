// Package cli implements the pkg-analyzer command-line interface.
//
// # Overview
//
// pkg-analyzer inspects the DNF/RPM package state of a Fedora or RHEL family
// host with read-only dnf, rpm and du invocations, saves the result as a
// timestamped JSON report and can turn the newest report into an HTML page
// written by a generative AI model.
//
// # Commands
//
// analyze - Collect package metrics and save a report:
//
//	pkg-analyzer analyze [--output-dir DIR] [--format json|yaml|table] [--session ID]
//
// Runs the packages, updates, orphans, cache and dependencies collectors in
// order, derives issues, writes packages_<YYYYMMDD_HHMMSS>.json to the output
// directory and prints a short summary. A failing collector is recorded as
// {"error": "..."} in its section and the run continues.
//
// report - Render the newest report as HTML:
//
//	pkg-analyzer report [--reports-dir DIR] [--html-dir DIR] [--provider gemini|openai] [--open]
//
// Sends the newest report to the configured model, validates the JSON answer
// and writes <report>_report_<YYYYMMDD_HHMMSS>.html.
//
// # Global Flags
//
//	--config      Configuration file, YAML or JSON (env PKG_ANALYZER_CONFIG)
//	--log-level   Log level: debug, info, warn, error (env LOG_LEVEL)
//
// # Environment Variables
//
//	GEMINI_API_KEY   API key for the gemini provider
//	OPENAI_API_KEY   API key for the openai provider
//	LOG_LEVEL        Logging verbosity
//
// # Exit Codes
//
//	0    Success
//	1    Error (bad configuration, missing API key, unusable AI answer, ...)
//	130  Interrupted by SIGINT or SIGTERM
package cli
