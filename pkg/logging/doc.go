// Package logging provides structured logging utilities for pkg-analyzer.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every command logs the same way: JSON to stderr, module and version
// attributes on every record, source location on debug records.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages, e.g. a failed package manager query
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
//	logging.SetDefaultStructuredLoggerWithLevel("pkg-analyzer", version, "debug")
//	slog.Info("collecting package metrics", "collector", "packages")
//
// The LOG_LEVEL environment variable is used when no explicit level is given:
//
//	LOG_LEVEL=debug pkg-analyzer analyze
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "WARN",
//	    "msg": "command failed",
//	    "module": "pkg-analyzer",
//	    "version": "v1.0.0",
//	    "command": "dnf check-update --quiet"
//	}
package logging
