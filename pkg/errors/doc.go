// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Collectors, the report store and the AI reporter all return
// StructuredError values so the CLI can decide between a per-collector
// placeholder, a fatal exit, or an interrupt exit.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "command exceeded its time limit",
//	    ctx.Err(),
//	    map[string]any{
//	        "command": "dnf check-update",
//	        "timeout": "60s",
//	    },
//	)
package errors
