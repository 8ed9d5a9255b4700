// Package report defines the JSON document produced by one analyze run.
//
// A Report holds one Section per collector. A Section marshals either as the
// collector's metrics object or, when the collector failed, as
//
//	{"error": "<message>"}
//
// so consumers always find the five keys under "metrics": packages, updates,
// orphans, cache and dependencies.
package report
