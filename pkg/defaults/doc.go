// Package defaults centralizes timeout ceilings, output caps and thresholds
// used across pkg-analyzer.
//
// Every value here is the default for a field of config.Config, so each one
// can be overridden from the configuration file without a rebuild.
//
// # Timeout Categories
//
//   - Query timeouts: single-package lookups (rpm -q, dnf info)
//   - Listing timeouts: full database listings (rpm -qa, dnf list installed)
//   - Repository timeouts: commands that may refresh repository metadata
//   - Verification timeouts: rpm -Va, which reads every installed header
//   - HTTP client timeouts: AI generation requests
//
// # Usage
//
//	import "github.com/NVIDIA/pkg-analyzer/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.RepoQueryTimeout)
//	defer cancel()
package defaults
