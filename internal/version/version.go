// Package version holds build information set via -ldflags.
package version

import "fmt"

var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// Full returns the version with build metadata.
func Full() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}
