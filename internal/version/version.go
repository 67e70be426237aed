// Package version holds strindex build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/kailas-cloud/strindex/internal/version.Version=v1.2.0"
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for humans.
func String() string {
	return fmt.Sprintf("strindex %s (commit %s, built %s)", Version, Commit, Date)
}

// Short returns Version with Commit appended for development builds.
func Short() string {
	if Version == "dev" && Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}
