// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata on one line.
func String() string {
	return fmt.Sprintf("osclient %s (commit %s, built %s)", Version, Commit, Date)
}

// UserAgent is the default User-Agent sent by the CLI.
func UserAgent() string {
	return "osclient/" + Version
}
