// SPDX-License-Identifier: MIT

// Package version holds build metadata injected via ldflags.
package version

import "fmt"

var (
	// Version is the application version, set with -ldflags at build time.
	Version = "v0.1.0-dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the build metadata for -version output.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
