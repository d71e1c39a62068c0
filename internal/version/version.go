// Package version holds the shiplog version information.
// This is a separate package to avoid import cycles - it has no dependencies
// and can be safely imported from any package.
package version

import "fmt"

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// String returns the version label shown by --version. Dev builds carry the
// commit hash so a binary built from an arbitrary checkout is identifiable.
func String() string {
	if IsDevBuild() {
		return fmt.Sprintf("%s (commit %s)", Version, Commit)
	}
	return Version
}
