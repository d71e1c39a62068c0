package errors

import "fmt"

// Common error messages for the shiplog CLI.
// These templates ensure consistent, actionable error messages.

// MissingVersionArgument creates an error for a missing release version argument.
func MissingVersionArgument() *CLIError {
	return NewArgumentErrorWithUsage(
		"release version is required",
		"shiplog <version>",
		"Provide the version label for the new changelog section",
		"Example: shiplog 1.4.0",
	)
}

// NoRemoteConfigured creates an error for a repository without a usable remote.
func NoRemoteConfigured() *CLIError {
	return NewConfigError(
		"no upstream or origin remote is configured",
		"Add a remote: git remote add origin git@github.com:<owner>/<repo>.git",
		"Or run shiplog from a clone that tracks a GitHub repository",
	)
}

// NoReleaseMarkerFound creates an error when no semver tag is reachable.
func NoReleaseMarkerFound() *CLIError {
	return NewHistoryError(
		"no release tag matching X.Y.Z found in history",
		"Tag the previous release first: git tag v1.0.0 <commit>",
		"Fetch tags from the remote: git fetch --tags",
	)
}

// MalformedMergeEvent creates an error for a merge commit without a change reference.
func MalformedMergeEvent(event string) *CLIError {
	return NewHistoryError(
		fmt.Sprintf("merge commit carries no pull request reference: %q", event),
		"Merge pull requests through the forge so messages contain #<number>",
		"Or adjust merge_phrase in .shiplog.yml to match your merge messages",
	)
}

// NoChangesCollected creates an error when every metadata fetch failed or
// no merges were found, leaving nothing to render.
func NoChangesCollected() *CLIError {
	return NewFetchError(
		"no pull request metadata could be collected for this release",
		"Check that GITHUB_TOKEN is set and has repo read access",
		"Verify merges exist since the last release tag: git log --merges",
	)
}

// MissingChangelogFile creates an error for a missing changelog document.
func MissingChangelogFile(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("changelog file not found at %s", path),
		"Create the file with a '# Title' line and a short description",
		"Or point changelog_path in .shiplog.yml at the right file",
	)
}
