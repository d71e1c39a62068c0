package cli

import "github.com/raveheart1/shiplog/internal/errors"

// Exit codes for the shiplog CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a generic runtime failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 2

	// ExitConfiguration indicates missing or invalid configuration,
	// including an unresolvable remote
	ExitConfiguration = 3

	// ExitHistory indicates the repository history could not be scanned
	// (no release tag, unparseable merge commit)
	ExitHistory = 4

	// ExitNoChanges indicates no pull request metadata survived the fetch
	ExitNoChanges = 5
)

// ExitCodeFor maps an error to its process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	cliErr := errors.AsCLIError(err)
	if cliErr == nil {
		return ExitFailure
	}

	switch cliErr.Category {
	case errors.Argument:
		return ExitInvalidArguments
	case errors.Configuration:
		return ExitConfiguration
	case errors.History:
		return ExitHistory
	case errors.Fetch:
		return ExitNoChanges
	default:
		return ExitFailure
	}
}
