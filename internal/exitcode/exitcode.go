package exitcode

import (
	"os"

	"github.com/rigup-dev/rigup/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates a malformed manifest or plan document
	ValidationError = 3

	// DriverUnavailable indicates no package driver qualified for this host
	DriverUnavailable = 4

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error's taxonomy code onto an exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.CodeOf(err) {
	case errors.CodeDriverUnavailable:
		return DriverUnavailable
	case errors.CodeManifestNotFound,
		errors.CodeMissingVersion,
		errors.CodeInvalidVersionType,
		errors.CodeUnsupportedVersion,
		errors.CodeMissingApps,
		errors.CodeInvalidAppsType,
		errors.CodeInvalidAppEntry,
		errors.CodeManifestInvalid,
		errors.CodeSchemaIncompatible,
		errors.CodeParseError:
		return ValidationError
	default:
		return GeneralError
	}
}

// Describe returns a human-readable description of an exit code
func Describe(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ValidationError:
		return "Validation error (malformed manifest or plan)"
	case DriverUnavailable:
		return "No package driver available"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
