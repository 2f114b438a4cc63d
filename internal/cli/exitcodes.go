package cli

import (
	"errors"

	"github.com/yaklabco/dashgram/internal/configloader"
	"github.com/yaklabco/dashgram/pkg/fsutil"
	"github.com/yaklabco/dashgram/pkg/grammar"
	"github.com/yaklabco/dashgram/pkg/runner"
)

// Exit codes for dashgram.
const (
	// ExitSuccess indicates every input parsed without problems.
	ExitSuccess = 0

	// ExitProblems indicates parsing completed but found syntax problems.
	ExitProblems = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrProblemsFound is returned when parsing found syntax problems.
	ErrProblemsFound = errors.New("syntax problems found")

	// ErrFilesFailed is returned when some inputs could not be read.
	ErrFilesFailed = errors.New("some files could not be processed")

	errUsage  = errors.New("invalid usage")
	errConfig = errors.New("failed to load configuration")
)

// ExitCodeFromResult determines the exit code of a check run.
func ExitCodeFromResult(result *runner.Result) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasErrors():
		return ExitIOError
	case result.HasFindings():
		return ExitProblems
	default:
		return ExitSuccess
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrProblemsFound):
		return ExitProblems
	case errors.Is(err, errUsage):
		return ExitInvalidUsage
	case errors.Is(err, errConfig), errors.Is(err, grammar.ErrCatalogInvalid), errors.As(err, &validation):
		return ExitConfigError
	case errors.Is(err, ErrFilesFailed),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsReported reports whether err only signals an outcome the command has
// already printed.
func IsReported(err error) bool {
	return errors.Is(err, ErrProblemsFound) || errors.Is(err, ErrFilesFailed)
}
