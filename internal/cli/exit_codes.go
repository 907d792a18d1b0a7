package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/obsoletenerd/changeblogger/internal/errors"
)

// Exit codes for the changeblogger CLI
const (
	// ExitSuccess covers a written entry and a declined confirmation
	ExitSuccess = 0

	// ExitFailure is any error without a more specific code
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid flags or arguments
	ExitInvalidArguments = 3

	// ExitMissingPrerequisite indicates no repository, nothing staged, or no API key
	ExitMissingPrerequisite = 4

	// ExitServiceError indicates the summarization service failed
	ExitServiceError = 5

	// ExitWriteFailed indicates the README could not be updated after preview
	ExitWriteFailed = 6
)

// ExitError carries an explicit process exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that exits with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return categoryExitCode(cliErr.Category)
	}
	return ExitFailure
}

func categoryExitCode(c clierrors.ErrorCategory) int {
	switch c {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Prerequisite:
		return ExitMissingPrerequisite
	case clierrors.Service:
		return ExitServiceError
	case clierrors.Write:
		return ExitWriteFailed
	default:
		return ExitFailure
	}
}
