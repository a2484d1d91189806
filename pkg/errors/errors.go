// Package errors defines the CLI error taxonomy and exit codes for
// parcelwatch. Per-package fetch failures are never fatal to a batch;
// only datastore-level errors abort a command.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for scripting integration.
// These codes allow scripts to distinguish between different failure modes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitPartialFailure indicates some packages refreshed while others
	// failed. The datastore write for the successful packages committed.
	ExitPartialFailure = 1

	// ExitFailure indicates a fatal error: datastore I/O failure, corrupt
	// store, or a complete refresh failure.
	ExitFailure = 2

	// ExitConfigError indicates invalid configuration or arguments; the
	// command could not start.
	ExitConfigError = 3
)

// ExitError represents a command termination with a specific exit code.
//
// Fields:
//   - Code: Exit code (use the Exit* constants)
//   - Message: Human-readable error message
//   - Err: Underlying error that caused this exit, may be nil
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface.
//
// Returns the Message field if set, otherwise returns the underlying
// error's message, or a default message with the exit code.
func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and underlying error.
//
// Parameters:
//   - code: Exit code (use ExitSuccess, ExitPartialFailure, ExitFailure, ExitConfigError)
//   - err: Underlying error, may be nil
//
// Returns:
//   - *ExitError: New exit error
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// NewExitErrorf creates an ExitError with the given code and formatted message.
//
// Parameters:
//   - code: Exit code
//   - format: Printf-style format string
//   - args: Format arguments
//
// Returns:
//   - *ExitError: New exit error with formatted message
func NewExitErrorf(code int, format string, args ...interface{}) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// GetExitCode extracts the exit code from an error.
//
// If err is nil, returns ExitSuccess. If err is an ExitError, returns its
// code. A PartialSuccessError maps to ExitPartialFailure. Everything else
// returns ExitFailure.
//
// Parameters:
//   - err: The error to extract code from
//
// Returns:
//   - int: Exit code
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if _, ok := IsPartialSuccess(err); ok {
		return ExitPartialFailure
	}
	return ExitFailure
}

// PartialSuccessError indicates that some packages refreshed successfully
// while others failed. The command should exit with ExitPartialFailure.
//
// Fields:
//   - Succeeded: Count of packages that refreshed
//   - Failed: Count of packages that failed
//   - Errors: Slice of per-package errors from failed refreshes
type PartialSuccessError struct {
	Succeeded int
	Failed    int
	Errors    []error
}

// Error implements the error interface.
//
// Returns a summary message in the format "X succeeded, Y failed".
func (e *PartialSuccessError) Error() string {
	return fmt.Sprintf("%d succeeded, %d failed", e.Succeeded, e.Failed)
}

// NewPartialSuccessError creates a PartialSuccessError with the given
// counts and errors.
//
// Parameters:
//   - succeeded: Number of packages that refreshed
//   - failed: Number of packages that failed
//   - errs: Per-package errors from failed refreshes
//
// Returns:
//   - *PartialSuccessError: New partial success error
func NewPartialSuccessError(succeeded, failed int, errs []error) *PartialSuccessError {
	return &PartialSuccessError{Succeeded: succeeded, Failed: failed, Errors: errs}
}

// IsPartialSuccess checks if err is a PartialSuccessError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *PartialSuccessError: The PartialSuccessError if err is one, nil otherwise
//   - bool: true if err is a PartialSuccessError
func IsPartialSuccess(err error) (*PartialSuccessError, bool) {
	var pse *PartialSuccessError
	if errors.As(err, &pse) {
		return pse, true
	}
	return nil, false
}
