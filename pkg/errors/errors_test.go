package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExitCodes tests the exit code constants.
//
// It verifies that:
//   - ExitSuccess equals 0
//   - ExitPartialFailure equals 1
//   - ExitFailure equals 2
//   - ExitConfigError equals 3
func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitPartialFailure)
	assert.Equal(t, 2, ExitFailure)
	assert.Equal(t, 3, ExitConfigError)
}

// TestExitError tests the ExitError struct and its methods.
//
// It verifies that:
//   - Error() returns the Message field when set
//   - Error() returns wrapped error message when Err is set
//   - Error() returns "exit code N" when neither is set
//   - Unwrap() returns the wrapped error
func TestExitError(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		err := &ExitError{Code: ExitFailure, Message: "test message"}
		assert.Equal(t, "test message", err.Error())
		assert.Equal(t, ExitFailure, err.Code)
	})

	t.Run("with wrapped error", func(t *testing.T) {
		innerErr := stderrors.New("inner error")
		err := &ExitError{Code: ExitConfigError, Err: innerErr}
		assert.Equal(t, "inner error", err.Error())
		assert.Equal(t, ExitConfigError, err.Code)
		assert.Equal(t, innerErr, err.Unwrap())
	})

	t.Run("with neither", func(t *testing.T) {
		err := &ExitError{Code: ExitPartialFailure}
		assert.Contains(t, err.Error(), "exit code 1")
	})
}

// TestNewExitError tests the NewExitError constructor.
//
// It verifies that:
//   - Code and Err fields are set correctly
func TestNewExitError(t *testing.T) {
	innerErr := stderrors.New("test error")
	err := NewExitError(ExitConfigError, innerErr)

	assert.Equal(t, ExitConfigError, err.Code)
	assert.Equal(t, innerErr, err.Err)
}

// TestNewExitErrorf tests the NewExitErrorf constructor.
//
// It verifies that:
//   - Code is set correctly
//   - Message is formatted properly
func TestNewExitErrorf(t *testing.T) {
	err := NewExitErrorf(ExitFailure, "failed: %s", "reason")

	assert.Equal(t, ExitFailure, err.Code)
	assert.Equal(t, "failed: reason", err.Message)
}

// TestGetExitCode tests the GetExitCode function.
//
// It verifies that:
//   - Nil error returns ExitSuccess
//   - ExitError returns its Code
//   - Wrapped ExitError returns its Code
//   - PartialSuccessError maps to ExitPartialFailure
//   - Plain error returns ExitFailure
func TestGetExitCode(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, ExitSuccess, GetExitCode(nil))
	})

	t.Run("ExitError", func(t *testing.T) {
		err := NewExitError(ExitConfigError, stderrors.New("test"))
		assert.Equal(t, ExitConfigError, GetExitCode(err))
	})

	t.Run("wrapped ExitError", func(t *testing.T) {
		inner := NewExitError(ExitPartialFailure, stderrors.New("test"))
		wrapped := fmt.Errorf("wrapper: %w", inner)
		assert.Equal(t, ExitPartialFailure, GetExitCode(wrapped))
	})

	t.Run("partial success", func(t *testing.T) {
		err := NewPartialSuccessError(3, 1, []error{stderrors.New("carrier down")})
		assert.Equal(t, ExitPartialFailure, GetExitCode(err))
	})

	t.Run("plain error", func(t *testing.T) {
		err := stderrors.New("plain error")
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})
}

// TestPartialSuccessError tests the PartialSuccessError type.
//
// It verifies that:
//   - Error() summarizes the succeeded and failed counts
//   - IsPartialSuccess detects the type, including wrapped
//   - IsPartialSuccess rejects other errors
func TestPartialSuccessError(t *testing.T) {
	errs := []error{stderrors.New("a failed"), stderrors.New("b failed")}
	err := NewPartialSuccessError(5, 2, errs)

	assert.Equal(t, "5 succeeded, 2 failed", err.Error())
	assert.Equal(t, errs, err.Errors)

	pse, ok := IsPartialSuccess(fmt.Errorf("refresh: %w", err))
	require.True(t, ok)
	assert.Equal(t, 5, pse.Succeeded)

	_, ok = IsPartialSuccess(stderrors.New("other"))
	assert.False(t, ok)
}
