// Package carrier provides the adapter abstraction over external carrier
// tracking providers and the registry that resolves a package to the
// right adapter, including format-based detection of unknown carriers.
//
// Scraping mechanics live entirely behind the Adapter interface so the
// state machine and refresh engine can be tested against fakes.
package carrier

import (
	"context"
	"errors"
	"fmt"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// Adapter is the capability contract one carrier integration must satisfy.
//
// Fetch normalizes the carrier's response into the common event shape.
// A carrier-reported "no information yet" is a valid empty result, not an
// error: that is the expected answer for a package still in the NEW state.
type Adapter interface {
	// Name returns the carrier this adapter serves.
	Name() model.Carrier

	// Match reports whether a tracking ID matches this carrier's format.
	Match(trackingID string) bool

	// Fetch retrieves the tracking history for a tracking ID, normalized
	// into events ordered by observed time ascending. Failures are
	// reported as *FetchError.
	Fetch(ctx context.Context, trackingID string) ([]model.Event, error)
}

// FetchKind discriminates the failure modes of a carrier fetch.
type FetchKind int

// Fetch failure modes.
const (
	// FetchNotFound means the carrier does not recognize the tracking ID.
	// Not a transient condition; retrying will not help.
	FetchNotFound FetchKind = iota

	// FetchTransient covers network failures, rate limits, and timeouts.
	// Safe to retry on a later invocation.
	FetchTransient

	// FetchParse means the carrier response did not match the expected
	// shape, usually because the carrier changed its format. Surfaced for
	// operator attention, never retried.
	FetchParse
)

// String returns a human-readable name for the failure mode.
func (k FetchKind) String() string {
	switch k {
	case FetchNotFound:
		return "not found"
	case FetchTransient:
		return "transient"
	case FetchParse:
		return "parse error"
	}
	return "unknown"
}

// FetchError is the error type returned by Adapter.Fetch.
//
// Fields:
//   - Kind: Failure mode, drives refresh-engine handling
//   - Carrier: Carrier that produced the failure
//   - Err: Underlying cause, may be nil
type FetchError struct {
	Kind    FetchKind
	Carrier model.Carrier
	Err     error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s fetch %s: %v", e.Carrier, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s fetch %s", e.Carrier, e.Kind)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError checks if err is a FetchError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *FetchError: The FetchError if err is one, nil otherwise
//   - bool: true if err is a FetchError
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsTransient reports whether the error is a retryable fetch failure.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true when err is a FetchError of kind FetchTransient
func IsTransient(err error) bool {
	fe, ok := AsFetchError(err)
	return ok && fe.Kind == FetchTransient
}
