// Package testutil provides builders and fakes shared by tests across
// the repository: a fluent tracked-package builder and a scriptable
// carrier adapter.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// PackageBuilder provides a fluent API for building test packages.
type PackageBuilder struct {
	pkg *model.Package
}

// NewPackage creates a builder for a package with the given tracking
// number, in the NEW state with a fixed creation time.
//
// Parameters:
//   - id: Tracking number
//
// Returns:
//   - *PackageBuilder: Builder ready for method chaining
func NewPackage(id string) *PackageBuilder {
	return &PackageBuilder{
		pkg: model.NewPackage(id, "", model.CarrierUnknown, time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)),
	}
}

// WithTitle sets the display title.
func (b *PackageBuilder) WithTitle(title string) *PackageBuilder {
	b.pkg.Title = title
	return b
}

// WithCarrier sets the declared carrier.
func (b *PackageBuilder) WithCarrier(c model.Carrier) *PackageBuilder {
	b.pkg.Carrier = c
	return b
}

// WithStatus sets the current status.
func (b *PackageBuilder) WithStatus(s model.Status) *PackageBuilder {
	b.pkg.Status = s
	return b
}

// WithEvent appends an event to the history.
func (b *PackageBuilder) WithEvent(ts time.Time, description, rawStatus string) *PackageBuilder {
	b.pkg.Events = append(b.pkg.Events, model.Event{
		Timestamp:   ts,
		Description: description,
		RawStatus:   rawStatus,
	})
	return b
}

// Build returns the built package.
func (b *PackageBuilder) Build() *model.Package {
	return b.pkg
}

// FakeAdapter is a scriptable carrier adapter for engine and command
// tests. It returns canned events or a canned error and records how many
// times Fetch was called. Fetch is safe for concurrent use.
//
// Fields:
//   - Carrier: Name reported to the registry
//   - Pattern: Match function; nil matches everything
//   - Events: Events returned on success
//   - Err: Error returned instead of events when non-nil
type FakeAdapter struct {
	Carrier model.Carrier
	Pattern func(string) bool
	Events  []model.Event
	Err     error

	mu    sync.Mutex
	calls int
}

// Name returns the fake's carrier name.
func (f *FakeAdapter) Name() model.Carrier { return f.Carrier }

// Match applies the scripted pattern, matching everything when nil.
func (f *FakeAdapter) Match(trackingID string) bool {
	if f.Pattern == nil {
		return true
	}
	return f.Pattern(trackingID)
}

// Fetch returns the scripted events or error.
func (f *FakeAdapter) Fetch(_ context.Context, _ string) ([]model.Event, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Events, nil
}

// CallCount reports how many times Fetch has been invoked.
func (f *FakeAdapter) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
