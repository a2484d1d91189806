package carrier

import (
	"fmt"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// NoAdapterError indicates that no registered adapter serves a package:
// the carrier is unknown and format detection found no match.
//
// Fields:
//   - ID: Tracking number that failed detection
type NoAdapterError struct {
	ID string
}

// Error implements the error interface.
func (e *NoAdapterError) Error() string {
	return fmt.Sprintf("no carrier adapter matches tracking number %q", e.ID)
}

// Registry maps a package's declared carrier to its adapter and performs
// format-based detection for packages with an unknown carrier.
//
// Registration order is fixed at construction time, and detection is
// first-match-wins in that order, so resolution is deterministic.
type Registry struct {
	adapters []Adapter
	byName   map[model.Carrier]Adapter
}

// NewRegistry builds a registry over the standard carrier set in fixed
// detection order: UPS, USPS, FedEx, DHL.
//
// Parameters:
//   - client: HTTP client shared by all adapters
//
// Returns:
//   - *Registry: Registry ready for resolution
func NewRegistry(client Doer) *Registry {
	return NewRegistryWith(
		NewUPS(client),
		NewUSPS(client),
		NewFedEx(client),
		NewDHL(client),
	)
}

// NewRegistryWith builds a registry over an explicit adapter list. The
// list order is the detection order. Used by tests to register fakes.
//
// Parameters:
//   - adapters: Adapters in detection priority order
//
// Returns:
//   - *Registry: Registry ready for resolution
func NewRegistryWith(adapters ...Adapter) *Registry {
	byName := make(map[model.Carrier]Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	return &Registry{adapters: adapters, byName: byName}
}

// Detect finds the first adapter whose tracking-ID format matches.
//
// Parameters:
//   - trackingID: Tracking number to match
//
// Returns:
//   - Adapter: First matching adapter in registration order
//   - bool: false when no adapter matches
func (r *Registry) Detect(trackingID string) (Adapter, bool) {
	for _, a := range r.adapters {
		if a.Match(trackingID) {
			return a, true
		}
	}
	return nil, false
}

// Resolve returns the adapter for a package, detecting the carrier when
// it is unknown.
//
// Resolve never mutates the package: a failed fetch must leave the record
// untouched, so the refresh engine caches the detected carrier onto the
// record only after a successful fetch.
//
// Parameters:
//   - pkg: Package to resolve
//
// Returns:
//   - Adapter: The resolved adapter
//   - error: *NoAdapterError when the carrier is unknown and no format
//     matches, or a plain error when a declared carrier has no adapter
func (r *Registry) Resolve(pkg *model.Package) (Adapter, error) {
	if pkg.Carrier != model.CarrierUnknown && pkg.Carrier != "" {
		a, ok := r.byName[pkg.Carrier]
		if !ok {
			return nil, fmt.Errorf("no adapter registered for carrier %q", pkg.Carrier)
		}
		return a, nil
	}

	a, ok := r.Detect(pkg.ID)
	if !ok {
		return nil, &NoAdapterError{ID: pkg.ID}
	}
	return a, nil
}
