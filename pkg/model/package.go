// Package model defines the tracked-package entity, its event history,
// and the status state machine that governs delivery-status transitions.
// All other packages operate on these types; none of them owns the
// authoritative collection, which lives in the datastore.
package model

import (
	"fmt"
	"time"

	"github.com/iancoleman/orderedmap"
)

// Carrier identifies the shipping carrier responsible for a package.
type Carrier string

// Known carriers. CarrierUnknown means the carrier has not been declared
// or detected yet; the registry will attempt format detection on refresh.
const (
	CarrierUnknown Carrier = "unknown"
	CarrierUPS     Carrier = "ups"
	CarrierUSPS    Carrier = "usps"
	CarrierFedEx   Carrier = "fedex"
	CarrierDHL     Carrier = "dhl"
)

// ParseCarrier converts a user-supplied carrier name into a Carrier.
//
// An empty string maps to CarrierUnknown so that callers can pass an
// unset flag value straight through.
//
// Parameters:
//   - s: Carrier name as typed by the user (e.g., "ups")
//
// Returns:
//   - Carrier: The matching carrier
//   - error: Returns error when the name is not a known carrier
func ParseCarrier(s string) (Carrier, error) {
	switch Carrier(s) {
	case "", CarrierUnknown:
		return CarrierUnknown, nil
	case CarrierUPS, CarrierUSPS, CarrierFedEx, CarrierDHL:
		return Carrier(s), nil
	}
	return CarrierUnknown, fmt.Errorf("unknown carrier %q (known: ups, usps, fedex, dhl)", s)
}

// Event is a single carrier-reported tracking milestone. Events are
// immutable once stored.
//
// Fields:
//   - Timestamp: When the milestone was observed by the carrier
//   - Location: Facility or city reported by the carrier, may be empty
//   - Description: Human-readable milestone text
//   - RawStatus: Carrier-specific status code, classified by the state machine
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	RawStatus   string    `json:"raw_status"`
}

// Key returns the identity of the event used for duplicate suppression.
//
// Two events with the same timestamp and description are considered the
// same milestone regardless of location or raw status wording. The
// timestamp contributes nanosecond precision: carriers emit fractional
// RFC3339 timestamps, and same-description events in the same second are
// distinct milestones.
//
// Returns:
//   - string: Stable identity string for this event
func (e Event) Key() string {
	return fmt.Sprintf("%d|%s", e.Timestamp.UnixNano(), e.Description)
}

// Package is a tracked shipment. The ID is the carrier tracking number and
// is unique within a datastore. Events are append-only and ordered by
// observed time ascending.
type Package struct {
	// ID is the carrier tracking number and the unique key in the store.
	ID string `json:"id"`

	// Title is the display label; defaults to ID when not supplied.
	Title string `json:"title"`

	// Carrier is the declared or detected carrier for this package.
	Carrier Carrier `json:"carrier"`

	// Status is the current position in the delivery state machine.
	Status Status `json:"status"`

	// AddedAt records when the package was first tracked.
	AddedAt time.Time `json:"added_at"`

	// Events is the append-only tracking history, time ascending.
	Events []Event `json:"events"`

	// Meta holds carrier-specific extra fields (e.g., estimated delivery
	// date). Keys are additive only; insertion order is preserved in the
	// persisted JSON.
	Meta *orderedmap.OrderedMap `json:"meta,omitempty"`
}

// NewPackage creates a Package in the NEW state.
//
// Parameters:
//   - id: Carrier tracking number
//   - title: Display label; falls back to id when empty
//   - carrier: Declared carrier, or CarrierUnknown to detect on refresh
//   - now: Creation timestamp recorded on the package
//
// Returns:
//   - *Package: New package with empty history and meta
func NewPackage(id, title string, carrier Carrier, now time.Time) *Package {
	if title == "" {
		title = id
	}
	if carrier == "" {
		carrier = CarrierUnknown
	}
	return &Package{
		ID:      id,
		Title:   title,
		Carrier: carrier,
		Status:  StatusNew,
		AddedAt: now,
		Events:  []Event{},
	}
}

// LatestEvent returns the most recent event in the package history.
//
// Returns:
//   - Event: The last event in the history
//   - bool: false when the history is empty
func (p *Package) LatestEvent() (Event, bool) {
	if len(p.Events) == 0 {
		return Event{}, false
	}
	return p.Events[len(p.Events)-1], true
}

// SetMeta stores a carrier-specific extra field, preserving the insertion
// order of keys across saves.
//
// Parameters:
//   - key: Meta field name
//   - value: Meta field value
func (p *Package) SetMeta(key, value string) {
	if p.Meta == nil {
		m := orderedmap.New()
		p.Meta = m
	}
	p.Meta.Set(key, value)
}

// GetMeta reads a carrier-specific extra field.
//
// Parameters:
//   - key: Meta field name
//
// Returns:
//   - string: The stored value, coerced to string
//   - bool: false when the key is absent
func (p *Package) GetMeta(key string) (string, bool) {
	if p.Meta == nil {
		return "", false
	}
	v, ok := p.Meta.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Find locates a package by id within a collection.
//
// Parameters:
//   - pkgs: Collection to search
//   - id: Tracking number to look for
//
// Returns:
//   - *Package: The matching package, nil when absent
//   - bool: true when found
func Find(pkgs []*Package, id string) (*Package, bool) {
	for _, p := range pkgs {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Remove deletes a package by id from a collection, preserving the order
// of the remaining packages.
//
// Parameters:
//   - pkgs: Collection to remove from
//   - id: Tracking number to remove
//
// Returns:
//   - []*Package: Collection without the matching package
//   - bool: true when a package was removed
func Remove(pkgs []*Package, id string) ([]*Package, bool) {
	for i, p := range pkgs {
		if p.ID == id {
			return append(pkgs[:i:i], pkgs[i+1:]...), true
		}
	}
	return pkgs, false
}
