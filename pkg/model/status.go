package model

import (
	"sort"
	"strings"
)

// Status is a package's position in the delivery state machine.
//
// Transitions follow NEW → IN_TRANSIT → DELIVERED, with HALTED reachable
// from NEW or IN_TRANSIT when a carrier reports an exception condition.
// DELIVERED and HALTED are terminal: once reached, the refresh engine
// skips the package unless explicitly overridden.
type Status string

// Package statuses as persisted in the datastore.
const (
	StatusNew       Status = "new"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusHalted    Status = "halted"
)

// Terminal reports whether the status is an end state of the machine.
//
// Returns:
//   - bool: true for StatusDelivered and StatusHalted
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusHalted
}

// classification is the fixed table mapping normalized carrier status
// codes to machine states. Codes absent from the table leave the current
// status unchanged; the machine never guesses a terminal state from
// unknown input.
var classification = map[string]Status{
	"DELIVERED":        StatusDelivered,
	"OUT_FOR_DELIVERY": StatusInTransit,
	"IN_TRANSIT":       StatusInTransit,
	"PRE_TRANSIT":      StatusInTransit,
	"ACCEPTED":         StatusInTransit,
	"ARRIVED":          StatusInTransit,
	"DEPARTED":         StatusInTransit,
	"EXCEPTION":        StatusHalted,
	"RETURN_TO_SENDER": StatusHalted,
	"RETURNED":         StatusHalted,
}

// Classify maps a raw carrier status code to a machine state.
//
// The code is normalized (upper-cased, spaces and hyphens collapsed to
// underscores) before lookup so that "Out for Delivery" and
// "OUT_FOR_DELIVERY" classify identically.
//
// Parameters:
//   - raw: Carrier-specific status code from an event
//
// Returns:
//   - Status: The classified state
//   - bool: false when the code is not in the classification table
func Classify(raw string) (Status, bool) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	s, ok := classification[norm]
	return s, ok
}

// Advance computes the next status from the current one and a freshly
// merged, time-ordered history.
//
// The decision uses only the latest event's classification. Terminal
// states are sticky: Advance never leaves DELIVERED or HALTED. An
// unrecognized latest code keeps the current status.
//
// Parameters:
//   - current: The package's status before the refresh
//   - events: Full merged event history, time ascending
//
// Returns:
//   - Status: The status after applying the latest event
func Advance(current Status, events []Event) Status {
	if current.Terminal() {
		return current
	}
	if len(events) == 0 {
		return current
	}
	next, ok := Classify(events[len(events)-1].RawStatus)
	if !ok {
		return current
	}
	return next
}

// MergeEvents appends freshly fetched events onto an existing history,
// skipping exact duplicates and keeping the result time ascending.
//
// Duplicate identity is the event Key (timestamp + description). The sort
// is stable so that same-timestamp events keep their fetched order.
//
// Parameters:
//   - existing: History already stored on the package
//   - fetched: Newly fetched batch, time ascending
//
// Returns:
//   - []Event: Merged history
//   - int: Number of events actually appended
func MergeEvents(existing, fetched []Event) ([]Event, int) {
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e.Key()] = struct{}{}
	}

	merged := existing
	added := 0
	for _, e := range fetched {
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		merged = append(merged, e)
		added++
	}

	if added > 0 {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Timestamp.Before(merged[j].Timestamp)
		})
	}
	return merged, added
}
