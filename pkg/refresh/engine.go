// Package refresh orchestrates one refresh pass over the tracked-package
// collection: resolve an adapter per package, fetch events concurrently,
// and apply merges and status transitions deterministically.
//
// The engine never writes the datastore. It mutates only the packages
// whose fetch succeeded and reports every other package's disposition, so
// the caller can commit partial success with a single save.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/parcelwatch/parcelwatch/pkg/carrier"
	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// Outcome is the per-package disposition after a refresh pass.
type Outcome int

// Per-package refresh outcomes.
const (
	// OutcomeUnset is the zero value. Every result must be assigned a real
	// outcome by the end of a pass; an unset outcome in a report is a bug.
	OutcomeUnset Outcome = iota

	// OutcomeUpdated means new events were merged or the status changed.
	OutcomeUpdated

	// OutcomeUnchanged means the fetch succeeded but brought nothing new.
	OutcomeUnchanged

	// OutcomeTerminal means the package was skipped because its status is
	// terminal and the all override was not set.
	OutcomeTerminal

	// OutcomeTransient means the fetch failed in a retryable way; the
	// record was left untouched and the package will be retried on the
	// next invocation.
	OutcomeTransient

	// OutcomeAttention means a human needs to look: the carrier does not
	// recognize the tracking number, changed its response shape, or no
	// adapter matches the id.
	OutcomeAttention
)

// Label returns the user-visible summary label for the outcome.
func (o Outcome) Label() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeTerminal:
		return "unchanged (terminal)"
	case OutcomeTransient:
		return "skipped (transient failure)"
	case OutcomeAttention:
		return "needs attention"
	}
	return "unset"
}

// Result records what happened to a single package during a refresh.
//
// Fields:
//   - ID: Tracking number of the package
//   - Outcome: Disposition of this package
//   - Added: Number of events appended (OutcomeUpdated only)
//   - Status: Package status after the refresh
//   - Err: Failure detail for OutcomeTransient and OutcomeAttention
type Result struct {
	ID      string
	Outcome Outcome
	Added   int
	Status  model.Status
	Err     error
}

// Report aggregates per-package results for one refresh invocation, in
// the original package order.
type Report struct {
	Results []Result
}

// Count returns the number of results with the given outcome.
//
// Parameters:
//   - o: Outcome to count
//
// Returns:
//   - int: Number of packages with that outcome
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Errors returns the failure details of every transient or
// needs-attention result.
//
// Returns:
//   - []error: Per-package errors, in package order
func (r *Report) Errors() []error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.ID, res.Err))
		}
	}
	return errs
}

// Engine runs refresh passes against a carrier registry.
//
// Fields:
//   - Registry: Adapter resolution and detection
//   - Concurrency: Maximum concurrent fetches
//   - Timeout: Per-fetch deadline; exceeding it counts as transient
//   - MaxTries: Fetch attempts per package for transient failures
//   - StaleAfter: Halt non-terminal packages with no movement for this
//     long; zero disables the policy
//   - IncludeTerminal: Refresh DELIVERED and HALTED packages too
//   - Now: Clock, swappable in tests; defaults to time.Now
type Engine struct {
	Registry        *carrier.Registry
	Concurrency     int
	Timeout         time.Duration
	MaxTries        int
	StaleAfter      time.Duration
	IncludeTerminal bool
	Now             func() time.Time
}

// now returns the engine clock, defaulting to time.Now.
func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// RefreshAll refreshes every eligible package in the collection.
//
// The pass has three phases. Resolution runs single-threaded and decides
// each package's adapter or records a needs-attention result. Fetching
// runs concurrently, bounded by Concurrency, with each fetch operating on
// a disjoint package and producing an isolated result. Apply runs
// single-threaded in the original package order, so output is
// reproducible regardless of fetch completion order: it merges events
// with duplicate suppression, advances the state machine, applies the
// staleness policy, and caches a detected carrier onto the record.
//
// Packages whose fetch failed are left byte-for-byte untouched; their
// failure is recorded in the report. The engine performs no datastore
// writes: the caller commits the collection once after the pass.
//
// Parameters:
//   - ctx: Context for cancellation of the whole pass
//   - pkgs: Collection snapshot to refresh in place
//
// Returns:
//   - *Report: Per-package results in the original package order
func (e *Engine) RefreshAll(ctx context.Context, pkgs []*model.Package) *Report {
	results := make([]Result, len(pkgs))
	adapters := make([]carrier.Adapter, len(pkgs))
	fetched := make([][]model.Event, len(pkgs))
	fetchErrs := make([]error, len(pkgs))

	// Resolution phase: single-threaded, no record mutation.
	for i, p := range pkgs {
		results[i] = Result{ID: p.ID, Status: p.Status}
		if p.Status.Terminal() && !e.IncludeTerminal {
			results[i].Outcome = OutcomeTerminal
			continue
		}
		a, err := e.Registry.Resolve(p)
		if err != nil {
			results[i].Outcome = OutcomeAttention
			results[i].Err = err
			log.Debug().Str("id", p.ID).Err(err).Msg("no adapter resolved")
			continue
		}
		adapters[i] = a
	}

	// Fetch phase: bounded concurrency, disjoint packages, isolated
	// results. Failures are recorded, never propagated, so one bad
	// carrier cannot abort the batch.
	concurrency := e.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range pkgs {
		if adapters[i] == nil {
			continue
		}
		i := i
		g.Go(func() error {
			fetched[i], fetchErrs[i] = e.fetch(gctx, adapters[i], pkgs[i].ID)
			return nil
		})
	}
	_ = g.Wait()

	// Apply phase: single-threaded merge in original package order.
	for i, p := range pkgs {
		if adapters[i] == nil {
			continue
		}
		if err := fetchErrs[i]; err != nil {
			if carrier.IsTransient(err) {
				results[i].Outcome = OutcomeTransient
			} else {
				results[i].Outcome = OutcomeAttention
			}
			results[i].Err = err
			log.Debug().Str("id", p.ID).Err(err).Msg("fetch failed")
			continue
		}
		results[i] = e.apply(p, adapters[i], fetched[i])
	}

	return &Report{Results: results}
}

// apply merges fetched events into a package and advances its status.
//
// Parameters:
//   - p: Package to mutate
//   - a: Adapter that produced the events
//   - events: Fetched events, time ascending
//
// Returns:
//   - Result: Updated or unchanged outcome for the package
func (e *Engine) apply(p *model.Package, a carrier.Adapter, events []model.Event) Result {
	prevStatus := p.Status
	prevCarrier := p.Carrier

	merged, added := model.MergeEvents(p.Events, events)
	p.Events = merged
	p.Status = model.Advance(prevStatus, merged)
	if p.Carrier == model.CarrierUnknown || p.Carrier == "" {
		p.Carrier = a.Name()
	}

	// Staleness policy: no movement past the threshold is an exception
	// condition.
	if e.StaleAfter > 0 && !p.Status.Terminal() {
		if last, ok := p.LatestEvent(); ok && e.now().Sub(last.Timestamp) > e.StaleAfter {
			log.Debug().Str("id", p.ID).Time("last_event", last.Timestamp).Msg("halting stale package")
			p.Status = model.StatusHalted
		}
	}

	res := Result{ID: p.ID, Status: p.Status, Added: added}
	if added > 0 || p.Status != prevStatus || p.Carrier != prevCarrier {
		res.Outcome = OutcomeUpdated
	} else {
		res.Outcome = OutcomeUnchanged
	}
	return res
}

// fetch retrieves events for one package, retrying transient failures
// with exponential backoff up to MaxTries attempts. NotFound and parse
// failures are permanent and returned immediately. A fetch that exceeds
// the per-fetch timeout is treated as transient.
//
// Parameters:
//   - ctx: Context for the whole pass
//   - a: Adapter to fetch through
//   - id: Tracking number
//
// Returns:
//   - []model.Event: Fetched events on success
//   - error: *FetchError (or context error) on failure
func (e *Engine) fetch(ctx context.Context, a carrier.Adapter, id string) ([]model.Event, error) {
	operation := func() ([]model.Event, error) {
		fctx := ctx
		if e.Timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, e.Timeout)
			defer cancel()
		}

		events, err := a.Fetch(fctx, id)
		if err == nil {
			return events, nil
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = &carrier.FetchError{Kind: carrier.FetchTransient, Carrier: a.Name(), Err: err}
		}
		if carrier.IsTransient(err) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	maxTries := e.MaxTries
	if maxTries < 1 {
		maxTries = 1
	}
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(maxTries)),
	)
}
