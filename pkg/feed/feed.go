// Package feed derives read-only views from a loaded package collection:
// the filtered list used by the terminal table and the syndication feed.
// Nothing in this package mutates packages or touches the datastore.
package feed

import (
	"fmt"
	"sort"
	"time"

	"github.com/gorilla/feeds"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// Visible filters the collection for list display.
//
// Non-terminal packages are always visible. Terminal packages (delivered
// or halted) are hidden once their latest event is older than hideAfter,
// unless includeAll is set. A terminal package without events falls back
// to its creation time. The input order is preserved; the input slice is
// never modified.
//
// Parameters:
//   - pkgs: Loaded collection
//   - includeAll: Show terminal-and-old packages too
//   - hideAfter: Age cutoff for terminal packages; zero hides all terminal
//   - now: Reference time for age calculation
//
// Returns:
//   - []*model.Package: Visible packages in original order
func Visible(pkgs []*model.Package, includeAll bool, hideAfter time.Duration, now time.Time) []*model.Package {
	if includeAll {
		return append([]*model.Package(nil), pkgs...)
	}

	visible := make([]*model.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if !p.Status.Terminal() {
			visible = append(visible, p)
			continue
		}
		ref := p.AddedAt
		if last, ok := p.LatestEvent(); ok {
			ref = last.Timestamp
		}
		if now.Sub(ref) <= hideAfter {
			visible = append(visible, p)
		}
	}
	return visible
}

// Build produces the syndication feed for the collection: one entry per
// package summarizing its latest event and status, ordered
// newest-event-first. Packages without events sort by creation time.
//
// Parameters:
//   - pkgs: Loaded collection
//   - title: Feed title
//   - link: Feed link
//   - now: Feed creation timestamp
//
// Returns:
//   - *feeds.Feed: Feed document ready for RSS or Atom rendering
func Build(pkgs []*model.Package, title, link string, now time.Time) *feeds.Feed {
	f := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: "Tracked package status",
		Created:     now,
	}

	ordered := append([]*model.Package(nil), pkgs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return entryTime(ordered[i]).After(entryTime(ordered[j]))
	})

	for _, p := range ordered {
		f.Items = append(f.Items, &feeds.Item{
			Id:          p.ID,
			Title:       fmt.Sprintf("%s [%s]", p.Title, p.Status),
			Link:        &feeds.Link{Href: link},
			Description: entrySummary(p),
			Created:     entryTime(p),
		})
	}
	return f
}

// entryTime returns the timestamp a package sorts by in the feed.
func entryTime(p *model.Package) time.Time {
	if last, ok := p.LatestEvent(); ok {
		return last.Timestamp
	}
	return p.AddedAt
}

// entrySummary renders the one-line description for a package's feed
// entry.
func entrySummary(p *model.Package) string {
	last, ok := p.LatestEvent()
	if !ok {
		return fmt.Sprintf("%s: no tracking events yet", p.ID)
	}
	if last.Location != "" {
		return fmt.Sprintf("%s: %s (%s, %s)", p.ID, last.Description, last.Location,
			last.Timestamp.Format("2006-01-02 15:04"))
	}
	return fmt.Sprintf("%s: %s (%s)", p.ID, last.Description,
		last.Timestamp.Format("2006-01-02 15:04"))
}
