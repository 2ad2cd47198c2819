// Package schedule translates dosing-frequency expressions into concrete
// administration instants and computes nursing shift windows.
package schedule

import (
	"strings"
	"time"

	"github.com/ehr/medsafety/internal/reference"
)

// Resolver converts free-text dosing frequencies into scheduled instants
// using the injected reference tables.
type Resolver struct {
	ref reference.Data
}

func NewResolver(ref reference.Data) *Resolver {
	return &Resolver{ref: ref}
}

// IsPRN reports whether the expression indicates an as-needed order.
func (r *Resolver) IsPRN(frequency string) bool {
	f := normalize(frequency)
	if f == "" {
		return false
	}
	for _, marker := range r.ref.PRNMarkers {
		if strings.Contains(f, marker) {
			return true
		}
	}
	return false
}

// Resolve returns the administration instants for a frequency expression on
// the calendar date of ref. PRN expressions resolve to an empty slice; an
// unknown or empty expression falls back to a single default anchor.
// Anchors never wrap to the next day — callers filter by shift window, which
// assumes a full 24 h result set on the reference date.
func (r *Resolver) Resolve(frequency string, ref time.Time) []time.Time {
	if r.IsPRN(frequency) {
		return []time.Time{}
	}

	hours := r.anchorHours(frequency)
	out := make([]time.Time, 0, len(hours))
	for _, h := range hours {
		out = append(out, time.Date(ref.Year(), ref.Month(), ref.Day(), h, 0, 0, 0, ref.Location()))
	}
	return out
}

// Nearest returns the scheduled instant closest to now, or false for PRN
// expressions (which have no schedule).
func (r *Resolver) Nearest(frequency string, now time.Time) (time.Time, bool) {
	times := r.Resolve(frequency, now)
	if len(times) == 0 {
		return time.Time{}, false
	}

	nearest := times[0]
	best := absDuration(now.Sub(nearest))
	for _, t := range times[1:] {
		if d := absDuration(now.Sub(t)); d < best {
			best = d
			nearest = t
		}
	}
	return nearest, true
}

// anchorHours matches the expression against the frequency table by
// substring containment. First match in declared order wins; this mirrors
// the legacy parser and is intentionally not longest-match.
func (r *Resolver) anchorHours(frequency string) []int {
	f := normalize(frequency)
	if f != "" {
		for _, e := range r.ref.Frequencies {
			if strings.Contains(f, e.Match) {
				return e.Hours
			}
		}
	}
	return []int{r.ref.DefaultAnchorHour}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
