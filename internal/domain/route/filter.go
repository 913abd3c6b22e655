package route

import (
	"time"

	"github.com/google/uuid"
)

// SearchCriteria holds the optional filters of a route search request.
// Every non-zero field is an independent filter; a route is part of the
// result only when it matches all of them.
type SearchCriteria struct {
	TransportType   string
	DepartureCity   string
	DestinationCity string
	ExactDate       *time.Time
	RangeStart      *time.Time
	RangeEnd        *time.Time
}

// ActiveFilterCount returns how many filters are actually supplied.
// A date range counts as a single filter.
func (c SearchCriteria) ActiveFilterCount() int {
	n := 0
	if c.TransportType != "" {
		n++
	}
	if c.DepartureCity != "" {
		n++
	}
	if c.DestinationCity != "" {
		n++
	}
	if c.ExactDate != nil {
		n++
	}
	if c.RangeStart != nil && c.RangeEnd != nil {
		n++
	}
	return n
}

// MatchCounter implements the counting intersection over independently
// evaluated filter subsets. Each subset increments a per-route counter;
// routes whose counter reaches the number of active filters match all of
// them. Subsets are counted rather than intersected pairwise so that an
// empty subset never short-circuits evaluation of the remaining filters.
type MatchCounter struct {
	counts map[uuid.UUID]int
}

// NewMatchCounter initializes a counter with every route of the universe at zero.
func NewMatchCounter(universe []*Route) *MatchCounter {
	counts := make(map[uuid.UUID]int, len(universe))
	for _, r := range universe {
		counts[r.ID()] = 0
	}
	return &MatchCounter{counts: counts}
}

// AddSubset records one filter's independently matching routes. Routes
// outside the universe are ignored.
func (m *MatchCounter) AddSubset(subset []*Route) {
	for _, r := range subset {
		if _, ok := m.counts[r.ID()]; ok {
			m.counts[r.ID()]++
		}
	}
}

// Matching returns the universe routes whose match count equals required,
// preserving the universe's order. With required == 0 the whole universe
// matches.
func (m *MatchCounter) Matching(universe []*Route, required int) []*Route {
	result := make([]*Route, 0, len(universe))
	for _, r := range universe {
		if m.counts[r.ID()] == required {
			result = append(result, r)
		}
	}
	return result
}

// FilterBookable drops routes that already departed or depart within the
// booking cutoff window. Applied identically to filtered and unfiltered
// search views.
func FilterBookable(routes []*Route, now time.Time) []*Route {
	result := make([]*Route, 0, len(routes))
	for _, r := range routes {
		if r.IsBookable(now) {
			result = append(result, r)
		}
	}
	return result
}
