package models

import (
	"fmt"
	"time"
)

// Period selects which part of the history a run covers.
type Period struct {
	Kind  string
	Year  int
	Month time.Month
	// Cutoff is the epoch in milliseconds of the last second of the target
	// month. It is only set for month periods.
	Cutoff int64
}

// AllPeriod returns the period covering the full lookback window.
func AllPeriod() Period {
	return Period{Kind: PeriodAll}
}

// IsMonth reports whether the period targets a single calendar month.
func (p Period) IsMonth() bool {
	return p.Kind == PeriodMonth
}

// Label names the period in export file names and audit rows,
// e.g. "month_2024_02" or "all".
func (p Period) Label() string {
	if !p.IsMonth() {
		return PeriodAll
	}
	return fmt.Sprintf("month_%04d_%02d", p.Year, int(p.Month))
}

// LegIDSet is the read-only set of legIds already persisted before a run.
type LegIDSet struct {
	ids map[string]struct{}
}

// NewLegIDSet builds a fresh set from the given ids.
func NewLegIDSet(ids []string) LegIDSet {
	set := LegIDSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		set.ids[id] = struct{}{}
	}
	return set
}

// Contains reports whether legID is already persisted.
func (s LegIDSet) Contains(legID string) bool {
	_, ok := s.ids[legID]
	return ok
}

// Len returns the number of known legIds.
func (s LegIDSet) Len() int {
	return len(s.ids)
}
