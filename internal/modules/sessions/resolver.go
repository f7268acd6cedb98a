// Package sessions resolves trading windows for calendar dates and
// classifies price records into the pre-market / regular / post-market /
// non-trading partition.
package sessions

import (
	"time"

	"marketline/internal/domain"
)

// Window is a resolved trading session for one calendar day, as UTC instants.
// Close is strictly after Open; for overnight sessions it falls on the next
// calendar day.
type Window struct {
	Open  time.Time
	Close time.Time
}

// Resolve scans the canonical intervals in order and returns the session
// window of the first one covering the date. The interval list must already
// be merged and smoothed. The second return is false when no interval covers
// the date, which callers treat as "no session information", not an error.
func Resolve(day domain.Date, intervals []domain.CanonicalInterval) (Window, bool) {
	for _, interval := range intervals {
		if !interval.Contains(day) {
			continue
		}
		open := interval.Open.At(day)
		closeAt := interval.Close.At(day)
		if !closeAt.After(open) {
			closeAt = closeAt.AddDate(0, 0, 1)
		}
		return Window{Open: open, Close: closeAt}, true
	}
	return Window{}, false
}
