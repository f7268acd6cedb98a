// Package calendar supplies the market event calendars (public holidays,
// scheduled macro events) and the decaying proximity features computed
// against them.
package calendar

import (
	"sort"

	"marketline/internal/domain"
)

// EventDates is an immutable, sorted set of event dates for one calendar.
type EventDates struct {
	dates []domain.Date
	set   map[string]struct{}
}

// NewEventDates builds an event set, deduplicating and sorting the input.
func NewEventDates(dates []domain.Date) EventDates {
	set := make(map[string]struct{}, len(dates))
	unique := make([]domain.Date, 0, len(dates))
	for _, d := range dates {
		key := d.String()
		if _, ok := set[key]; ok {
			continue
		}
		set[key] = struct{}{}
		unique = append(unique, d)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].Before(unique[j]) })
	return EventDates{dates: unique, set: set}
}

// Contains reports whether the date is an event date.
func (e EventDates) Contains(d domain.Date) bool {
	_, ok := e.set[d.String()]
	return ok
}

// All returns the sorted event dates.
func (e EventDates) All() []domain.Date {
	return e.dates
}

// Past returns the event dates strictly before d, oldest first.
func (e EventDates) Past(d domain.Date) []domain.Date {
	cut := sort.Search(len(e.dates), func(i int) bool {
		return !e.dates[i].Before(d)
	})
	return e.dates[:cut]
}

// Future returns the event dates strictly after d, oldest first.
func (e EventDates) Future(d domain.Date) []domain.Date {
	cut := sort.Search(len(e.dates), func(i int) bool {
		return e.dates[i].After(d)
	})
	return e.dates[cut:]
}

// Len returns the number of distinct event dates.
func (e EventDates) Len() int {
	return len(e.dates)
}
