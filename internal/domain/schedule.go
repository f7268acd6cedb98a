// Package domain provides the core data model for the market calendar engine:
// calendar dates, times of day, per-symbol weekly schedules, canonical trading
// intervals and annotated price records.
package domain

// ScheduleSegment is one recorded schedule variant for a weekday: an
// open/close pair, whether it is the tradable session, and the contiguous
// date runs it was observed for. Segments without open or close are
// tolerated; the extractor skips them.
type ScheduleSegment struct {
	Open       *TimeOfDay `json:"open"`
	Close      *TimeOfDay `json:"close"`
	MarketTime bool       `json:"market_time"`
	Dates      [][]Date   `json:"dates"`
}

// DaySchedule is a symbol's schedule for one weekday. MinOpen/MaxClose are
// the derived envelope across all segments active that day; Schedules holds
// the raw segments with their date history.
type DaySchedule struct {
	MinOpen   *TimeOfDay        `json:"min_open,omitempty"`
	MaxClose  *TimeOfDay        `json:"max_close,omitempty"`
	AllDay    *bool             `json:"all_day,omitempty"`
	Schedules []ScheduleSegment `json:"schedules,omitempty"`
}

// WeeklySchedule maps lowercase weekday names ("monday"..."sunday") to the
// symbol's schedule for that day. Partially populated maps are expected.
type WeeklySchedule map[string]DaySchedule

// ScheduleVariant is one distinct (open, close) pair in the consolidated
// global schedule, with the symbols trading on it. A weekday with no usable
// symbol schedules is represented by a single placeholder variant whose
// AllDay is nil and all other fields are empty.
type ScheduleVariant struct {
	AllDay    *bool      `json:"all_day"`
	Open      *TimeOfDay `json:"open,omitempty"`
	Close     *TimeOfDay `json:"close,omitempty"`
	Symbols   []string   `json:"symbols,omitempty"`
	OpenHours float64    `json:"open_hours,omitempty"`
}

// GlobalDaySchedule is the consolidated per-weekday summary across all
// symbols: the earliest open, the latest close and every distinct variant.
type GlobalDaySchedule struct {
	MinOpen   *TimeOfDay        `json:"min_open"`
	MaxClose  *TimeOfDay        `json:"max_close"`
	Schedules []ScheduleVariant `json:"schedules"`
}

// GlobalSchedule maps weekday names to their consolidated summaries.
type GlobalSchedule map[string]GlobalDaySchedule

// RawInterval is a date-bounded trading window emitted by the extractor, one
// per contiguous date group of a market_time segment. Many raw intervals may
// describe the same effective window.
type RawInterval struct {
	From  Date      `json:"from"`
	To    Date      `json:"to"`
	Open  TimeOfDay `json:"open"`
	Close TimeOfDay `json:"close"`
}

// Key returns the dedup identity of the interval.
func (r RawInterval) Key() string {
	return r.From.String() + "|" + r.To.String() + "|" + r.Open.String() + "|" + r.Close.String()
}

// CanonicalInterval is a merged, non-overlapping trading-window descriptor.
// A nil From means open-ended past, a nil To open-ended future; the first
// and last intervals of a smoothed sequence are open-ended.
type CanonicalInterval struct {
	From  *Date     `json:"from,omitempty"`
	To    *Date     `json:"to,omitempty"`
	Open  TimeOfDay `json:"open"`
	Close TimeOfDay `json:"close"`
}

// Contains reports whether the calendar date falls inside the interval's
// date range, treating missing bounds as unbounded.
func (c CanonicalInterval) Contains(d Date) bool {
	if c.From != nil && d.Before(*c.From) {
		return false
	}
	if c.To != nil && d.After(*c.To) {
		return false
	}
	return true
}
