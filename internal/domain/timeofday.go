package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time within a day, second precision.
// Schedule opens/closes are times of day; combining one with a Date yields
// a UTC instant.
type TimeOfDay struct {
	secs int // seconds since midnight, 0..86399
}

// NewTimeOfDay builds a TimeOfDay from hour, minute, second.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{secs: hour*3600 + minute*60 + second}
}

// ParseTimeOfDay parses "HH:MM:SS" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if n, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil || n < 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day out of range %q", s)
	}
	return NewTimeOfDay(h, m, sec), nil
}

// String renders the time as "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.secs/3600, (t.secs/60)%60, t.secs%60)
}

// IsMidnight reports whether the time is exactly 00:00:00.
func (t TimeOfDay) IsMidnight() bool {
	return t.secs == 0
}

// Duration returns the offset from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.secs) * time.Second
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.secs < other.secs
}

// Equal reports whether both times are the same second of the day.
func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.secs == other.secs
}

// FloorHour truncates the time to the start of its hour.
func (t TimeOfDay) FloorHour() TimeOfDay {
	return TimeOfDay{secs: (t.secs / 3600) * 3600}
}

// At combines the time of day with a calendar date into a UTC instant.
func (t TimeOfDay) At(d Date) time.Time {
	return d.Time().Add(t.Duration())
}

// RolledCloseSeconds returns a close as seconds past the session day's
// midnight, rolling an overnight close (close <= open) onto the next day.
// Rolled values order closes chronologically across midnight, so a 02:00
// overnight close ranks after a 17:00 same-day close.
func RolledCloseSeconds(open, close TimeOfDay) int {
	if close.secs <= open.secs {
		return close.secs + 24*3600
	}
	return close.secs
}

// SessionHours returns the session length in hours for an open/close pair,
// rolling the close to the next day when close <= open (overnight session).
// An all-day session (both midnight) is 24 hours.
func SessionHours(open, close TimeOfDay) float64 {
	return float64(RolledCloseSeconds(open, close)-open.secs) / 3600.0
}

// MarshalJSON renders the time as a quoted "HH:MM:SS" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON parses a quoted time-of-day string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid time literal: %s", s)
	}
	parsed, err := ParseTimeOfDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
