// Package schedule turns per-symbol weekly open/close records into a
// consolidated global schedule and a canonical, gap-free list of trading
// intervals. The pipeline is extract -> merge -> smooth, in that order.
package schedule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"marketline/internal/domain"
)

// rawSegment mirrors one schedule entry of the schedule-store JSON.
type rawSegment struct {
	Open       *string    `json:"open"`
	Close      *string    `json:"close"`
	MarketTime bool       `json:"market_time"`
	Dates      [][]string `json:"dates"`
}

// rawDay mirrors one weekday entry of the schedule-store JSON.
type rawDay struct {
	Schedules []rawSegment `json:"schedules"`
}

// Loader parses the schedule-store JSON into typed weekly schedules.
// Partially populated per-symbol data is expected: segments with missing
// open/close or unparseable dates are skipped, never raised.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a schedule loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "schedule_loader").Logger(),
	}
}

// LoadFile reads and parses a schedule-store JSON file.
func (l *Loader) LoadFile(path string) (map[string]domain.WeeklySchedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule store %s: %w", path, err)
	}
	return l.Load(data)
}

// Load parses schedule-store JSON: {symbol: {weekday: {schedules: [...]}}}.
func (l *Loader) Load(data []byte) (map[string]domain.WeeklySchedule, error) {
	var raw map[string]map[string]rawDay
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse schedule store: %w", err)
	}

	symbols := make(map[string]domain.WeeklySchedule, len(raw))
	for symbol, days := range raw {
		weekly := make(domain.WeeklySchedule, len(days))
		for weekday, day := range days {
			weekly[weekday] = l.buildDay(symbol, weekday, day)
		}
		symbols[symbol] = weekly
	}

	l.log.Debug().Int("symbols", len(symbols)).Msg("Schedule store loaded")
	return symbols, nil
}

// buildDay converts one weekday's raw segments and derives the min-open /
// max-close envelope across them.
func (l *Loader) buildDay(symbol, weekday string, day rawDay) domain.DaySchedule {
	var out domain.DaySchedule
	maxRolled := -1

	for _, seg := range day.Schedules {
		segment := domain.ScheduleSegment{MarketTime: seg.MarketTime}

		if seg.Open != nil {
			open, err := domain.ParseTimeOfDay(*seg.Open)
			if err != nil {
				l.log.Debug().Str("symbol", symbol).Str("weekday", weekday).
					Str("open", *seg.Open).Msg("Skipping segment with invalid open time")
				continue
			}
			segment.Open = &open
		}
		if seg.Close != nil {
			closeTime, err := domain.ParseTimeOfDay(*seg.Close)
			if err != nil {
				l.log.Debug().Str("symbol", symbol).Str("weekday", weekday).
					Str("close", *seg.Close).Msg("Skipping segment with invalid close time")
				continue
			}
			segment.Close = &closeTime
		}

		for _, group := range seg.Dates {
			dates := make([]domain.Date, 0, len(group))
			for _, s := range group {
				d, err := domain.ParseDate(s)
				if err != nil {
					l.log.Debug().Str("symbol", symbol).Str("weekday", weekday).
						Str("date", s).Msg("Skipping unparseable schedule date")
					continue
				}
				dates = append(dates, d)
			}
			segment.Dates = append(segment.Dates, dates)
		}

		if segment.Open != nil {
			if out.MinOpen == nil || segment.Open.Before(*out.MinOpen) {
				out.MinOpen = segment.Open
			}
		}
		if segment.Close != nil {
			// An overnight segment closes on the next day, so its close must
			// out-rank every same-day close in the envelope.
			rolled := int(segment.Close.Duration().Seconds())
			if segment.Open != nil {
				rolled = domain.RolledCloseSeconds(*segment.Open, *segment.Close)
			}
			if rolled > maxRolled {
				out.MaxClose = segment.Close
				maxRolled = rolled
			}
		}

		out.Schedules = append(out.Schedules, segment)
	}

	if out.MinOpen != nil && out.MaxClose != nil {
		allDay := out.MinOpen.IsMidnight() && out.MaxClose.IsMidnight()
		out.AllDay = &allDay
	}

	return out
}
