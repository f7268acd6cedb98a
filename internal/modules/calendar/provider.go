package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"marketline/internal/domain"
)

// MarketCalendar is one reference period's calendar: a name plus the two
// independent event-date sets.
type MarketCalendar struct {
	Name      string
	Holidays  EventDates
	FedEvents EventDates
}

// Provider supplies the market calendar for the reference period. A provider
// failure is fatal for the whole annotation pass: holiday classification is
// impossible without it, so callers must propagate the error rather than
// degrade.
type Provider interface {
	Calendar(ctx context.Context) (*MarketCalendar, error)
}

// calendarFile mirrors the calendar JSON on disk.
type calendarFile struct {
	CalendarName string   `json:"calendar_name"`
	HolidayDays  []string `json:"holiday_days"`
	FedEventDays []string `json:"fed_event_days"`
}

// FileProvider loads the market calendar from a JSON file. Individual
// unparseable dates are skipped with a warning; a missing or malformed file
// is an error.
type FileProvider struct {
	log  zerolog.Logger
	path string
}

// NewFileProvider creates a calendar provider backed by a JSON file.
func NewFileProvider(log zerolog.Logger, path string) *FileProvider {
	return &FileProvider{
		log:  log.With().Str("component", "calendar_provider").Logger(),
		path: path,
	}
}

// Calendar loads and parses the calendar file.
func (p *FileProvider) Calendar(ctx context.Context) (*MarketCalendar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("calendar unavailable at %s: %w", p.path, err)
	}

	var file calendarFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse calendar file %s: %w", p.path, err)
	}

	cal := &MarketCalendar{
		Name:      file.CalendarName,
		Holidays:  p.parseDates("holiday", file.HolidayDays),
		FedEvents: p.parseDates("fed_event", file.FedEventDays),
	}

	p.log.Debug().
		Str("calendar", cal.Name).
		Int("holidays", cal.Holidays.Len()).
		Int("fed_events", cal.FedEvents.Len()).
		Msg("Market calendar loaded")

	return cal, nil
}

func (p *FileProvider) parseDates(kind string, raw []string) EventDates {
	dates := make([]domain.Date, 0, len(raw))
	for _, s := range raw {
		d, err := domain.ParseDate(s)
		if err != nil {
			p.log.Warn().Str("kind", kind).Str("date", s).Msg("Skipping unparseable calendar date")
			continue
		}
		dates = append(dates, d)
	}
	return NewEventDates(dates)
}

// StaticProvider serves a fixed calendar, used in tests and for wiring
// pipelines against an already-loaded calendar.
type StaticProvider struct {
	Cal *MarketCalendar
}

// Calendar returns the fixed calendar.
func (p *StaticProvider) Calendar(ctx context.Context) (*MarketCalendar, error) {
	if p.Cal == nil {
		return nil, fmt.Errorf("no calendar configured")
	}
	return p.Cal, nil
}
