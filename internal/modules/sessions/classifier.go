package sessions

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marketline/internal/domain"
	"marketline/internal/modules/calendar"
)

// Granularity selects how much of a bar's timestamp participates in
// classification.
type Granularity string

const (
	// GranularityIntraday compares the full timestamp against the session
	// window, yielding the pre/market/post partition.
	GranularityIntraday Granularity = "intraday"
	// GranularityDaily ignores the time of day: any date with a resolvable
	// window counts as a regular market bar.
	GranularityDaily Granularity = "daily"
)

// Classifier annotates price records with session-phase flags and event
// proximity features. It carries no inter-record state, so one classifier
// can annotate records in any order or in parallel.
type Classifier struct {
	log         zerolog.Logger
	granularity Granularity
	floorHour   bool
	decayWindow int
}

// NewClassifier creates a classifier for the dataset's bar interval
// ("1d", "1h", "15min", ...). Daily and coarser bars get daily granularity;
// hourly bars additionally floor the session open to the hour so the bar
// containing the open is counted as market time.
func NewClassifier(log zerolog.Logger, interval string, decayWindow int) *Classifier {
	granularity := GranularityIntraday
	floorHour := false
	switch {
	case strings.HasSuffix(interval, "d") || strings.HasSuffix(interval, "wk") || strings.HasSuffix(interval, "mo"):
		granularity = GranularityDaily
	case strings.HasSuffix(interval, "h"):
		floorHour = true
	}

	if decayWindow <= 0 {
		decayWindow = calendar.DefaultDecayWindow
	}

	return &Classifier{
		log:         log.With().Str("component", "session_classifier").Logger(),
		granularity: granularity,
		floorHour:   floorHour,
		decayWindow: decayWindow,
	}
}

// Granularity returns the classifier's timestamp granularity.
func (c *Classifier) Granularity() Granularity {
	return c.granularity
}

// Classify annotates one record in place. Weekend and holiday checks
// short-circuit before window resolution: no session lookup is attempted for
// known non-trading days. An unresolvable window leaves the phase flags at
// non-trading and logs at debug level.
func (c *Classifier) Classify(record *domain.PriceRecord, intervals []domain.CanonicalInterval, cal *calendar.MarketCalendar) {
	day := record.Date()

	record.SetHolidayProximity(calendar.Proximity(day, cal.Holidays, c.decayWindow))
	record.SetFedEventProximity(calendar.Proximity(day, cal.FedEvents, c.decayWindow))

	if !day.IsWorkweek() || record.OnHoliday() {
		record.ClearSessionPhase()
		return
	}

	window, ok := Resolve(day, intervals)
	if !ok {
		record.ClearSessionPhase()
		c.log.Debug().
			Str("date", day.String()).
			Msg("No trading window resolved for record")
		return
	}

	if c.granularity == GranularityDaily {
		record.SetSessionPhase(false, true, false)
		return
	}

	open := window.Open
	if c.floorHour {
		open = open.Truncate(time.Hour)
	}

	dt := record.DateTime.UTC()
	pre := dt.Before(open)
	market := !dt.Before(open) && dt.Before(window.Close)
	post := !dt.Before(window.Close)
	record.SetSessionPhase(pre, market, post)
}
