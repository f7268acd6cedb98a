package sessions

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketline/internal/domain"
	"marketline/internal/modules/calendar"
)

func testCalendar(t *testing.T, holidays ...string) *calendar.MarketCalendar {
	var fedEvents []string
	t.Helper()
	parse := func(raw []string) calendar.EventDates {
		dates := make([]domain.Date, 0, len(raw))
		for _, s := range raw {
			dates = append(dates, date(t, s))
		}
		return calendar.NewEventDates(dates)
	}
	return &calendar.MarketCalendar{
		Name:      "TEST",
		Holidays:  parse(holidays),
		FedEvents: parse(fedEvents),
	}
}

func regularIntervals(t *testing.T) []domain.CanonicalInterval {
	t.Helper()
	return []domain.CanonicalInterval{
		interval(t, "", "", "09:30:00", "16:00:00"),
	}
}

func record(ts time.Time) *domain.PriceRecord {
	return &domain.PriceRecord{DateTime: ts, Open: 100, High: 101, Low: 99, Close: 100.5}
}

func TestClassifier_IntradayPartition(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	classifier := NewClassifier(log, "15min", 5)
	cal := testCalendar(t)

	tests := []struct {
		name                   string
		ts                     time.Time
		wantPre, wantMkt, wantPost bool
	}{
		// 2025-03-10 is a Monday.
		{"before open", time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), true, false, false},
		{"at open", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), false, true, false},
		{"mid session", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), false, true, false},
		{"at close", time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC), false, false, true},
		{"after close", time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record(tt.ts)
			classifier.Classify(rec, regularIntervals(t), cal)

			assert.Equal(t, boolToFloat(tt.wantPre), rec.IsPreMarketTime)
			assert.Equal(t, boolToFloat(tt.wantMkt), rec.IsMarketTime)
			assert.Equal(t, boolToFloat(tt.wantPost), rec.IsPostMarketTime)
			assert.Equal(t, 1.0, rec.IsMarketDay)

			// Exactly one phase flag is set for a resolved window.
			sum := rec.IsPreMarketTime + rec.IsMarketTime + rec.IsPostMarketTime
			assert.Equal(t, 1.0, sum)
		})
	}
}

func TestClassifier_WeekendShortCircuit(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	classifier := NewClassifier(log, "15min", 5)
	cal := testCalendar(t)

	// 2025-03-08 is a Saturday, squarely inside the session time range.
	rec := record(time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC))
	classifier.Classify(rec, regularIntervals(t), cal)

	assert.Equal(t, 0.0, rec.IsPreMarketTime)
	assert.Equal(t, 0.0, rec.IsMarketTime)
	assert.Equal(t, 0.0, rec.IsPostMarketTime)
	assert.Equal(t, 0.0, rec.IsMarketDay)
}

func TestClassifier_HolidayShortCircuit(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	classifier := NewClassifier(log, "15min", 5)
	// 2025-07-04 is a Friday.
	cal := testCalendar(t, "2025-07-04")

	rec := record(time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC))
	classifier.Classify(rec, regularIntervals(t), cal)

	assert.Equal(t, 1.0, rec.IsHoliday)
	assert.Equal(t, 0.0, rec.IsMarketTime)
	assert.Equal(t, 0.0, rec.IsMarketDay)
}

func TestClassifier_HolidayProximityExample(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	classifier := NewClassifier(log, "1d", 5)
	cal := testCalendar(t, "2025-07-04")

	// Two days before the holiday: (5-2+1)/5 = 0.8.
	rec := record(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))
	classifier.Classify(rec, regularIntervals(t), cal)

	assert.Equal(t, 0.0, rec.IsHoliday)
	assert.InDelta(t, 0.8, rec.IsPreHoliday, 1e-9)
	assert.Equal(t, 0.0, rec.IsPostHoliday)
}

func TestClassifier_FedEventIndependentOfHolidays(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	classifier := NewClassifier(log, "1d", 5)
	cal := testCalendar(t, "2025-07-04")
	fedCal := testCalendar(t)
	fedCal.FedEvents = cal.Holidays // reuse the dates on the other calendar
	fedCal.Holidays = calendar.NewEventDates(nil)

	rec := record(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))
	classifier.Classify(rec, regularIntervals(t), fedCal)

	assert.Equal(t, 0.0, rec.IsPreHoliday, "holiday features must not pick up fed events")
	assert.InDelta(t, 0.8, rec.IsPreFedEvent, 1e-9)
}

func TestClassifier_DailyGranularity(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	classifier := NewClassifier(log, "1d", 5)
	cal := testCalendar(t)

	// Daily bars are stamped at midnight, before any session open.
	rec := record(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	classifier.Classify(rec, regularIntervals(t), cal)

	assert.Equal(t, 0.0, rec.IsPreMarketTime)
	assert.Equal(t, 1.0, rec.IsMarketTime)
	assert.Equal(t, 0.0, rec.IsPostMarketTime)
	assert.Equal(t, 1.0, rec.IsMarketDay)
}

func TestClassifier_HourlyBarsFloorOpenToHour(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	classifier := NewClassifier(log, "1h", 5)
	cal := testCalendar(t)

	// The 09:00 hourly bar contains the 09:30 open, so it counts as market.
	rec := record(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	classifier.Classify(rec, regularIntervals(t), cal)

	assert.Equal(t, 1.0, rec.IsMarketTime)
}

func TestClassifier_UnresolvableWindow(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	classifier := NewClassifier(log, "15min", 5)
	cal := testCalendar(t)

	rec := record(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	classifier.Classify(rec, nil, cal)

	assert.Equal(t, 0.0, rec.IsMarketTime)
	assert.Equal(t, 0.0, rec.IsMarketDay)
}

func TestClassifier_OvernightSessionSpansMidnight(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	classifier := NewClassifier(log, "15min", 5)
	cal := testCalendar(t)

	intervals := []domain.CanonicalInterval{
		interval(t, "", "", "22:00:00", "02:00:00"),
	}

	rec := record(time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC))
	classifier.Classify(rec, intervals, cal)
	assert.Equal(t, 1.0, rec.IsMarketTime)

	rec = record(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	classifier.Classify(rec, intervals, cal)
	assert.Equal(t, 1.0, rec.IsPreMarketTime)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func TestClassifier_GranularitySelection(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)

	require.Equal(t, GranularityDaily, NewClassifier(log, "1d", 5).Granularity())
	require.Equal(t, GranularityDaily, NewClassifier(log, "1wk", 5).Granularity())
	require.Equal(t, GranularityIntraday, NewClassifier(log, "1h", 5).Granularity())
	require.Equal(t, GranularityIntraday, NewClassifier(log, "15min", 5).Granularity())
}
