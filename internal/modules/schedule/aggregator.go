package schedule

import (
	"sort"

	"github.com/rs/zerolog"

	"marketline/internal/domain"
)

// Aggregator consolidates per-symbol weekly schedules into one global
// per-weekday summary: the earliest open, the latest close and the distinct
// open/close variants with the symbols trading on each.
type Aggregator struct {
	log      zerolog.Logger
	weekdays []string
}

// NewAggregator creates an aggregator with the canonical weekday ordering.
func NewAggregator(log zerolog.Logger, weekdays []string) *Aggregator {
	return &Aggregator{
		log:      log.With().Str("component", "schedule_aggregator").Logger(),
		weekdays: weekdays,
	}
}

// variantKey identifies one distinct (open, close) pair. The string forms
// sort lexicographically in chronological order.
type variantKey struct {
	open  string
	close string
}

// Aggregate builds the global schedule. Symbols whose day is missing either
// the open or the close envelope are excluded for that day; a weekday with no
// usable symbols yields a single placeholder variant with a nil all-day flag.
func (a *Aggregator) Aggregate(symbols map[string]domain.WeeklySchedule) domain.GlobalSchedule {
	global := make(domain.GlobalSchedule, len(a.weekdays))

	for _, weekday := range a.weekdays {
		variants := make(map[variantKey][]string)
		times := make(map[variantKey][2]domain.TimeOfDay)

		for symbol, weekly := range symbols {
			day, ok := weekly[weekday]
			if !ok || day.MinOpen == nil || day.MaxClose == nil {
				continue
			}
			key := variantKey{open: day.MinOpen.String(), close: day.MaxClose.String()}
			variants[key] = append(variants[key], symbol)
			times[key] = [2]domain.TimeOfDay{*day.MinOpen, *day.MaxClose}
		}

		if len(variants) == 0 {
			global[weekday] = domain.GlobalDaySchedule{
				Schedules: []domain.ScheduleVariant{{AllDay: nil}},
			}
			continue
		}

		keys := make([]variantKey, 0, len(variants))
		for key := range variants {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].open != keys[j].open {
				return keys[i].open < keys[j].open
			}
			return keys[i].close < keys[j].close
		})

		day := domain.GlobalDaySchedule{
			Schedules: make([]domain.ScheduleVariant, 0, len(keys)),
		}
		maxRolled := -1
		for _, key := range keys {
			open, closeTime := times[key][0], times[key][1]
			members := variants[key]
			sort.Strings(members)

			allDay := open.IsMidnight() && closeTime.IsMidnight()
			openCopy, closeCopy := open, closeTime
			day.Schedules = append(day.Schedules, domain.ScheduleVariant{
				AllDay:    &allDay,
				Open:      &openCopy,
				Close:     &closeCopy,
				Symbols:   members,
				OpenHours: domain.SessionHours(open, closeTime),
			})

			if day.MinOpen == nil || openCopy.Before(*day.MinOpen) {
				day.MinOpen = &openCopy
			}
			// Closes compare rolled relative to their own variant's open, so
			// an overnight close outranks every same-day close.
			if rolled := domain.RolledCloseSeconds(openCopy, closeCopy); rolled > maxRolled {
				day.MaxClose = &closeCopy
				maxRolled = rolled
			}
		}

		global[weekday] = day
	}

	a.log.Debug().Int("weekdays", len(global)).Msg("Global schedule aggregated")
	return global
}
