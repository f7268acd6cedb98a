package schedule

import (
	"sort"

	"marketline/internal/domain"
)

// Extract walks every symbol's per-weekday schedule history and emits one raw
// interval per contiguous date group of a segment flagged as the tradable
// session. Segments without both open and close, segments not flagged
// market_time, and empty date groups are skipped; they represent auxiliary or
// incomplete windows, not errors. Symbols are visited in sorted order so the
// output is deterministic.
func Extract(symbols map[string]domain.WeeklySchedule) []domain.RawInterval {
	names := make([]string, 0, len(symbols))
	for symbol := range symbols {
		names = append(names, symbol)
	}
	sort.Strings(names)

	var raw []domain.RawInterval
	for _, symbol := range names {
		weekly := symbols[symbol]
		weekdays := make([]string, 0, len(weekly))
		for weekday := range weekly {
			weekdays = append(weekdays, weekday)
		}
		sort.Strings(weekdays)

		for _, weekday := range weekdays {
			for _, segment := range weekly[weekday].Schedules {
				if !segment.MarketTime || segment.Open == nil || segment.Close == nil {
					continue
				}
				for _, group := range segment.Dates {
					if len(group) == 0 {
						continue
					}
					raw = append(raw, domain.RawInterval{
						From:  group[0],
						To:    group[len(group)-1],
						Open:  *segment.Open,
						Close: *segment.Close,
					})
				}
			}
		}
	}
	return raw
}
