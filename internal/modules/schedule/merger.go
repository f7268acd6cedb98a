package schedule

import (
	"sort"

	"marketline/internal/domain"
)

// Merge deduplicates raw intervals and folds them into a canonical,
// non-overlapping, ascending sequence. Adjacent intervals with identical
// open/close times are merged when their date ranges touch or are within one
// day of each other. Empty input yields empty output.
func Merge(raw []domain.RawInterval) []domain.CanonicalInterval {
	seen := make(map[string]struct{}, len(raw))
	unique := make([]domain.RawInterval, 0, len(raw))
	for _, interval := range raw {
		key := interval.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, interval)
	}

	sort.Slice(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		if !a.From.Equal(b.From) {
			return a.From.Before(b.From)
		}
		if !a.To.Equal(b.To) {
			return a.To.Before(b.To)
		}
		if !a.Open.Equal(b.Open) {
			return a.Open.Before(b.Open)
		}
		return a.Close.Before(b.Close)
	})

	grouped := make([]domain.CanonicalInterval, 0, len(unique))
	for _, interval := range unique {
		from, to := interval.From, interval.To

		if len(grouped) > 0 {
			last := &grouped[len(grouped)-1]
			sameWindow := last.Open.Equal(interval.Open) && last.Close.Equal(interval.Close)
			if sameWindow && !from.After(last.To.AddDays(1)) {
				merged := last.To.Max(to)
				last.To = &merged
				continue
			}
		}

		grouped = append(grouped, domain.CanonicalInterval{
			From:  &from,
			To:    &to,
			Open:  interval.Open,
			Close: interval.Close,
		})
	}

	return grouped
}
