package schedule

import "marketline/internal/domain"

// Smooth removes residual day-gaps between adjacent merged intervals by
// re-centering each boundary on the gap's midpoint day, then open-ends the
// first and last intervals. Must run after Merge: re-centering first would
// corrupt duplicate-window detection, and trimming before re-centering would
// break the midpoint computation on the former extremities.
//
// maxGapDays caps re-centering: gaps leaving more than that many uncovered
// days between two intervals are left as-is, so a long dormant period is not
// silently bridged. Zero means no cap.
func Smooth(intervals []domain.CanonicalInterval, maxGapDays int) []domain.CanonicalInterval {
	out := make([]domain.CanonicalInterval, len(intervals))
	copy(out, intervals)

	for i := 0; i < len(out)-1; i++ {
		cur, next := &out[i], &out[i+1]
		if cur.To == nil || next.From == nil {
			continue
		}

		gap := cur.To.DaysUntil(*next.From)
		if maxGapDays > 0 && gap-1 > maxGapDays {
			continue
		}

		// Floor the half-gap: when overlapping intervals with differing
		// windows survive merging the gap is negative, and truncation would
		// shift the midpoint a day late.
		half := gap / 2
		if gap < 0 && gap%2 != 0 {
			half--
		}
		mid := cur.To.AddDays(half)
		after := mid.AddDays(1)
		cur.To = &mid
		next.From = &after
	}

	if len(out) > 0 {
		out[0].From = nil
		out[len(out)-1].To = nil
	}

	return out
}
