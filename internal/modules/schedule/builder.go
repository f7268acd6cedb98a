package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marketline/internal/domain"
)

// Snapshot is one frozen, versioned build of the consolidated calendar.
// Classification runs against a snapshot, never against live schedule state,
// so a rebuild can never race an annotation pass.
type Snapshot struct {
	Version    string                     `json:"version"`
	BuiltAt    time.Time                  `json:"built_at"`
	Global     domain.GlobalSchedule      `json:"global_schedule"`
	MarketTime []domain.CanonicalInterval `json:"market_time"`
}

// Builder orchestrates the full schedule pipeline: aggregate the global
// summary, then extract -> merge -> smooth the canonical interval list.
type Builder struct {
	log        zerolog.Logger
	aggregator *Aggregator
	maxGapDays int
	validate   bool
}

// NewBuilder creates a builder. maxGapDays caps edge smoothing (0 = no cap);
// validate enables interval invariant checks after each build, intended for
// development mode.
func NewBuilder(log zerolog.Logger, weekdays []string, maxGapDays int, validate bool) *Builder {
	return &Builder{
		log:        log.With().Str("component", "schedule_builder").Logger(),
		aggregator: NewAggregator(log, weekdays),
		maxGapDays: maxGapDays,
		validate:   validate,
	}
}

// Build derives a new snapshot from the per-symbol weekly schedules.
func (b *Builder) Build(symbols map[string]domain.WeeklySchedule) *Snapshot {
	global := b.aggregator.Aggregate(symbols)

	raw := Extract(symbols)
	merged := Merge(raw)
	smoothed := Smooth(merged, b.maxGapDays)

	snapshot := &Snapshot{
		Version:    uuid.New().String(),
		BuiltAt:    time.Now().UTC(),
		Global:     global,
		MarketTime: smoothed,
	}

	if b.validate {
		if err := ValidateIntervals(snapshot.MarketTime); err != nil {
			b.log.Warn().Err(err).Msg("Built interval list violates ordering invariants")
		}
	}

	b.log.Info().
		Str("version", snapshot.Version).
		Int("symbols", len(symbols)).
		Int("raw_intervals", len(raw)).
		Int("merged_intervals", len(merged)).
		Int("market_time", len(smoothed)).
		Msg("Schedule snapshot built")

	return snapshot
}

// ValidateIntervals checks the canonical-interval invariants: ascending
// order, no date-range overlap, and open-ended extremities. Violations mean
// the list did not come out of the merge/smooth pipeline.
func ValidateIntervals(intervals []domain.CanonicalInterval) error {
	if len(intervals) == 0 {
		return nil
	}
	if intervals[0].From != nil {
		return fmt.Errorf("first interval must be open-ended in the past, got from=%s", intervals[0].From)
	}
	if intervals[len(intervals)-1].To != nil {
		return fmt.Errorf("last interval must be open-ended in the future, got to=%s", intervals[len(intervals)-1].To)
	}
	for i := 0; i < len(intervals)-1; i++ {
		cur, next := intervals[i], intervals[i+1]
		if cur.To == nil {
			return fmt.Errorf("interval %d has no upper bound but is not last", i)
		}
		if next.From == nil {
			return fmt.Errorf("interval %d has no lower bound but is not first", i+1)
		}
		if !next.From.After(*cur.To) {
			return fmt.Errorf("intervals %d and %d overlap: to=%s, from=%s", i, i+1, cur.To, next.From)
		}
	}
	return nil
}
