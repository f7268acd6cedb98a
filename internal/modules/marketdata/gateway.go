package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"marketline/internal/config"
	"marketline/internal/domain"
	"marketline/internal/modules/calendar"
	"marketline/internal/modules/history"
	"marketline/internal/modules/schedule"
	"marketline/internal/modules/sessions"
	"marketline/internal/modules/snapshots"
)

// Gateway drives the enrichment cycle. Each Refresh builds a fresh, frozen
// schedule snapshot and annotates against it; readers always see either the
// previous complete snapshot or the new one, never a half-built state.
type Gateway struct {
	log        zerolog.Logger
	params     *config.Parameters
	path       string
	loader     *schedule.Loader
	builder    *schedule.Builder
	classifier *sessions.Classifier
	provider   calendar.Provider
	repo       *history.Repository
	writer     *snapshots.Writer

	mu       sync.RWMutex
	snapshot *schedule.Snapshot
	prices   map[string][]*domain.PriceRecord
}

// NewGateway wires the pipeline. datasetPath points at the dataset snapshot
// JSON; repo and writer may be nil when persistence is not wanted (tests,
// dry runs).
func NewGateway(
	log zerolog.Logger,
	params *config.Parameters,
	datasetPath string,
	provider calendar.Provider,
	repo *history.Repository,
	writer *snapshots.Writer,
	devMode bool,
) *Gateway {
	return &Gateway{
		log:        log.With().Str("component", "marketdata_gateway").Logger(),
		params:     params,
		path:       datasetPath,
		loader:     schedule.NewLoader(log),
		builder:    schedule.NewBuilder(log, params.Weekdays, params.SmoothMaxGapDays, devMode),
		classifier: sessions.NewClassifier(log, params.Interval, params.DecayWindowDays),
		provider:   provider,
		repo:       repo,
		writer:     writer,
	}
}

// Refresh runs one full enrichment cycle: load the dataset, rebuild the
// schedule snapshot, fetch the calendar and annotate every symbol. A
// calendar-provider failure aborts the whole pass; everything else degrades
// per-record.
func (g *Gateway) Refresh(ctx context.Context) error {
	dataset, err := g.loadDataset()
	if err != nil {
		return err
	}

	prices := make(map[string][]*domain.PriceRecord, len(dataset))
	for symbol, entry := range dataset {
		records := entry.Prices
		sort.Slice(records, func(i, j int) bool {
			return records[i].DateTime.Before(records[j].DateTime)
		})
		prices[symbol] = records
	}

	// Stale symbols keep their price history but their schedules drop out of
	// aggregation, so a dormant listing cannot shape the consolidated timeline.
	stale := staleSet(prices, g.params.StaleDaysThreshold)
	if len(stale) > 0 {
		g.log.Info().Int("stale_symbols", len(stale)).Msg("Excluding stale symbols from schedule aggregation")
	}

	symbols, err := g.loadSchedules(dataset, stale)
	if err != nil {
		return err
	}

	snapshot := g.builder.Build(symbols)

	cal, err := g.provider.Calendar(ctx)
	if err != nil {
		return fmt.Errorf("annotation pass aborted: %w", err)
	}

	// Records are classified independently, so symbols fan out in parallel;
	// within a symbol the pass stays chronological.
	group, gctx := errgroup.WithContext(ctx)
	for _, records := range prices {
		records := records
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for _, rec := range records {
				g.classifier.Classify(rec, snapshot.MarketTime, cal)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("annotation pass failed: %w", err)
	}

	if g.repo != nil {
		names := sortedKeys(prices)
		for _, symbol := range names {
			if err := g.repo.SaveAnnotated(symbol, prices[symbol]); err != nil {
				return fmt.Errorf("failed to persist %s: %w", symbol, err)
			}
		}
	}

	if g.writer != nil {
		if err := g.writer.Write(snapshot); err != nil {
			return fmt.Errorf("failed to persist snapshot artifacts: %w", err)
		}
	}

	g.mu.Lock()
	g.snapshot = snapshot
	g.prices = prices
	g.mu.Unlock()

	g.log.Info().
		Str("version", snapshot.Version).
		Int("symbols", len(prices)).
		Msg("Enrichment cycle complete")
	return nil
}

// Snapshot returns the last built schedule snapshot, or nil before the first
// refresh.
func (g *Gateway) Snapshot() *schedule.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

// AnnotatedRecords returns a symbol's annotated records in chronological
// order, rendered in the configured raw/scaled mode.
func (g *Gateway) AnnotatedRecords(symbol string) ([]map[string]interface{}, bool) {
	g.mu.RLock()
	records, ok := g.prices[symbol]
	g.mu.RUnlock()
	if !ok {
		return nil, false
	}

	docs := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec.Document(g.params.RawMode))
	}
	return docs, true
}

// ResolveWindow resolves the trading window for a calendar date against the
// current snapshot.
func (g *Gateway) ResolveWindow(day domain.Date) (sessions.Window, bool) {
	snapshot := g.Snapshot()
	if snapshot == nil {
		return sessions.Window{}, false
	}
	return sessions.Resolve(day, snapshot.MarketTime)
}

// LatestPriceDate returns the newest record date across the whole dataset.
func (g *Gateway) LatestPriceDate() *domain.Date {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var latest *domain.Date
	for _, records := range g.prices {
		if len(records) == 0 {
			continue
		}
		d := records[len(records)-1].Date()
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest
}

// SymbolStatuses reports per-symbol freshness. A symbol is stale when its
// newest record lags the dataset's newest date by more than the configured
// threshold.
func (g *Gateway) SymbolStatuses() []SymbolStatus {
	datasetLatest := g.LatestPriceDate()

	g.mu.RLock()
	defer g.mu.RUnlock()

	statuses := make([]SymbolStatus, 0, len(g.prices))
	for _, symbol := range sortedKeys(g.prices) {
		records := g.prices[symbol]
		status := SymbolStatus{Symbol: symbol, Records: len(records)}
		if len(records) > 0 {
			d := records[len(records)-1].Date()
			status.LatestDate = &d
			if datasetLatest != nil {
				status.Stale = d.DaysUntil(*datasetLatest) > g.params.StaleDaysThreshold
			}
		} else {
			status.Stale = true
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// StaleSymbols returns the symbols flagged stale, sorted.
func (g *Gateway) StaleSymbols() []string {
	var stale []string
	for _, status := range g.SymbolStatuses() {
		if status.Stale {
			stale = append(stale, status.Symbol)
		}
	}
	return stale
}

func (g *Gateway) loadDataset() (datasetFile, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset snapshot %s: %w", g.path, err)
	}

	var dataset datasetFile
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse dataset snapshot %s: %w", g.path, err)
	}
	return dataset, nil
}

// loadSchedules reassembles the schedule subtrees into a schedule-store
// document and hands it to the schedule loader. Excluded symbols are left out.
func (g *Gateway) loadSchedules(dataset datasetFile, exclude map[string]bool) (map[string]domain.WeeklySchedule, error) {
	store := make(map[string]json.RawMessage, len(dataset))
	for symbol, entry := range dataset {
		if len(entry.Schedule) == 0 || exclude[symbol] {
			continue
		}
		store[symbol] = entry.Schedule
	}

	data, err := json.Marshal(store)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble schedule store: %w", err)
	}
	return g.loader.Load(data)
}

// staleSet flags symbols whose newest record lags the dataset's newest date
// by more than threshold days. Symbols without any records are stale.
func staleSet(prices map[string][]*domain.PriceRecord, threshold int) map[string]bool {
	var latest *domain.Date
	for _, records := range prices {
		if len(records) == 0 {
			continue
		}
		d := records[len(records)-1].Date()
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}

	stale := make(map[string]bool)
	for symbol, records := range prices {
		if len(records) == 0 {
			stale[symbol] = true
			continue
		}
		if latest != nil && records[len(records)-1].Date().DaysUntil(*latest) > threshold {
			stale[symbol] = true
		}
	}
	return stale
}

func sortedKeys(m map[string][]*domain.PriceRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
