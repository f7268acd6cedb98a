// Package marketdata orchestrates the enrichment pipeline: it loads the
// dataset snapshot, rebuilds the schedule snapshot, pulls the market
// calendar and annotates every symbol's price history against both.
package marketdata

import (
	"encoding/json"

	"marketline/internal/domain"
)

// datasetEntry is one symbol's slice of the dataset snapshot file. The
// schedule subtree is kept opaque here and handed to the schedule loader.
type datasetEntry struct {
	Schedule json.RawMessage       `json:"schedule"`
	Prices   []*domain.PriceRecord `json:"prices"`
}

// datasetFile is the on-disk dataset snapshot: {symbol: {schedule, prices}}.
type datasetFile map[string]datasetEntry

// SymbolStatus summarizes one symbol's freshness within the dataset.
type SymbolStatus struct {
	Symbol     string       `json:"symbol"`
	LatestDate *domain.Date `json:"latest_date,omitempty"`
	Records    int          `json:"records"`
	Stale      bool         `json:"stale"`
}
