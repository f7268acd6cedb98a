package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"marketline/internal/domain"
)

// Handlers serves the calendar-engine API endpoints.
type Handlers struct {
	log     zerolog.Logger
	service MarketDataService
}

// NewHandlers creates the API handlers.
func NewHandlers(log zerolog.Logger, service MarketDataService) *Handlers {
	return &Handlers{
		log:     log.With().Str("handler", "marketdata").Logger(),
		service: service,
	}
}

// HandleGetSchedule handles GET /api/schedule
// Returns the consolidated global schedule of the current snapshot.
func (h *Handlers) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	snapshot := h.service.Snapshot()
	if snapshot == nil {
		writeError(w, http.StatusServiceUnavailable, "No schedule snapshot built yet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":         snapshot.Version,
		"built_at":        snapshot.BuiltAt.Format(time.RFC3339),
		"global_schedule": snapshot.Global,
	})
}

// HandleGetMarketTime handles GET /api/market-time
// Returns the canonical trading interval list of the current snapshot.
func (h *Handlers) HandleGetMarketTime(w http.ResponseWriter, r *http.Request) {
	snapshot := h.service.Snapshot()
	if snapshot == nil {
		writeError(w, http.StatusServiceUnavailable, "No schedule snapshot built yet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":     snapshot.Version,
		"built_at":    snapshot.BuiltAt.Format(time.RFC3339),
		"market_time": snapshot.MarketTime,
	})
}

// HandleResolveWindow handles GET /api/market-time/resolve?date=YYYY-MM-DD
// Resolves the UTC trading window for a calendar date.
func (h *Handlers) HandleResolveWindow(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Missing date parameter")
		return
	}

	day, err := domain.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	window, ok := h.service.ResolveWindow(day)
	if !ok {
		writeError(w, http.StatusNotFound, "No trading window for date")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":  day.String(),
		"open":  window.Open.Format(time.RFC3339),
		"close": window.Close.Format(time.RFC3339),
	})
}

// HandleGetSymbols handles GET /api/symbols
// Returns per-symbol freshness, including stale flags.
func (h *Handlers) HandleGetSymbols(w http.ResponseWriter, r *http.Request) {
	statuses := h.service.SymbolStatuses()

	payload := map[string]interface{}{
		"symbols": statuses,
	}
	if latest := h.service.LatestPriceDate(); latest != nil {
		payload["latest_price_date"] = latest.String()
	}

	writeJSON(w, http.StatusOK, payload)
}

// HandleGetRecords handles GET /api/symbols/{symbol}/records
// Returns a symbol's annotated price records in chronological order.
func (h *Handlers) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	records, ok := h.service.AnnotatedRecords(symbol)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown symbol")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  symbol,
		"records": records,
	})
}

// HandleRefresh handles POST /api/refresh
// Runs one enrichment cycle synchronously.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Refresh failed")
		writeError(w, http.StatusInternalServerError, "Refresh failed")
		return
	}

	snapshot := h.service.Snapshot()
	payload := map[string]interface{}{"status": "ok"}
	if snapshot != nil {
		payload["version"] = snapshot.Version
	}
	writeJSON(w, http.StatusOK, payload)
}

// writeJSON wraps the payload in the standard {data, metadata} envelope.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	_ = json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}
