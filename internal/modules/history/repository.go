// Package history persists annotated price records to SQLite.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"marketline/internal/domain"
)

// Repository provides access to the annotated price history table.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a price history repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "history_repository").Logger(),
	}
}

// EnsureSchema creates the annotated prices table if it does not exist.
func (r *Repository) EnsureSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS annotated_prices (
			symbol TEXT NOT NULL,
			datetime INTEGER NOT NULL,
			open REAL NOT NULL,
			high REAL NOT NULL,
			low REAL NOT NULL,
			close REAL NOT NULL,
			volume INTEGER,
			is_pre_market_time REAL NOT NULL DEFAULT 0,
			is_market_time REAL NOT NULL DEFAULT 0,
			is_post_market_time REAL NOT NULL DEFAULT 0,
			is_market_day REAL NOT NULL DEFAULT 0,
			is_holiday REAL NOT NULL DEFAULT 0,
			is_pre_holiday REAL NOT NULL DEFAULT 0,
			is_post_holiday REAL NOT NULL DEFAULT 0,
			is_fed_event REAL NOT NULL DEFAULT 0,
			is_pre_fed_event REAL NOT NULL DEFAULT 0,
			is_post_fed_event REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (symbol, datetime)
		);
		CREATE INDEX IF NOT EXISTS idx_annotated_prices_datetime
			ON annotated_prices(datetime);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create annotated_prices schema: %w", err)
	}
	return nil
}

// SaveAnnotated replaces a symbol's annotated records in one transaction.
// Timestamps are stored as Unix seconds.
func (r *Repository) SaveAnnotated(symbol string, records []*domain.PriceRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO annotated_prices (
			symbol, datetime, open, high, low, close, volume,
			is_pre_market_time, is_market_time, is_post_market_time, is_market_day,
			is_holiday, is_pre_holiday, is_post_holiday,
			is_fed_event, is_pre_fed_event, is_post_fed_event
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var volume interface{}
		if rec.Volume != nil {
			volume = *rec.Volume
		}
		_, err := stmt.Exec(
			symbol, rec.DateTime.UTC().Unix(),
			rec.Open, rec.High, rec.Low, rec.Close, volume,
			rec.IsPreMarketTime, rec.IsMarketTime, rec.IsPostMarketTime, rec.IsMarketDay,
			rec.IsHoliday, rec.IsPreHoliday, rec.IsPostHoliday,
			rec.IsFedEvent, rec.IsPreFedEvent, rec.IsPostFedEvent,
		)
		if err != nil {
			return fmt.Errorf("failed to insert annotated price for %s: %w", symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit annotated prices: %w", err)
	}

	r.log.Debug().Str("symbol", symbol).Int("records", len(records)).Msg("Annotated prices saved")
	return nil
}

// GetAnnotated fetches a symbol's annotated records, newest first.
func (r *Repository) GetAnnotated(symbol string, limit int) ([]*domain.PriceRecord, error) {
	query := `
		SELECT datetime, open, high, low, close, volume,
			is_pre_market_time, is_market_time, is_post_market_time, is_market_day,
			is_holiday, is_pre_holiday, is_post_holiday,
			is_fed_event, is_pre_fed_event, is_post_fed_event
		FROM annotated_prices
		WHERE symbol = ?
		ORDER BY datetime DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotated prices: %w", err)
	}
	defer rows.Close()

	var records []*domain.PriceRecord
	for rows.Next() {
		var rec domain.PriceRecord
		var unix int64
		var volume sql.NullInt64

		err := rows.Scan(
			&unix, &rec.Open, &rec.High, &rec.Low, &rec.Close, &volume,
			&rec.IsPreMarketTime, &rec.IsMarketTime, &rec.IsPostMarketTime, &rec.IsMarketDay,
			&rec.IsHoliday, &rec.IsPreHoliday, &rec.IsPostHoliday,
			&rec.IsFedEvent, &rec.IsPreFedEvent, &rec.IsPostFedEvent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan annotated price: %w", err)
		}

		rec.DateTime = time.Unix(unix, 0).UTC()
		if volume.Valid {
			rec.Volume = &volume.Int64
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotated prices: %w", err)
	}

	return records, nil
}

// LatestDate returns the date of a symbol's newest record, or nil when the
// symbol has no history.
func (r *Repository) LatestDate(symbol string) (*domain.Date, error) {
	var unix sql.NullInt64
	err := r.db.QueryRow(
		`SELECT MAX(datetime) FROM annotated_prices WHERE symbol = ?`, symbol,
	).Scan(&unix)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest date: %w", err)
	}
	if !unix.Valid {
		return nil, nil
	}
	d := domain.DateOf(time.Unix(unix.Int64, 0))
	return &d, nil
}

// Symbols returns the distinct symbols with stored history, sorted.
func (r *Repository) Symbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM annotated_prices ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}
	return symbols, nil
}
