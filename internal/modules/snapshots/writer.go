// Package snapshots persists schedule build artifacts as JSON files for
// inspection and downstream tooling.
package snapshots

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"marketline/internal/domain"
	"marketline/internal/modules/schedule"
)

const (
	// GlobalScheduleFile is the consolidated per-weekday summary artifact.
	GlobalScheduleFile = "global_schedule.json"
	// MarketTimeFile is the canonical interval list artifact.
	MarketTimeFile = "market_time.json"
)

// globalScheduleArtifact is the on-disk shape of the global schedule.
type globalScheduleArtifact struct {
	Version        string                `json:"version"`
	BuiltAt        time.Time             `json:"built_at"`
	GlobalSchedule domain.GlobalSchedule `json:"global_schedule"`
}

// marketTimeArtifact is the on-disk shape of the canonical interval list.
type marketTimeArtifact struct {
	Version    string                     `json:"version"`
	BuiltAt    time.Time                  `json:"built_at"`
	MarketTime []domain.CanonicalInterval `json:"market_time"`
}

// Writer persists schedule snapshots into a directory. Writes are atomic:
// each artifact goes to a temp file first and is renamed into place.
type Writer struct {
	log zerolog.Logger
	dir string
}

// NewWriter creates a snapshot writer rooted at dir.
func NewWriter(log zerolog.Logger, dir string) *Writer {
	return &Writer{
		log: log.With().Str("component", "snapshot_writer").Logger(),
		dir: dir,
	}
}

// Write persists both artifacts of a schedule snapshot.
func (w *Writer) Write(snapshot *schedule.Snapshot) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	global := globalScheduleArtifact{
		Version:        snapshot.Version,
		BuiltAt:        snapshot.BuiltAt,
		GlobalSchedule: snapshot.Global,
	}
	if err := w.writeArtifact(GlobalScheduleFile, global); err != nil {
		return err
	}

	marketTime := marketTimeArtifact{
		Version:    snapshot.Version,
		BuiltAt:    snapshot.BuiltAt,
		MarketTime: snapshot.MarketTime,
	}
	if err := w.writeArtifact(MarketTimeFile, marketTime); err != nil {
		return err
	}

	w.log.Info().Str("version", snapshot.Version).Str("dir", w.dir).Msg("Snapshot artifacts written")
	return nil
}

func (w *Writer) writeArtifact(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}
