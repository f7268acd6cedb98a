package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketline/internal/domain"
	"marketline/internal/modules/schedule"
)

func testSnapshot(t *testing.T) *schedule.Snapshot {
	t.Helper()

	open, err := domain.ParseTimeOfDay("09:30:00")
	require.NoError(t, err)
	closeTime, err := domain.ParseTimeOfDay("16:00:00")
	require.NoError(t, err)
	boundary, err := domain.ParseDate("2025-01-10")
	require.NoError(t, err)
	allDay := false

	return &schedule.Snapshot{
		Version: "test-version",
		BuiltAt: time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC),
		Global: domain.GlobalSchedule{
			"monday": {
				MinOpen:  &open,
				MaxClose: &closeTime,
				Schedules: []domain.ScheduleVariant{
					{AllDay: &allDay, Open: &open, Close: &closeTime, Symbols: []string{"AAPL"}, OpenHours: 6.5},
				},
			},
		},
		MarketTime: []domain.CanonicalInterval{
			{To: &boundary, Open: open, Close: closeTime},
			{From: nil, Open: open, Close: closeTime},
		},
	}
}

func TestWriter_WritesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(zerolog.New(nil).Level(zerolog.Disabled), dir)

	require.NoError(t, writer.Write(testSnapshot(t)))

	globalData, err := os.ReadFile(filepath.Join(dir, GlobalScheduleFile))
	require.NoError(t, err)
	marketData, err := os.ReadFile(filepath.Join(dir, MarketTimeFile))
	require.NoError(t, err)

	var global map[string]interface{}
	require.NoError(t, json.Unmarshal(globalData, &global))
	assert.Equal(t, "test-version", global["version"])
	assert.Contains(t, global, "global_schedule")

	var market struct {
		Version    string `json:"version"`
		MarketTime []struct {
			To    *string `json:"to"`
			Open  string  `json:"open"`
			Close string  `json:"close"`
		} `json:"market_time"`
	}
	require.NoError(t, json.Unmarshal(marketData, &market))
	assert.Equal(t, "test-version", market.Version)
	require.Len(t, market.MarketTime, 2)
	require.NotNil(t, market.MarketTime[0].To)
	assert.Equal(t, "2025-01-10", *market.MarketTime[0].To)
	assert.Equal(t, "09:30:00", market.MarketTime[0].Open)
}

func TestWriter_OverwritesPreviousVersion(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(zerolog.New(nil).Level(zerolog.Disabled), dir)

	snapshot := testSnapshot(t)
	require.NoError(t, writer.Write(snapshot))

	snapshot.Version = "next-version"
	require.NoError(t, writer.Write(snapshot))

	data, err := os.ReadFile(filepath.Join(dir, MarketTimeFile))
	require.NoError(t, err)

	var market map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &market))
	assert.Equal(t, "next-version", market["version"])

	// No stray temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
