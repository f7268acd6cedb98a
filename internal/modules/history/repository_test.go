package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketline/internal/database"
	"marketline/internal/domain"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "history.db"),
		Profile: database.ProfileCache,
		Name:    "history_test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db.Conn(), zerolog.New(nil).Level(zerolog.Disabled))
	require.NoError(t, repo.EnsureSchema())
	return repo
}

func annotatedRecord(ts time.Time, close float64) *domain.PriceRecord {
	rec := &domain.PriceRecord{
		DateTime: ts,
		Open:     close - 1,
		High:     close + 1,
		Low:      close - 2,
		Close:    close,
	}
	rec.SetSessionPhase(false, true, false)
	return rec
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := testRepository(t)

	volume := int64(12345)
	first := annotatedRecord(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), 100.5)
	first.Volume = &volume
	first.SetHolidayProximity(domain.Proximity{Pre: 0.8})

	second := annotatedRecord(time.Date(2025, 3, 11, 15, 0, 0, 0, time.UTC), 101.25)

	require.NoError(t, repo.SaveAnnotated("AAPL", []*domain.PriceRecord{first, second}))

	records, err := repo.GetAnnotated("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, 101.25, records[0].Close)
	assert.Equal(t, 100.5, records[1].Close)
	require.NotNil(t, records[1].Volume)
	assert.Equal(t, volume, *records[1].Volume)
	assert.InDelta(t, 0.8, records[1].IsPreHoliday, 1e-9)
	assert.Equal(t, 1.0, records[1].IsMarketTime)
}

func TestRepository_SaveIsIdempotent(t *testing.T) {
	repo := testRepository(t)

	rec := annotatedRecord(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), 100.5)
	require.NoError(t, repo.SaveAnnotated("AAPL", []*domain.PriceRecord{rec}))

	rec.Close = 99.75
	require.NoError(t, repo.SaveAnnotated("AAPL", []*domain.PriceRecord{rec}))

	records, err := repo.GetAnnotated("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 99.75, records[0].Close)
}

func TestRepository_LatestDate(t *testing.T) {
	repo := testRepository(t)

	latest, err := repo.LatestDate("AAPL")
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, repo.SaveAnnotated("AAPL", []*domain.PriceRecord{
		annotatedRecord(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), 100),
		annotatedRecord(time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC), 101),
	}))

	latest, err = repo.LatestDate("AAPL")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2025-03-12", latest.String())
}

func TestRepository_Symbols(t *testing.T) {
	repo := testRepository(t)

	require.NoError(t, repo.SaveAnnotated("MSFT", []*domain.PriceRecord{
		annotatedRecord(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), 100),
	}))
	require.NoError(t, repo.SaveAnnotated("AAPL", []*domain.PriceRecord{
		annotatedRecord(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), 200),
	}))

	symbols, err := repo.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
}
