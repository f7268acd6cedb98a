package schedule

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scheduleStoreJSON = `{
	"AAPL": {
		"monday": {
			"schedules": [
				{
					"open": "09:30:00",
					"close": "16:00:00",
					"market_time": true,
					"dates": [["2025-01-06", "2025-01-13", "2025-01-20"]]
				},
				{
					"open": "04:00:00",
					"close": "09:30:00",
					"market_time": false,
					"dates": [["2025-01-06", "2025-01-13"]]
				}
			]
		}
	}
}`

func TestLoader_ParsesStore(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(log)

	symbols, err := loader.Load([]byte(scheduleStoreJSON))
	require.NoError(t, err)
	require.Contains(t, symbols, "AAPL")

	monday := symbols["AAPL"]["monday"]
	require.Len(t, monday.Schedules, 2)

	session := monday.Schedules[0]
	assert.True(t, session.MarketTime)
	assert.Equal(t, "09:30:00", session.Open.String())
	assert.Equal(t, "16:00:00", session.Close.String())
	require.Len(t, session.Dates, 1)
	require.Len(t, session.Dates[0], 3)
	assert.Equal(t, "2025-01-06", session.Dates[0][0].String())
	assert.Equal(t, "2025-01-20", session.Dates[0][2].String())

	assert.False(t, monday.Schedules[1].MarketTime)
}

func TestLoader_DerivesEnvelope(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(log)

	symbols, err := loader.Load([]byte(scheduleStoreJSON))
	require.NoError(t, err)

	monday := symbols["AAPL"]["monday"]
	require.NotNil(t, monday.MinOpen)
	require.NotNil(t, monday.MaxClose)
	// Envelope spans all segments, pre-market included.
	assert.Equal(t, "04:00:00", monday.MinOpen.String())
	assert.Equal(t, "16:00:00", monday.MaxClose.String())
	require.NotNil(t, monday.AllDay)
	assert.False(t, *monday.AllDay)
}

func TestLoader_OvernightSegmentWinsEnvelope(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(log)

	symbols, err := loader.Load([]byte(`{
		"GLOBEX": {
			"monday": {
				"schedules": [
					{"open": "09:00:00", "close": "17:00:00", "market_time": true, "dates": [["2025-01-06"]]},
					{"open": "22:00:00", "close": "02:00:00", "market_time": true, "dates": [["2025-01-06"]]}
				]
			}
		}
	}`))
	require.NoError(t, err)

	monday := symbols["GLOBEX"]["monday"]
	require.NotNil(t, monday.MaxClose)
	assert.Equal(t, "09:00:00", monday.MinOpen.String())
	// The overnight segment closes on the next day, so its 02:00 close
	// out-ranks the 17:00 same-day close.
	assert.Equal(t, "02:00:00", monday.MaxClose.String())
}

func TestLoader_SkipsInvalidSegments(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(log)

	symbols, err := loader.Load([]byte(`{
		"X": {
			"friday": {
				"schedules": [
					{"open": "not-a-time", "close": "16:00:00", "market_time": true, "dates": [["2025-01-03"]]},
					{"open": "09:00:00", "close": "17:00:00", "market_time": true, "dates": [["garbage", "2025-01-10"]]}
				]
			}
		}
	}`))
	require.NoError(t, err)

	friday := symbols["X"]["friday"]
	// The malformed first segment is dropped; the bad date inside the second
	// segment's group is dropped while the valid one survives.
	require.Len(t, friday.Schedules, 1)
	require.Len(t, friday.Schedules[0].Dates, 1)
	require.Len(t, friday.Schedules[0].Dates[0], 1)
	assert.Equal(t, "2025-01-10", friday.Schedules[0].Dates[0][0].String())
}

func TestLoader_MalformedJSON(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(log)

	_, err := loader.Load([]byte(`{"broken":`))
	assert.Error(t, err)
}
