package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketline/internal/domain"
)

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func tod(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	tm, err := domain.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tm
}

func interval(t *testing.T, from, to, open, close string) domain.CanonicalInterval {
	t.Helper()
	out := domain.CanonicalInterval{Open: tod(t, open), Close: tod(t, close)}
	if from != "" {
		d := date(t, from)
		out.From = &d
	}
	if to != "" {
		d := date(t, to)
		out.To = &d
	}
	return out
}

func TestResolve_RegularSession(t *testing.T) {
	intervals := []domain.CanonicalInterval{
		interval(t, "", "", "09:30:00", "16:00:00"),
	}

	window, ok := Resolve(date(t, "2025-03-10"), intervals)
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), window.Open)
	assert.Equal(t, time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC), window.Close)
}

func TestResolve_OvernightSession(t *testing.T) {
	intervals := []domain.CanonicalInterval{
		interval(t, "", "", "22:00:00", "02:00:00"),
	}

	window, ok := Resolve(date(t, "2025-03-10"), intervals)
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC), window.Open)
	assert.Equal(t, time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC), window.Close)
	assert.True(t, window.Close.After(window.Open))
}

func TestResolve_AllDaySession(t *testing.T) {
	intervals := []domain.CanonicalInterval{
		interval(t, "", "", "00:00:00", "00:00:00"),
	}

	window, ok := Resolve(date(t, "2025-03-10"), intervals)
	require.True(t, ok)

	assert.Equal(t, 24*time.Hour, window.Close.Sub(window.Open))
}

func TestResolve_PicksFirstCoveringInterval(t *testing.T) {
	intervals := []domain.CanonicalInterval{
		interval(t, "", "2025-06-30", "09:00:00", "17:00:00"),
		interval(t, "2025-07-01", "", "08:00:00", "16:00:00"),
	}

	window, ok := Resolve(date(t, "2025-06-15"), intervals)
	require.True(t, ok)
	assert.Equal(t, 9, window.Open.Hour())

	window, ok = Resolve(date(t, "2025-07-15"), intervals)
	require.True(t, ok)
	assert.Equal(t, 8, window.Open.Hour())
}

func TestResolve_NoCoveringInterval(t *testing.T) {
	intervals := []domain.CanonicalInterval{
		interval(t, "2025-01-01", "2025-06-30", "09:00:00", "17:00:00"),
	}

	_, ok := Resolve(date(t, "2024-12-01"), intervals)
	assert.False(t, ok)

	_, ok = Resolve(date(t, "2025-07-01"), intervals)
	assert.False(t, ok)
}

func TestResolve_EmptyIntervals(t *testing.T) {
	_, ok := Resolve(date(t, "2025-03-10"), nil)
	assert.False(t, ok)
}
