// internal/services/timeseries_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketWindowHourly(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	w := newBucketWindow(ResolveRange("24h", now), now)

	require.Equal(t, 24, w.Len())
	assert.Equal(t, "03 PM", w.labels[0])  // 24 hours back
	assert.Equal(t, "02 PM", w.labels[23]) // current hour

	idx, ok := w.IndexOf(now)
	require.True(t, ok)
	assert.Equal(t, 23, idx)
}

func TestBucketWindowDaily(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	w15 := newBucketWindow(ResolveRange("15d", now), now)
	require.Equal(t, 15, w15.Len())
	assert.Equal(t, "Jun 1", w15.labels[0])
	assert.Equal(t, "Jun 15", w15.labels[14])

	w30 := newBucketWindow(ResolveRange("1m", now), now)
	require.Equal(t, 30, w30.Len())
	assert.Equal(t, "Jun 15", w30.labels[29])
}

func TestBucketWindowMonthlyContiguous(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	w := newBucketWindow(ResolveRange("1y", now), now)

	// June 2024 through June 2025 inclusive.
	require.Equal(t, 13, w.Len())
	assert.Equal(t, "Jun 2024", w.labels[0])
	assert.Equal(t, "Jun 2025", w.labels[12])

	for m := 0; m < 13; m++ {
		_, ok := w.IndexOf(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC).AddDate(0, m, 0))
		assert.True(t, ok, "month offset %d missing", m)
	}
}

func TestBucketWindowDropsOutOfWindowDates(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	w := newBucketWindow(ResolveRange("15d", now), now)

	_, ok := w.IndexOf(now.AddDate(0, 0, -20))
	assert.False(t, ok)

	_, ok = w.IndexOf(now.AddDate(0, 0, 2))
	assert.False(t, ok)
}

func TestBestPerformanceLabel(t *testing.T) {
	t.Run("no sales", func(t *testing.T) {
		points := []SeriesPoint{{Name: "Jun 1"}, {Name: "Jun 2"}}
		assert.Equal(t, "No Sales", bestPerformanceLabel(points, "15d"))
	})

	t.Run("peak bucket", func(t *testing.T) {
		points := []SeriesPoint{
			{Name: "Jun 1", Revenue: 100},
			{Name: "Jun 2", Revenue: 300},
			{Name: "Jun 3", Revenue: 200},
		}
		assert.Equal(t, "Jun 2", bestPerformanceLabel(points, "15d"))
	})

	t.Run("one month aggregates weeks", func(t *testing.T) {
		points := make([]SeriesPoint, 30)
		for i := range points {
			points[i].Name = "day"
		}
		// Third week (days 14..20) carries the revenue.
		points[15].Revenue = 500
		points[16].Revenue = 250

		assert.Equal(t, "Third Week", bestPerformanceLabel(points, "1m"))
	})
}
