// internal/services/timerange_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		token string
		start time.Time
		gran  Granularity
		days  int
	}{
		{"24h", now.AddDate(0, 0, -1), GranularityHourly, 1},
		{"1d", now.AddDate(0, 0, -1), GranularityHourly, 1},
		{"15d", now.AddDate(0, 0, -15), GranularityDaily, 15},
		{"1m", now.AddDate(0, -1, 0), GranularityDaily, 30},
		{"1y", now.AddDate(-1, 0, 0), GranularityMonthly, 0},
		{"all", time.Unix(0, 0).In(time.UTC), GranularityMonthly, 0},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			tr := ResolveRange(tt.token, now)
			assert.Equal(t, tt.token, tr.Token)
			assert.True(t, tr.Start.Equal(tt.start), "start %v != %v", tr.Start, tt.start)
			assert.Equal(t, tt.gran, tr.Granularity)
			assert.Equal(t, tt.days, tr.Days)
		})
	}
}

func TestResolveRangeUnknownTokenFallsBackToMonth(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tr := ResolveRange("bogus", now)
	assert.True(t, tr.Start.Equal(now.AddDate(0, -1, 0)))
	assert.Equal(t, GranularityDaily, tr.Granularity)
	assert.Equal(t, 30, tr.Days)
}
