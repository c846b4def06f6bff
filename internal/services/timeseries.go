// internal/services/timeseries.go
package services

import (
	"fmt"
	"time"
)

// SeriesPoint is one chart bucket of the seller-facing time series.
type SeriesPoint struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Count   int     `json:"count"`
}

// BuyerSeriesPoint is one chart bucket of the buyer-facing time series.
type BuyerSeriesPoint struct {
	Name    string  `json:"name"`
	Spent   float64 `json:"spent"`
	Savings float64 `json:"savings"`
}

// bucketWindow is a complete, ordered, zero-filled set of time buckets
// spanning a resolved range. Buckets exist before any sale is applied so
// charts never have missing x-axis points. Keys are collision-free per
// granularity: hour keys carry year/month/day/hour, day keys are ISO
// dates, month keys are year plus month index.
type bucketWindow struct {
	labels []string
	index  map[string]int
	gran   Granularity
}

func newBucketWindow(r TimeRange, now time.Time) *bucketWindow {
	w := &bucketWindow{index: make(map[string]int), gran: r.Granularity}

	switch r.Granularity {
	case GranularityHourly:
		for i := 23; i >= 0; i-- {
			d := startOfHour(now.Add(-time.Duration(i) * time.Hour))
			w.push(hourKey(d), d.Format("03 PM"))
		}
	case GranularityDaily:
		for i := r.Days - 1; i >= 0; i-- {
			d := now.AddDate(0, 0, -i)
			w.push(dayKey(d), d.Format("Jan 2"))
		}
	case GranularityMonthly:
		cur := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, now.Location())
		for !cur.After(now) {
			w.push(monthKey(cur), cur.Format("Jan 2006"))
			cur = cur.AddDate(0, 1, 0)
		}
	}

	return w
}

func (w *bucketWindow) push(key, label string) {
	// First writer wins so a DST fold cannot shrink the window.
	if _, exists := w.index[key]; exists {
		return
	}
	w.index[key] = len(w.labels)
	w.labels = append(w.labels, label)
}

func (w *bucketWindow) Len() int {
	return len(w.labels)
}

// IndexOf places a timestamp into its bucket. A date outside the
// generated window (late-arriving deal dates, clock skew) reports false
// and is dropped from the series only; it still counts toward aggregate
// KPIs.
func (w *bucketWindow) IndexOf(t time.Time) (int, bool) {
	var key string
	switch w.gran {
	case GranularityHourly:
		key = hourKey(t)
	case GranularityDaily:
		key = dayKey(t)
	default:
		key = monthKey(t)
	}
	i, ok := w.index[key]
	return i, ok
}

func startOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

func hourKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d-%d", t.Year(), int(t.Month()), t.Day(), t.Hour())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

var weekNames = []string{"First Week", "Second Week", "Third Week", "Fourth Week", "Fifth Week"}

// bestPerformanceLabel names the strongest slice of the chart: the
// highest-revenue bucket, or for the one-month window the
// highest-revenue week of five contiguous 7-day windows. Zero revenue
// across the whole series yields "No Sales".
func bestPerformanceLabel(points []SeriesPoint, token string) string {
	total := 0.0
	for _, p := range points {
		total += p.Revenue
	}
	if total == 0 {
		return "No Sales"
	}

	if token == "1m" {
		weeks := make([]float64, len(weekNames))
		for i, p := range points {
			if w := i / 7; w < len(weeks) {
				weeks[w] += p.Revenue
			}
		}
		best := 0
		bestRev := -1.0
		for i, rev := range weeks {
			if rev > bestRev {
				bestRev = rev
				best = i
			}
		}
		return weekNames[best]
	}

	best := SeriesPoint{Name: "N/A"}
	for _, p := range points {
		if p.Revenue > best.Revenue {
			best = p
		}
	}
	return best.Name
}
