// internal/services/timerange.go
package services

import (
	"time"
)

type Granularity string

const (
	GranularityHourly  Granularity = "hourly"
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
)

// TimeRange is the resolved form of a symbolic range token.
type TimeRange struct {
	Token       string
	Start       time.Time
	Granularity Granularity
	Days        int // bucket count for daily windows
}

// ResolveRange maps a range token to a start date and bucket
// granularity. Unrecognized tokens fall back to the one-month window
// rather than erroring; callers rely on that leniency.
func ResolveRange(token string, now time.Time) TimeRange {
	switch token {
	case "24h", "1d":
		return TimeRange{Token: token, Start: now.AddDate(0, 0, -1), Granularity: GranularityHourly, Days: 1}
	case "15d":
		return TimeRange{Token: token, Start: now.AddDate(0, 0, -15), Granularity: GranularityDaily, Days: 15}
	case "1m":
		return TimeRange{Token: token, Start: now.AddDate(0, -1, 0), Granularity: GranularityDaily, Days: 30}
	case "1y":
		return TimeRange{Token: token, Start: now.AddDate(-1, 0, 0), Granularity: GranularityMonthly}
	case "all":
		return TimeRange{Token: token, Start: time.Unix(0, 0).In(now.Location()), Granularity: GranularityMonthly}
	default:
		return TimeRange{Token: token, Start: now.AddDate(0, -1, 0), Granularity: GranularityDaily, Days: 30}
	}
}
