package rollup

import (
	"time"

	"github.com/rickgao/market-pipeline/internal/model"
)

// Interval selects the rollup grain.
type Interval string

const (
	IntervalWeek    Interval = "week"
	IntervalQuarter Interval = "quarter"
	IntervalYear    Interval = "year"
)

// Intervals lists every rollup grain in derivation order.
var Intervals = []Interval{IntervalWeek, IntervalQuarter, IntervalYear}

// Table returns the store table for this grain.
func (i Interval) Table() string {
	switch i {
	case IntervalWeek:
		return "market_data.weekly_prices"
	case IntervalQuarter:
		return "market_data.quarterly_prices"
	case IntervalYear:
		return "market_data.yearly_prices"
	}
	return ""
}

// BucketStart returns the bucket a date belongs to: the Monday of its week,
// the first day of its calendar quarter, or January 1 of its year.
func BucketStart(i Interval, d time.Time) time.Time {
	d = model.Day(d)

	switch i {
	case IntervalWeek:
		// Monday-aligned; Sunday belongs to the preceding Monday.
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case IntervalQuarter:
		month := ((int(d.Month())-1)/3)*3 + 1
		return time.Date(d.Year(), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	case IntervalYear:
		return time.Date(d.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return d
}

// NextBucketStart returns the start of the bucket after start.
func NextBucketStart(i Interval, start time.Time) time.Time {
	switch i {
	case IntervalWeek:
		return start.AddDate(0, 0, 7)
	case IntervalQuarter:
		return start.AddDate(0, 3, 0)
	case IntervalYear:
		return start.AddDate(1, 0, 0)
	}
	return start
}

// YearRange returns the half-open calendar-year window [Jan 1 y, Jan 1 y+1).
func YearRange(year int) (start, end time.Time) {
	start = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
