package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trend narrows the daily series to a category and an inclusive date range.
// Days inside the range with no matching items stay in the result as zero
// points so charts keep their x axis.
func Trend(daily []DailySales, f TrendFilter) []TrendPoint {
	out := make([]TrendPoint, 0, len(daily))
	for _, d := range daily {
		if !inRange(d.Date, f.From, f.To) {
			continue
		}

		point := TrendPoint{Date: d.Date, Total: decimal.Zero}
		if f.CategoryID == "" {
			point.Total = d.Total
		}
		for _, it := range d.Items {
			if f.CategoryID != "" && it.CategoryID != f.CategoryID {
				continue
			}
			if it.Quantity > 0 {
				point.Quantity += it.Quantity
			}
			if f.CategoryID != "" {
				point.Total = point.Total.Add(it.Subtotal())
			}
		}
		out = append(out, point)
	}
	return out
}

// inRange compares calendar dates in the location of day, so a bound given
// as midnight UTC still matches the local day with the same date.
func inRange(day time.Time, from, to *time.Time) bool {
	if from != nil && day.Before(sameDate(*from, day.Location())) {
		return false
	}
	if to != nil && day.After(sameDate(*to, day.Location())) {
		return false
	}
	return true
}

func sameDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
