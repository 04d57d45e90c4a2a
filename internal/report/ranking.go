package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TopProducts returns up to n products ordered by quantity sold, highest
// first. Ties are broken by title.
func TopProducts(quantities map[string]int, n int) []ProductRank {
	out := make([]ProductRank, 0, len(quantities))
	for title, qty := range quantities {
		out = append(out, ProductRank{Title: title, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Title < out[j].Title
	})
	return truncate(out, n)
}

// TopCategories ranks categories the same way as TopProducts. Share is each
// category's percentage of the revenue across all categories, not only the
// ones returned.
func TopCategories(quantities map[string]int, revenue map[string]decimal.Decimal, n int) []CategoryRank {
	total := decimal.Zero
	for _, v := range revenue {
		total = total.Add(v)
	}

	out := make([]CategoryRank, 0, len(quantities))
	for name, qty := range quantities {
		rev, ok := revenue[name]
		if !ok {
			rev = decimal.Zero
		}
		share := decimal.Zero
		if !total.IsZero() {
			share = rev.Mul(hundred).Div(total).Round(2)
		}
		out = append(out, CategoryRank{Name: name, Quantity: qty, Revenue: rev, Share: share})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	return truncate(out, n)
}

func truncate[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// MonthlySeries orders monthly revenue by calendar. Labels carry the year
// only when the series covers more than one year.
func MonthlySeries(monthly map[Month]decimal.Decimal) []MonthlyPoint {
	months := make([]Month, 0, len(monthly))
	years := make(map[int]struct{})
	for m := range monthly {
		months = append(months, m)
		years[m.Year] = struct{}{}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]MonthlyPoint, 0, len(months))
	for _, m := range months {
		label := m.Month.String()[:3]
		if len(years) > 1 {
			label = fmt.Sprintf("%s %d", label, m.Year)
		}
		out = append(out, MonthlyPoint{
			Label: label,
			Year:  m.Year,
			Month: int(m.Month),
			Total: monthly[m],
		})
	}
	return out
}

// BuildReport shapes rollups into the dashboard report. GeneratedAt is left
// for the caller.
func BuildReport(r *Rollups) *Report {
	avg := decimal.Zero
	if r.CompletedCount > 0 {
		avg = r.TotalRevenue.Div(decimal.NewFromInt(int64(r.CompletedCount))).Round(2)
	}
	return &Report{
		CompletedCount: r.CompletedCount,
		TotalRevenue:   r.TotalRevenue,
		PendingCount:   r.PendingCount,
		CanceledCount:  r.CanceledCount,
		UndatedCount:   r.UndatedCount,
		AverageTicket:  avg,
		TopProducts:    TopProducts(r.ProductQuantities, DefaultTopN),
		TopCategories:  TopCategories(r.CategoryQuantities, r.CategoryRevenue, DefaultTopN),
		Monthly:        MonthlySeries(r.MonthlyRevenue),
	}
}
