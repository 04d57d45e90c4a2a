package report

import (
	"sort"
	"time"

	"caixa-be/internal/category"
	"caixa-be/internal/order"
	"caixa-be/internal/product"

	"github.com/shopspring/decimal"
)

type RollupOptions struct {
	// Location decides which calendar day and month a sale falls in.
	// Defaults to time.Local.
	Location *time.Location
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

// Rollup classifies sales by status and accumulates every aggregate the
// report needs in a single pass. Only completed sales contribute to
// revenue, quantities and the time series. Anything that is neither
// completed nor pending counts as canceled.
func Rollup(
	sales []order.Sale,
	products map[string]product.Product,
	categories map[string]category.Category,
	opts RollupOptions,
) *Rollups {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	r := &Rollups{
		TotalRevenue:       decimal.Zero,
		ProductQuantities:  make(map[string]int),
		CategoryQuantities: make(map[string]int),
		CategoryRevenue:    make(map[string]decimal.Decimal),
		MonthlyRevenue:     make(map[Month]decimal.Decimal),
		DailySeries:        []DailySales{},
	}
	days := make(map[dayKey]int)

	for i := range sales {
		s := &sales[i]
		switch s.Status {
		case order.StatusCompleted:
		case order.StatusPending:
			r.PendingCount++
			continue
		default:
			r.CanceledCount++
			continue
		}

		r.CompletedCount++
		r.TotalRevenue = r.TotalRevenue.Add(s.Total)

		counted := make([]order.LineItem, 0, len(s.Items))
		for _, it := range s.Items {
			it.CategoryID = resolveCategoryID(it, products)
			r.addItem(it, products, categories)
			counted = append(counted, it)
		}

		if s.CreatedAt == nil {
			r.UndatedCount++
			continue
		}

		local := s.CreatedAt.In(loc)
		month := Month{Year: local.Year(), Month: local.Month()}
		r.MonthlyRevenue[month] = r.MonthlyRevenue[month].Add(s.Total)

		key := dayKey{local.Year(), local.Month(), local.Day()}
		idx, ok := days[key]
		if !ok {
			idx = len(r.DailySeries)
			days[key] = idx
			r.DailySeries = append(r.DailySeries, DailySales{
				Date:  time.Date(key.year, key.month, key.day, 0, 0, 0, 0, loc),
				Total: decimal.Zero,
				Items: []order.LineItem{},
			})
		}
		day := &r.DailySeries[idx]
		day.Total = day.Total.Add(s.Total)
		day.Items = append(day.Items, counted...)
	}

	sort.SliceStable(r.DailySeries, func(i, j int) bool {
		return r.DailySeries[i].Date.Before(r.DailySeries[j].Date)
	})
	return r
}

// addItem credits one line item. Items whose product cannot be resolved are
// left out of every per-product and per-category aggregate. Items whose
// category cannot be resolved still count for their product.
func (r *Rollups) addItem(it order.LineItem, products map[string]product.Product, categories map[string]category.Category) {
	if it.Quantity <= 0 {
		return
	}
	p, ok := products[it.ProductID]
	if !ok {
		return
	}
	r.ProductQuantities[p.Title] += it.Quantity

	c, ok := categories[it.CategoryID]
	if !ok {
		return
	}
	r.CategoryQuantities[c.Name] += it.Quantity
	r.CategoryRevenue[c.Name] = r.CategoryRevenue[c.Name].Add(it.Subtotal())
}

// resolveCategoryID prefers the product's current category and falls back to
// the category recorded on the item when the product has none.
func resolveCategoryID(it order.LineItem, products map[string]product.Product) string {
	if p, ok := products[it.ProductID]; ok && p.CategoryID != "" {
		return p.CategoryID
	}
	return it.CategoryID
}
