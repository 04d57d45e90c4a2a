package report

import (
	"testing"
	"time"

	"caixa-be/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trendFixture() []DailySales {
	products, categories := catalog()
	sales := []order.Sale{
		completed("s1", "26", at("2024-03-05T12:00:00Z"), item("p1", "10", 2), item("p2", "6", 1)),
		completed("s2", "12", at("2024-03-06T12:00:00Z"), item("p2", "6", 2)),
		completed("s3", "10", at("2024-03-08T12:00:00Z"), item("p1", "10", 1)),
	}
	return Rollup(sales, products, categories, RollupOptions{Location: time.UTC}).DailySeries
}

func TestTrend(t *testing.T) {
	daily := trendFixture()

	t.Run("No filter", func(t *testing.T) {
		points := Trend(daily, TrendFilter{})

		require.Len(t, points, 3)
		assert.True(t, points[0].Total.Equal(dec("26")))
		assert.Equal(t, 3, points[0].Quantity)
	})

	t.Run("Category filter keeps empty days", func(t *testing.T) {
		points := Trend(daily, TrendFilter{CategoryID: "c1"})

		require.Len(t, points, 3)
		assert.True(t, points[0].Total.Equal(dec("20")))
		assert.Equal(t, 2, points[0].Quantity)
		assert.True(t, points[1].Total.IsZero())
		assert.Zero(t, points[1].Quantity)
		assert.True(t, points[2].Total.Equal(dec("10")))
	})

	t.Run("Date range is inclusive", func(t *testing.T) {
		from := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 8, 23, 59, 0, 0, time.UTC)

		points := Trend(daily, TrendFilter{From: &from, To: &to})

		require.Len(t, points, 2)
		assert.Equal(t, 6, points[0].Date.Day())
		assert.Equal(t, 8, points[1].Date.Day())
	})

	t.Run("Empty series", func(t *testing.T) {
		assert.Empty(t, Trend(nil, TrendFilter{CategoryID: "c1"}))
	})
}
