package report

import (
	"time"

	"caixa-be/internal/order"

	"github.com/shopspring/decimal"
)

const DefaultTopN = 5

type Month struct {
	Year  int
	Month time.Month
}

func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// DailySales groups the completed sales of one local calendar day. Items keep
// the category they were counted under.
type DailySales struct {
	Date  time.Time        `json:"date"`
	Total decimal.Decimal  `json:"total"`
	Items []order.LineItem `json:"items"`
}

type Rollups struct {
	CompletedCount int
	PendingCount   int
	CanceledCount  int
	// UndatedCount is the number of completed sales left out of the
	// monthly and daily buckets.
	UndatedCount       int
	TotalRevenue       decimal.Decimal
	ProductQuantities  map[string]int
	CategoryQuantities map[string]int
	CategoryRevenue    map[string]decimal.Decimal
	MonthlyRevenue     map[Month]decimal.Decimal
	DailySeries        []DailySales
}

type ProductRank struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

type CategoryRank struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Share    decimal.Decimal `json:"share"`
}

type MonthlyPoint struct {
	Label string          `json:"label"`
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type Report struct {
	CompletedCount int             `json:"completedCount"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	PendingCount   int             `json:"pendingCount"`
	CanceledCount  int             `json:"canceledCount"`
	UndatedCount   int             `json:"undatedCount"`
	AverageTicket  decimal.Decimal `json:"averageTicket"`
	TopProducts    []ProductRank   `json:"topProductsByQuantity"`
	TopCategories  []CategoryRank  `json:"topCategoriesByQuantity"`
	Monthly        []MonthlyPoint  `json:"monthlyRevenue"`
	GeneratedAt    time.Time       `json:"generatedAt"`
}

type TrendFilter struct {
	CategoryID string
	From       *time.Time
	To         *time.Time
}

type TrendPoint struct {
	Date     time.Time       `json:"date"`
	Total    decimal.Decimal `json:"total"`
	Quantity int             `json:"quantity"`
}

type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Size      int       `json:"size"`
}

// Snapshot is what gets cached per user.
type Snapshot struct {
	Report *Report      `json:"report"`
	Daily  []DailySales `json:"daily"`
}
