package category

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (c Category) Key() string { return c.ID }

// Sales is the running tally of completed sales for one category.
type Sales struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// SalesDelta is applied to the tally when a sale completes (positive) or a
// completed sale is canceled (negative).
type SalesDelta struct {
	CategoryID string
	Quantity   int64
	Revenue    decimal.Decimal
}

func (d SalesDelta) Negate() SalesDelta {
	return SalesDelta{
		CategoryID: d.CategoryID,
		Quantity:   -d.Quantity,
		Revenue:    d.Revenue.Neg(),
	}
}
