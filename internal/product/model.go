package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              string          `json:"id"`
	UserID          uint            `json:"-"`
	Title           string          `json:"title"`
	Value           decimal.Decimal `json:"value"`
	Cost            decimal.Decimal `json:"cost"`
	CategoryID      string          `json:"categoryId"`
	IsVariablePrice bool            `json:"isVariablePrice"`
	ImageKey        *string         `json:"imageKey,omitempty"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt,omitempty"`
}

func (p Product) Key() string { return p.ID }

// Margin is the per-unit profit at the listed value.
func (p Product) Margin() decimal.Decimal {
	return p.Value.Sub(p.Cost)
}

type Input struct {
	Title           string          `json:"title" validate:"required,max=120"`
	Value           decimal.Decimal `json:"value"`
	Cost            decimal.Decimal `json:"cost"`
	CategoryID      string          `json:"categoryId" validate:"required"`
	IsVariablePrice bool            `json:"isVariablePrice"`
}

type ImageUpload struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}
