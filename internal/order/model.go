package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// CanTransition reports whether a sale in status from may move to to.
// Canceled is terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusCompleted || to == StatusCanceled
	case StatusCompleted:
		return to == StatusCanceled
	}
	return false
}

// LineItem snapshots the product as it was sold. Value is the unit price
// actually charged.
type LineItem struct {
	ProductID   string          `json:"id"`
	Title       string          `json:"title"`
	Value       decimal.Decimal `json:"value"`
	Quantity    int             `json:"quantity"`
	CategoryID  string          `json:"categoryId"`
	Observation string          `json:"observacao,omitempty"`
}

// Subtotal is value times quantity; non-positive quantities contribute zero.
func (i LineItem) Subtotal() decimal.Decimal {
	if i.Quantity <= 0 {
		return decimal.Zero
	}
	return i.Value.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Sale struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"idOrder"`
	UserID       uint            `json:"-"`
	Items        []LineItem      `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       Status          `json:"status"`
	CreatedAt    *time.Time      `json:"createdAt"`
	CustomerName string          `json:"nomeCliente"`
	UpdatedAt    time.Time       `json:"updatedAt,omitempty"`
}

func SumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

type CartItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	// Value is only read for variable-price products.
	Value       *decimal.Decimal `json:"value,omitempty"`
	Observation string           `json:"observacao,omitempty" validate:"max=280"`
}

type CheckoutInput struct {
	CustomerName string     `json:"nomeCliente" validate:"max=120"`
	Status       Status     `json:"status" validate:"omitempty,oneof=pending completed"`
	Items        []CartItem `json:"items" validate:"required,min=1,dive"`
}

type ListFilter struct {
	Status *Status
	From   *time.Time
	To     *time.Time
	Limit  int
	Page   int
}
