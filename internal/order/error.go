package order

import "errors"

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidCheckout       = errors.New("invalid checkout")
	ErrProductNotFound       = errors.New("product not found")
	ErrVariablePriceRequired = errors.New("variable-price product needs a positive value")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrNotEditable           = errors.New("only pending orders can be edited")
	ErrStaleStatus           = errors.New("order status changed concurrently")
)
