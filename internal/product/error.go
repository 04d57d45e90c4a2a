package product

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidInput       = errors.New("invalid product input")
	ErrNegativeValue      = errors.New("product value and cost must not be negative")
	ErrUnknownCategory    = errors.New("category does not exist")
	ErrStorageUnavailable = errors.New("object storage is not configured")
	ErrUnsupportedImage   = errors.New("unsupported image content type")
	ErrNotStored          = errors.New("product was not stored")
)
