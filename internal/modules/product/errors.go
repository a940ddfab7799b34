package product

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("product not found")
	ErrDuplicate  = errors.New("product with this SKU already exists")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation error"
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
