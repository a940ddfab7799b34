package order

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("order not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrOutOfStock         = errors.New("not enough stock")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidTransition  = errors.New("order status transition not allowed")
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
