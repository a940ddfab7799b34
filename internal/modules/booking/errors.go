package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidStatus     = errors.New("unknown booking status")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
	ErrInvalidRange      = errors.New("invalid date range")
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
