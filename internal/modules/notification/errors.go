package notification

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("notification not found")
	ErrInvalidTransition = errors.New("a read notification cannot become unread")
)

// ValidationError carries the failing fields keyed by json name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation error"
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
