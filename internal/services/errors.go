package services

import (
	"errors"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/store"
)

var (
	// ErrUnauthorized covers bad credentials and missing, malformed or expired tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when registering an email that is already taken.
	ErrConflict = errors.New("email already registered")
	// ErrNotFound is returned when an owned resource does not exist.
	ErrNotFound = store.ErrNotFound
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
