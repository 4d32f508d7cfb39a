package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Specific errors wrap one of these so callers can map
// them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("not authorized")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrClubNotFound    = fmt.Errorf("club %w", ErrNotFound)
	ErrRequestNotFound = fmt.Errorf("membership request %w", ErrNotFound)

	ErrAlreadyMember    = fmt.Errorf("user is already a member of this club: %w", ErrConflict)
	ErrDuplicatePending = fmt.Errorf("a pending membership request already exists: %w", ErrConflict)
	ErrEmailTaken       = fmt.Errorf("email is already registered: %w", ErrConflict)

	ErrInvalidStatus      = errors.New("invalid membership request status")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", ErrUnauthenticated)
)

// ValidationError reports missing or malformed input fields.
type ValidationError struct {
	Message string
	Fields  []string
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
