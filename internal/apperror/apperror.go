package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// EmailConflict is returned by registration when the email is already taken.
func EmailConflict(email string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("email %s is already registered", email),
		Field:   "email",
	}
}

// AlreadyFavorited guards favorite idempotency: adding a property that is
// already in the user's favorites set.
func AlreadyFavorited(propertyID string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("property %s is already in favorites", propertyID),
	}
}

// NotFavorited guards the inverse: removing a property that isn't favorited.
func NotFavorited(propertyID string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("property %s is not in favorites", propertyID),
	}
}

// InvalidCredentials is returned on login failure. The message deliberately
// does not say whether the email or the password was wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "invalid email or password",
	}
}

// Unavailable marks an external source (the property catalog) that could not
// be read. Callers get a structured failure instead of a silently empty result.
func Unavailable(resource string, err error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: fmt.Sprintf("%s is unavailable: %v", resource, err),
	}
}
