// Package apperror defines the error taxonomy shared by the stores and the HTTP handlers and maps
// it onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when a contact id does not exist for the signed-in user.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned when a sign-in attempt does not match a stored credential.
	ErrInvalidCredentials = errors.New("invalid username and/or password")

	// ErrNotSignedIn is returned when an operation needs a signed-in user but there is none.
	ErrNotSignedIn = errors.New("not signed in")
)

// ValidationError is a user-correctable input error. Message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation wraps a validator message into a *ValidationError. It returns nil for an empty
// message so that it can be used directly on the result of a validator.
func Validation(message string) error {
	if message == "" {
		return nil
	}
	return &ValidationError{Message: message}
}

// StorageError reports a persistent store that could not be read or written.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage builds a *StorageError, or returns nil if err is nil.
func Storage(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Path: path, Err: err}
}

// StatusCode returns the HTTP status code for an error.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Message returns the text that may be shown to the user for an error. Internal failures get a
// generic message so that paths and driver errors never reach the page.
func Message(err error) string {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username and/or password"
	case errors.Is(err, ErrNotSignedIn):
		return "Please sign in."
	case errors.Is(err, ErrNotFound):
		return "Contact not found."
	}
	return "Something went wrong. Please try again later."
}
