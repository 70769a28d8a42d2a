package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories
var (
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")
)

// AppError is an error with a fixed client-facing representation
type AppError struct {
	Err        error
	StatusCode int
	Title      string
	Message    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, statusCode int, title, message string) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Title:      title,
		Message:    message,
	}
}

// FromError converts any error into an AppError.
// Unknown errors become a 500 with a generic message.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, ErrBadRequest) {
		return BadRequest("Bad request", err)
	}
	return InternalServer(err)
}

// Wrap annotates err with a message
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// BadRequest creates a 400 Bad Request error
func BadRequest(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrBadRequest
	}
	return NewAppError(cause, http.StatusBadRequest, http.StatusText(http.StatusBadRequest), message)
}

// InternalServer creates a 500 Internal Server Error.
// The cause is kept for logging and never shown to the client.
func InternalServer(cause error) *AppError {
	if cause == nil {
		cause = ErrInternalServer
	}
	return NewAppError(cause, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), "Unexpected error occurred")
}
