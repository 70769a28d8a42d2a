package domain

import "errors"

var (
	// ErrInvalidCursor is returned when a cursor cannot be decoded into a payload
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrCursorEncoding is returned when a cursor payload cannot be serialized
	ErrCursorEncoding = errors.New("failed to encode cursor")

	// ErrDuplicateCustomerID is returned when a snapshot holds the same id twice
	ErrDuplicateCustomerID = errors.New("duplicate customer id")

	// ErrInvalidDataset is returned when a loaded record fails validation
	ErrInvalidDataset = errors.New("invalid customer dataset")
)
