package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	// ErrDuplicate is returned when the store's unique key rejects an insert.
	ErrDuplicate = errors.New("booking already exists")
)
