package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a question does not exist for the owner.
	ErrNotFound = errors.New("question not found")

	// ErrInvalidResponse is returned for a response outside the four known values.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrConflict is returned when a save carries a stale revision.
	ErrConflict = errors.New("question was modified concurrently")
)

// InvalidResponseError describes the rejected response value.
type InvalidResponseError struct {
	Value string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response %q: want again, hard, good or easy", e.Value)
}

func (e *InvalidResponseError) Unwrap() error { return ErrInvalidResponse }

// StoreError wraps a persistence failure with the operation that failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
