package index

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when topK is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrClosed is returned when operating on a closed index.
	ErrClosed = errors.New("index is closed")
)

// ErrDimensionMismatch indicates an embedding/query dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrUnknownPreset indicates a search referenced an unregistered preset.
type ErrUnknownPreset struct {
	Name string
}

func (e *ErrUnknownPreset) Error() string {
	return fmt.Sprintf("unknown preset: %q", e.Name)
}

// ErrNotFound indicates the given id is not present in the index.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("entry not found: %q", e.ID)
}
