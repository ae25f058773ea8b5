package tonalgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tonalgo/index"
)

var (
	// ErrNotFound is returned when an item is not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrClosed is returned when operating on a closed engine.
	ErrClosed = errors.New("engine is closed")
)

// ErrDimensionMismatch indicates an embedding/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrUnknownPreset indicates a search referenced an unregistered preset.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnknownPreset struct {
	Name  string
	cause error
}

func (e *ErrUnknownPreset) Error() string {
	return fmt.Sprintf("unknown preset: %q", e.Name)
}

func (e *ErrUnknownPreset) Unwrap() error { return e.cause }

// ErrUnknownScale indicates a named scale is not present in the cache.
type ErrUnknownScale struct {
	Name string
}

func (e *ErrUnknownScale) Error() string {
	return fmt.Sprintf("unknown scale: %q", e.Name)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	var nf *index.ErrNotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// Argument normalization.
	var dm *index.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	var up *index.ErrUnknownPreset
	if errors.As(err, &up) {
		return &ErrUnknownPreset{Name: up.Name, cause: err}
	}
	if errors.Is(err, index.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}
	if errors.Is(err, index.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	return err
}
