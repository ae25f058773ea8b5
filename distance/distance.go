// Package distance provides the public API for vector similarity math.
// All functions validate that both inputs have the same length and use the
// chunked kernels from internal/math32, which fall back to element-wise
// loops where no wide kernel applies.
package distance

import (
	"fmt"

	"github.com/hupe1980/tonalgo/internal/math32"
)

// ErrLengthMismatch indicates that two vectors have different lengths.
type ErrLengthMismatch struct {
	A int
	B int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("length mismatch: %d vs %d", e.A, e.B)
}

func checkLengths(a, b []float32) error {
	if len(a) != len(b) {
		return &ErrLengthMismatch{A: len(a), B: len(b)}
	}
	return nil
}

// Dot calculates the dot product of two equal-length vectors.
func Dot(a, b []float32) (float32, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}
	return math32.Dot(a, b), nil
}

// Norm calculates the Euclidean norm of a vector.
func Norm(a []float32) float32 {
	return math32.Norm(a)
}

// L1 calculates the L1 (Manhattan) distance between two equal-length vectors.
func L1(a, b []float32) (float32, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}
	return math32.L1(a, b), nil
}

// L2 calculates the Euclidean distance between two equal-length vectors.
func L2(a, b []float32) (float32, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}
	return math32.Sqrt(math32.SquaredL2(a, b)), nil
}

// SquaredL2 calculates the squared L2 distance between two equal-length vectors.
func SquaredL2(a, b []float32) (float32, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}
	return math32.SquaredL2(a, b), nil
}

// CosineSimilarity calculates the cosine similarity between two equal-length
// vectors. The result is exactly 0 (not NaN) when either vector has zero norm.
func CosineSimilarity(a, b []float32) (float32, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}

	dot := math32.Dot(a, b)
	normA := math32.Norm(a)
	normB := math32.Norm(b)

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (normA * normB), nil
}
