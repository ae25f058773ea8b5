package math32

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
		{"Tail", []float32{1, 1, 1, 1, 1, 2}, []float32{1, 1, 1, 1, 1, 3}, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-5)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8},
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-5)
		})
	}
}

func TestL1(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 9},
		{"Negative", []float32{1, -1}, []float32{-1, 1}, 4},
		{"Identical", []float32{5, 5}, []float32{5, 5}, 0},
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, L1(tt.a, tt.b), 1e-5)
		})
	}
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, float32(5), Norm([]float32{3, 4}), 1e-5)
	assert.Equal(t, float32(0), Norm([]float32{0, 0, 0}))
	assert.Equal(t, float32(0), Norm(nil))
}

// TestChunkedMatchesGeneric checks that the chunked kernels agree with the
// element-wise fallbacks up to float rounding on sizes that exercise both the
// main loop and the tail.
func TestChunkedMatchesGeneric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 3, 4, 7, 16, 109, 1024} {
		a := make([]float32, n)
		b := make([]float32, n)
		for i := range a {
			a[i] = rng.Float32()*2 - 1
			b[i] = rng.Float32()*2 - 1
		}

		assert.InDelta(t, dotGeneric(a, b), dotChunked4(a, b), 1e-3, "dot n=%d", n)
		assert.InDelta(t, squaredL2Generic(a, b), squaredL2Chunked4(a, b), 1e-3, "l2 n=%d", n)
		assert.InDelta(t, l1Generic(a, b), l1Chunked4(a, b), 1e-3, "l1 n=%d", n)
	}
}

func BenchmarkDot(b *testing.B) {
	x := make([]float32, 1024)
	y := make([]float32, 1024)
	for i := range x {
		x[i] = float32(i)
		y[i] = float32(i % 7)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Dot(x, y)
	}
}
