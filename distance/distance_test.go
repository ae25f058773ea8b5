package distance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	got, err := Dot([]float32{1, 2, 3}, []float32{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, float32(32), got, 1e-5)
}

func TestLengthMismatch(t *testing.T) {
	a := []float32{1, 2}
	b := []float32{1, 2, 3}

	_, err := Dot(a, b)
	var lm *ErrLengthMismatch
	require.ErrorAs(t, err, &lm)
	assert.Equal(t, 2, lm.A)
	assert.Equal(t, 3, lm.B)

	_, err = L1(a, b)
	assert.Error(t, err)
	_, err = L2(a, b)
	assert.Error(t, err)
	_, err = SquaredL2(a, b)
	assert.Error(t, err)
	_, err = CosineSimilarity(a, b)
	assert.Error(t, err)
}

func TestL1(t *testing.T) {
	got, err := L1([]float32{1, 2, 3}, []float32{4, 0, 3})
	require.NoError(t, err)
	assert.InDelta(t, float32(5), got, 1e-5)
}

func TestL2(t *testing.T) {
	got, err := L2([]float32{0, 0}, []float32{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, float32(5), got, 1e-5)

	sq, err := SquaredL2([]float32{0, 0}, []float32{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, float32(25), sq, 1e-5)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"Opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"Orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"ZeroLeft", []float32{0, 0}, []float32{1, 1}, 0},
		{"ZeroRight", []float32{1, 1}, []float32{0, 0}, 0},
		{"ZeroBoth", []float32{0, 0}, []float32{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

// TestCosineProperties checks symmetry and bounds on random vectors.
func TestCosineProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		n := 1 + rng.Intn(128)
		a := make([]float32, n)
		b := make([]float32, n)
		for j := range a {
			a[j] = rng.Float32()*2 - 1
			b[j] = rng.Float32()*2 - 1
		}

		ab, err := CosineSimilarity(a, b)
		require.NoError(t, err)
		ba, err := CosineSimilarity(b, a)
		require.NoError(t, err)

		assert.Equal(t, ab, ba)
		assert.LessOrEqual(t, ab, float32(1.0001))
		assert.GreaterOrEqual(t, ab, float32(-1.0001))

		aa, err := CosineSimilarity(a, a)
		require.NoError(t, err)
		assert.InDelta(t, float32(1), aa, 1e-4)
	}
}
