package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tonalgo/pitch"
)

func cMajorChord() Object {
	return Object{
		Name:    "Cmaj",
		Kind:    KindChord,
		Root:    pitch.C,
		Bass:    pitch.C,
		Classes: pitch.NewSet(pitch.C, pitch.E, pitch.G),
	}
}

func TestBuild(t *testing.T) {
	b := NewBuilder()

	e, err := b.Build(context.Background(), cMajorChord())
	require.NoError(t, err)

	assert.Equal(t, DefaultLayout.Dimension(), e.Dimension())

	identity, ok := e.Partition(PartitionIdentity)
	require.True(t, ok)
	assert.InDelta(t, float32(3)/12, identity[0], 1e-6) // cardinality
	assert.Equal(t, float32(1), identity[2])            // chord flag
	assert.Equal(t, float32(1), identity[5])            // has perfect fifth

	structure, ok := e.Partition(PartitionStructure)
	require.True(t, ok)
	assert.Equal(t, float32(1), structure[int(pitch.C)])
	assert.Equal(t, float32(1), structure[int(pitch.E)])
	assert.Equal(t, float32(1), structure[int(pitch.G)])
	assert.Equal(t, float32(0), structure[int(pitch.D)])

	symbolic, ok := e.Partition(PartitionSymbolic)
	require.True(t, ok)
	assert.Equal(t, float32(1), symbolic[int(pitch.C)])

	spectral, ok := e.Partition(PartitionSpectral)
	require.True(t, ok)
	// Fundamental, octave harmonics and the fifth (3rd harmonic) align.
	assert.Equal(t, float32(1), spectral[0])
	assert.InDelta(t, float32(1)/3, spectral[2], 1e-6)
}

func TestBuildDeterminism(t *testing.T) {
	b := NewBuilder()
	obj := Object{
		Name:    "Dm7",
		Kind:    KindChord,
		Root:    pitch.D,
		Bass:    pitch.F,
		Classes: pitch.NewSet(pitch.D, pitch.F, pitch.A, pitch.C),
	}

	first, err := b.Build(context.Background(), obj)
	require.NoError(t, err)

	// Concurrent dispatch must still be bit-identical across builds, and
	// identical to the serial path.
	serial := NewBuilder(func(o *BuilderOptions) { o.Concurrent = false })
	for i := 0; i < 50; i++ {
		e, err := b.Build(context.Background(), obj)
		require.NoError(t, err)
		assert.Equal(t, first.Values(), e.Values())

		s, err := serial.Build(context.Background(), obj)
		require.NoError(t, err)
		assert.Equal(t, first.Values(), s.Values())
	}
}

func TestBuildPartitionError(t *testing.T) {
	b := NewBuilder()

	// Empty pitch-class set fails every partition; the error names one.
	_, err := b.Build(context.Background(), Object{Name: "empty", Kind: KindChord})
	var pe *PartitionError
	require.ErrorAs(t, err, &pe)
	assert.NotEmpty(t, pe.Partition)

	// Unknown kind fails the identity partition specifically.
	_, err = b.Build(context.Background(), Object{
		Name:    "bad",
		Kind:    Kind(42),
		Classes: pitch.NewSet(pitch.C, pitch.E),
	})
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PartitionIdentity, pe.Partition)
}

func TestBuildCancelled(t *testing.T) {
	b := NewBuilder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx, cMajorChord())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildScaleObject(t *testing.T) {
	b := NewBuilder()
	obj := Object{
		Name:    "C Major",
		Kind:    KindScale,
		Root:    pitch.C,
		Bass:    pitch.C,
		Classes: pitch.NewSet(pitch.C, pitch.D, pitch.E, pitch.F, pitch.G, pitch.A, pitch.B),
	}

	e, err := b.Build(context.Background(), obj)
	require.NoError(t, err)

	identity, _ := e.Partition(PartitionIdentity)
	assert.Equal(t, float32(0), identity[2]) // scale flag

	ext, _ := e.Partition(PartitionExtensions)
	// Diatonic interval-class vector <254361>.
	assert.Equal(t, []float32{2, 5, 4, 3, 6, 1}, ext[:6])
}

func TestFromValues(t *testing.T) {
	v := make([]float32, DefaultLayout.Dimension())
	e, err := FromValues(nil, v)
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout, e.Layout())

	_, err = FromValues(DefaultLayout, make([]float32, 3))
	assert.Error(t, err)
}

func BenchmarkBuild(b *testing.B) {
	builder := NewBuilder()
	obj := cMajorChord()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.Build(ctx, obj); err != nil {
			b.Fatal(err)
		}
	}
}
