package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNote(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Class
		wantErr  bool
	}{
		{"Natural", "C", C, false},
		{"Sharp", "F#", FSharp, false},
		{"Flat", "Bb", ASharp, false},
		{"UnicodeSharp", "C♯", CSharp, false},
		{"UnicodeFlat", "E♭", DSharp, false},
		{"Lowercase", "g", G, false},
		{"DoubleSharp", "C##", D, false},
		{"WrapFlat", "Cb", B, false},
		{"Whitespace", " A ", A, false},
		{"Empty", "", 0, true},
		{"BadLetter", "H", 0, true},
		{"BadAccidental", "C?", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNote(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSetBasics(t *testing.T) {
	cMajor := NewSet(C, E, G)

	assert.Equal(t, 3, cMajor.Cardinality())
	assert.True(t, cMajor.Contains(E))
	assert.False(t, cMajor.Contains(F))
	assert.Equal(t, "{C E G}", cMajor.String())

	// Duplicates collapse, equality is set-based.
	assert.Equal(t, cMajor, NewSet(G, C, E, C))

	assert.True(t, Full().ContainsAll(cMajor))
	assert.False(t, cMajor.ContainsAll(Full()))

	assert.Equal(t, 9, cMajor.Complement().Cardinality())
	assert.True(t, NewSet().IsEmpty())
}

func TestSetTranspose(t *testing.T) {
	cMajor := NewSet(C, E, G)

	assert.Equal(t, NewSet(D, FSharp, A), cMajor.Transpose(2))
	assert.Equal(t, NewSet(ASharp, D, F), cMajor.Transpose(-2))
	assert.Equal(t, cMajor, cMajor.Transpose(12))

	// Transposition preserves cardinality and interval content.
	assert.Equal(t, cMajor.IntervalClassVector(), cMajor.Transpose(5).IntervalClassVector())
}

func TestIntervalClassVector(t *testing.T) {
	// C major triad: one major third (ic4), one minor third (ic3), one fifth (ic5).
	icv := NewSet(C, E, G).IntervalClassVector()
	assert.Equal(t, [6]int{0, 0, 1, 1, 1, 0}, icv)

	// Diatonic scale has the well-known <254361> vector.
	major := NewSet(C, D, E, F, G, A, B)
	assert.Equal(t, [6]int{2, 5, 4, 3, 6, 1}, major.IntervalClassVector())
}

func TestPrimeForm(t *testing.T) {
	// Major and minor triads reduce to the same prime form.
	major := NewSet(C, E, G).PrimeForm()
	minor := NewSet(A, C, E).PrimeForm()
	assert.Equal(t, []Class{0, 3, 7}, major)
	assert.Equal(t, major, minor)

	// Prime form is transposition-invariant.
	assert.Equal(t, major, NewSet(C, E, G).Transpose(7).PrimeForm())

	assert.Nil(t, NewSet().PrimeForm())
}

func TestMaskRoundTrip(t *testing.T) {
	s := NewSet(C, DSharp, FSharp, A)
	assert.Equal(t, s, FromMask(s.Mask()))

	// High bits are discarded.
	assert.Equal(t, Full(), FromMask(0xFFFF))
}

func TestIntersection(t *testing.T) {
	major := NewSet(C, D, E, F, G, A, B)
	minor := NewSet(C, D, DSharp, F, G, GSharp, ASharp)

	assert.Equal(t, 4, major.IntersectionCount(minor))
	assert.Equal(t, NewSet(C, D, F, G), major.Intersect(minor))
	assert.Equal(t, 10, major.Union(minor).Cardinality())
}
