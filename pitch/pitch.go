// Package pitch provides pitch-class set primitives for harmonic analysis.
//
// A pitch class is one of the 12 chromatic steps (octave-independent). A Set
// is an immutable collection of distinct pitch classes backed by a 12-bit
// chroma mask, which doubles as a stable numeric identifier.
package pitch

import (
	"fmt"
	"math/bits"
	"strings"
)

// Class is a chromatic pitch class in the range 0..11 (0 = C).
type Class uint8

// Pitch class constants following the chromatic scale from C.
const (
	C Class = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

// NumClasses is the size of the chromatic space.
const NumClasses = 12

var classNames = [NumClasses]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

func (c Class) String() string {
	if c < NumClasses {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// Transpose returns the class shifted by n semitones (mod 12).
func (c Class) Transpose(n int) Class {
	v := (int(c) + n) % NumClasses
	if v < 0 {
		v += NumClasses
	}
	return Class(v)
}

// noteOffsets maps natural note letters to their chromatic offset.
var noteOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// ParseNote parses a note name like "C", "F#", "Bb" or "E♭" into a Class.
// Multiple accidentals are allowed ("C##" == D). Case-insensitive letter.
func ParseNote(name string) (Class, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return 0, fmt.Errorf("pitch: empty note name")
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	offset, ok := noteOffsets[letter]
	if !ok {
		return 0, fmt.Errorf("pitch: invalid note letter %q in %q", string(s[0]), name)
	}
	for _, r := range s[1:] {
		switch r {
		case '#', '♯':
			offset++
		case 'b', 'B', '♭':
			offset--
		default:
			return 0, fmt.Errorf("pitch: invalid accidental %q in %q", string(r), name)
		}
	}
	offset %= NumClasses
	if offset < 0 {
		offset += NumClasses
	}
	return Class(offset), nil
}

// Set is an immutable set of distinct pitch classes.
// The zero value is the empty set.
type Set struct {
	mask uint16
}

// NewSet builds a Set from the given classes. Duplicates collapse.
func NewSet(classes ...Class) Set {
	var m uint16
	for _, c := range classes {
		m |= 1 << (c % NumClasses)
	}
	return Set{mask: m}
}

// FromMask builds a Set from a raw 12-bit chroma mask.
// Bits above the 12th are discarded.
func FromMask(mask uint16) Set {
	return Set{mask: mask & 0x0FFF}
}

// Full returns the complete chromatic set.
func Full() Set {
	return Set{mask: 0x0FFF}
}

// Mask returns the 12-bit chroma mask. Bit i is set when class i is present.
// The mask is the Set's canonical numeric identifier.
func (s Set) Mask() uint16 { return s.mask }

// Cardinality returns the number of distinct classes in the set.
func (s Set) Cardinality() int { return bits.OnesCount16(s.mask) }

// IsEmpty reports whether the set contains no classes.
func (s Set) IsEmpty() bool { return s.mask == 0 }

// Contains reports whether c is a member of the set.
func (s Set) Contains(c Class) bool {
	return s.mask&(1<<(c%NumClasses)) != 0
}

// ContainsAll reports whether every class of other is a member of s.
func (s Set) ContainsAll(other Set) bool {
	return s.mask&other.mask == other.mask
}

// Intersect returns the set of classes present in both sets.
func (s Set) Intersect(other Set) Set {
	return Set{mask: s.mask & other.mask}
}

// Union returns the set of classes present in either set.
func (s Set) Union(other Set) Set {
	return Set{mask: s.mask | other.mask}
}

// Complement returns the chromatic classes absent from s.
func (s Set) Complement() Set {
	return Set{mask: ^s.mask & 0x0FFF}
}

// IntersectionCount returns the number of classes shared with other.
func (s Set) IntersectionCount(other Set) int {
	return bits.OnesCount16(s.mask & other.mask)
}

// Transpose returns the set shifted by n semitones (mod 12).
func (s Set) Transpose(n int) Set {
	n %= NumClasses
	if n < 0 {
		n += NumClasses
	}
	rotated := (s.mask<<n | s.mask>>(NumClasses-n)) & 0x0FFF
	return Set{mask: rotated}
}

// Invert returns the inversion of the set (each class c becomes 12-c mod 12).
func (s Set) Invert() Set {
	var m uint16
	for c := 0; c < NumClasses; c++ {
		if s.mask&(1<<c) != 0 {
			m |= 1 << ((NumClasses - c) % NumClasses)
		}
	}
	return Set{mask: m}
}

// Classes returns the members in ascending order.
func (s Set) Classes() []Class {
	out := make([]Class, 0, s.Cardinality())
	for c := 0; c < NumClasses; c++ {
		if s.mask&(1<<c) != 0 {
			out = append(out, Class(c))
		}
	}
	return out
}

// IntervalClassVector returns the interval-class histogram of the set.
// Index i holds the count of unordered pairs at interval class i+1 (1..6).
func (s Set) IntervalClassVector() [6]int {
	var icv [6]int
	classes := s.Classes()
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			d := int(classes[j]) - int(classes[i])
			if d > 6 {
				d = NumClasses - d
			}
			if d > 0 {
				icv[d-1]++
			}
		}
	}
	return icv
}

// PrimeForm returns the canonical (prime) form of the set: the
// lexicographically smallest zero-based rotation over the set and its
// inversion. The empty set yields an empty slice.
func (s Set) PrimeForm() []Class {
	if s.IsEmpty() {
		return nil
	}
	var best []Class
	for _, cand := range []Set{s, s.Invert()} {
		classes := cand.Classes()
		n := len(classes)
		for i := 0; i < n; i++ {
			form := make([]Class, n)
			base := classes[i]
			for j := 0; j < n; j++ {
				form[j] = classes[(i+j)%n].Transpose(-int(base))
			}
			if best == nil || lexLess(form, best) {
				best = form
			}
		}
	}
	return best
}

func lexLess(a, b []Class) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// String renders the set in canonical ascending order, e.g. "{C E G}".
func (s Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, c := range s.Classes() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
