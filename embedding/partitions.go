package embedding

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tonalgo/pitch"
)

// partitionFunc fills out (pre-sliced to the partition length) from obj.
// Implementations must be pure: identical input yields bit-identical output.
type partitionFunc func(obj Object, out []float32) error

var errEmptySet = errors.New("empty pitch-class set")

// computeIdentity encodes coarse identity traits: cardinality, root, kind,
// bass, the chroma-mask id and the presence of a perfect fifth over the root.
func computeIdentity(obj Object, out []float32) error {
	if obj.Classes.IsEmpty() {
		return errEmptySet
	}
	if obj.Kind != KindChord && obj.Kind != KindScale {
		return fmt.Errorf("unknown object kind %d", uint8(obj.Kind))
	}

	out[0] = float32(obj.Classes.Cardinality()) / float32(pitch.NumClasses)
	out[1] = float32(obj.Root) / 11
	if obj.Kind == KindChord {
		out[2] = 1
	}
	out[3] = float32(obj.Bass) / 11
	out[4] = float32(obj.Classes.Mask()) / 4095
	if obj.Classes.Contains(obj.Root.Transpose(7)) {
		out[5] = 1
	}
	return nil
}

// computeStructure encodes the absolute chroma profile followed by the
// chroma profile rotated so the root occupies position zero.
func computeStructure(obj Object, out []float32) error {
	if obj.Classes.IsEmpty() {
		return errEmptySet
	}

	rooted := obj.Classes.Transpose(-int(obj.Root))
	for c := 0; c < pitch.NumClasses; c++ {
		if obj.Classes.Contains(pitch.Class(c)) {
			out[c] = 1
		}
		if rooted.Contains(pitch.Class(c)) {
			out[pitch.NumClasses+c] = 1
		}
	}
	return nil
}

// computeMorphology encodes the circular step-interval histogram of the
// sorted classes followed by the chroma profile of the complement set.
func computeMorphology(obj Object, out []float32) error {
	if obj.Classes.IsEmpty() {
		return errEmptySet
	}

	classes := obj.Classes.Classes()
	n := len(classes)
	for i := 0; i < n; i++ {
		next := classes[(i+1)%n]
		step := (int(next) - int(classes[i]) + pitch.NumClasses) % pitch.NumClasses
		if n == 1 {
			step = 0
		}
		out[step]++
	}

	complement := obj.Classes.Complement()
	for c := 0; c < pitch.NumClasses; c++ {
		if complement.Contains(pitch.Class(c)) {
			out[pitch.NumClasses+c] = 1
		}
	}
	return nil
}

// computeContext encodes the chroma profile reordered along the circle of
// fifths, starting from the root. Harmonically close classes land in
// neighboring positions.
func computeContext(obj Object, out []float32) error {
	if obj.Classes.IsEmpty() {
		return errEmptySet
	}

	for i := 0; i < pitch.NumClasses; i++ {
		c := obj.Root.Transpose(i * 7)
		if obj.Classes.Contains(c) {
			out[i] = 1
		}
	}
	return nil
}

// computeSymbolic encodes the notated anchors: full weight on the root
// position, half weight on a bass differing from the root.
func computeSymbolic(obj Object, out []float32) error {
	if obj.Classes.IsEmpty() {
		return errEmptySet
	}

	out[obj.Root%pitch.NumClasses] = 1
	if obj.Bass != obj.Root {
		out[obj.Bass%pitch.NumClasses] = 0.5
	}
	return nil
}

// harmonicOffsets holds the chromatic offset of harmonics 1..13 relative to
// the fundamental: round(12*log2(n)) mod 12.
var harmonicOffsets = [13]int{0, 0, 7, 0, 4, 7, 10, 0, 2, 4, 6, 7, 8}

// computeSpectral encodes alignment of the set with the harmonic series of
// the root. Harmonic n contributes 1/n when its pitch class is present.
func computeSpectral(obj Object, out []float32) error {
	if obj.Classes.IsEmpty() {
		return errEmptySet
	}

	for n := 1; n <= len(harmonicOffsets); n++ {
		c := obj.Root.Transpose(harmonicOffsets[n-1])
		if obj.Classes.Contains(c) {
			out[n-1] = 1 / float32(n)
		}
	}
	return nil
}

// computeExtensions encodes the interval-class vector followed by the
// root-relative positions of tension tones (everything beyond root, thirds
// and fifth).
func computeExtensions(obj Object, out []float32) error {
	if obj.Classes.IsEmpty() {
		return errEmptySet
	}

	icv := obj.Classes.IntervalClassVector()
	for i, count := range icv {
		out[i] = float32(count)
	}

	rooted := obj.Classes.Transpose(-int(obj.Root))
	for rel := 0; rel < pitch.NumClasses; rel++ {
		switch rel {
		case 0, 3, 4, 7:
			// chord-tone skeleton, not a tension
		default:
			if rooted.Contains(pitch.Class(rel)) {
				out[6+rel] = 1
			}
		}
	}
	return nil
}
