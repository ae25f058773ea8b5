// Package embedding encodes musical pitch-class structures into fixed-layout
// numeric fingerprints. An embedding is a single float32 vector split into
// named, contiguous partitions; each partition captures one semantic facet
// and is computed independently of the others.
package embedding

import (
	"fmt"
	"slices"

	"github.com/hupe1980/tonalgo/pitch"
)

// Kind tags the closed set of musical object kinds that produce embeddings.
type Kind uint8

const (
	KindChord Kind = iota
	KindScale
)

func (k Kind) String() string {
	switch k {
	case KindChord:
		return "chord"
	case KindScale:
		return "scale"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Object describes a musical object to embed. Root and Bass are pitch
// classes; callers with no distinct bass set Bass equal to Root.
type Object struct {
	Name    string
	Kind    Kind
	Root    pitch.Class
	Bass    pitch.Class
	Classes pitch.Set
}

// Embedding is a fixed-layout numeric fingerprint of a musical object.
// The zero value is invalid; embeddings are produced by a Builder.
type Embedding struct {
	layout *Layout
	values []float32
}

// FromValues wraps an existing vector in an Embedding. The vector length
// must match the layout dimension. The slice is not copied.
func FromValues(layout *Layout, values []float32) (Embedding, error) {
	if layout == nil {
		layout = DefaultLayout
	}
	if len(values) != layout.Dimension() {
		return Embedding{}, fmt.Errorf("embedding: expected %d values, got %d", layout.Dimension(), len(values))
	}
	return Embedding{layout: layout, values: values}, nil
}

// Layout returns the partition schema of the embedding.
func (e Embedding) Layout() *Layout { return e.layout }

// Dimension returns the total vector length.
func (e Embedding) Dimension() int { return len(e.values) }

// Values returns the underlying vector.
// The returned slice must be treated as read-only.
func (e Embedding) Values() []float32 { return e.values }

// Partition returns the sub-vector of the named partition.
// The returned slice aliases the embedding and must be treated as read-only.
func (e Embedding) Partition(name string) ([]float32, bool) {
	if e.layout == nil {
		return nil, false
	}
	return e.layout.Slice(e.values, name)
}

// Clone returns a deep copy of the embedding.
func (e Embedding) Clone() Embedding {
	return Embedding{layout: e.layout, values: slices.Clone(e.values)}
}
