package embedding

import "fmt"

// Partition names of the default layout, in published order.
const (
	PartitionIdentity   = "identity"
	PartitionStructure  = "structure"
	PartitionMorphology = "morphology"
	PartitionContext    = "context"
	PartitionSymbolic   = "symbolic"
	PartitionSpectral   = "spectral"
	PartitionExtensions = "extensions"
)

// Partition is a named, fixed-length, contiguous sub-range of an embedding.
type Partition struct {
	Name   string
	Offset int
	Length int
}

// Layout describes the fixed partition schema shared by every embedding in
// one index. Partition boundaries are fixed at schema-definition time; the
// names, lengths and order are a published contract that weight presets and
// downstream consumers depend on.
type Layout struct {
	parts  []Partition
	byName map[string]int
	dim    int
}

// NewLayout builds a layout from (name, length) pairs. Offsets are assigned
// contiguously in argument order.
func NewLayout(parts ...Partition) (*Layout, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("embedding: layout requires at least one partition")
	}

	l := &Layout{
		parts:  make([]Partition, len(parts)),
		byName: make(map[string]int, len(parts)),
	}
	offset := 0
	for i, p := range parts {
		if p.Name == "" {
			return nil, fmt.Errorf("embedding: partition %d has no name", i)
		}
		if p.Length <= 0 {
			return nil, fmt.Errorf("embedding: partition %q has invalid length %d", p.Name, p.Length)
		}
		if _, exists := l.byName[p.Name]; exists {
			return nil, fmt.Errorf("embedding: duplicate partition %q", p.Name)
		}
		l.parts[i] = Partition{Name: p.Name, Offset: offset, Length: p.Length}
		l.byName[p.Name] = i
		offset += p.Length
	}
	l.dim = offset

	return l, nil
}

// MustLayout is like NewLayout but panics on error.
// Intended for package-level layout definitions.
func MustLayout(parts ...Partition) *Layout {
	l, err := NewLayout(parts...)
	if err != nil {
		panic(err)
	}
	return l
}

// DefaultLayout is the published partition schema for musical objects.
// Total dimension: 109.
var DefaultLayout = MustLayout(
	Partition{Name: PartitionIdentity, Length: 6},
	Partition{Name: PartitionStructure, Length: 24},
	Partition{Name: PartitionMorphology, Length: 24},
	Partition{Name: PartitionContext, Length: 12},
	Partition{Name: PartitionSymbolic, Length: 12},
	Partition{Name: PartitionSpectral, Length: 13},
	Partition{Name: PartitionExtensions, Length: 18},
)

// Dimension returns the total vector length of the layout.
func (l *Layout) Dimension() int { return l.dim }

// Partitions returns the partitions in schema order.
// The returned slice must be treated as read-only.
func (l *Layout) Partitions() []Partition { return l.parts }

// Lookup returns the partition with the given name.
func (l *Layout) Lookup(name string) (Partition, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Partition{}, false
	}
	return l.parts[i], true
}

// Slice returns the sub-range of v covered by the named partition.
// v must have the layout's full dimension.
func (l *Layout) Slice(v []float32, name string) ([]float32, bool) {
	p, ok := l.Lookup(name)
	if !ok || len(v) != l.dim {
		return nil, false
	}
	return v[p.Offset : p.Offset+p.Length], true
}
