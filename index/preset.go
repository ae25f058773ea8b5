package index

import (
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/tonalgo/embedding"
)

// Preset is a named per-partition weighting scheme. Weights bias similarity
// scoring toward particular musical facets; partitions absent from the map
// contribute nothing.
type Preset struct {
	Name    string             `yaml:"name"`
	Weights map[string]float32 `yaml:"weights"`
}

// PresetTable is a thread-safe registry of named presets.
type PresetTable struct {
	mu     sync.RWMutex
	byName map[string]*Preset
}

// NewPresetTable creates an empty PresetTable.
func NewPresetTable() *PresetTable {
	return &PresetTable{byName: make(map[string]*Preset)}
}

// DefaultPresets returns the built-in preset table.
//
//   - "Tonal" favors structural and spectral partitions.
//   - "Atonal" scores on structure only.
//   - "Balanced" weighs every partition equally.
func DefaultPresets() *PresetTable {
	t := NewPresetTable()
	for _, p := range []Preset{
		{
			Name: "Tonal",
			Weights: map[string]float32{
				embedding.PartitionIdentity:   0.05,
				embedding.PartitionStructure:  0.35,
				embedding.PartitionMorphology: 0.10,
				embedding.PartitionContext:    0.15,
				embedding.PartitionSymbolic:   0.05,
				embedding.PartitionSpectral:   0.25,
				embedding.PartitionExtensions: 0.05,
			},
		},
		{
			Name: "Atonal",
			Weights: map[string]float32{
				embedding.PartitionStructure: 1.0,
			},
		},
		{
			Name: "Balanced",
			Weights: map[string]float32{
				embedding.PartitionIdentity:   1,
				embedding.PartitionStructure:  1,
				embedding.PartitionMorphology: 1,
				embedding.PartitionContext:    1,
				embedding.PartitionSymbolic:   1,
				embedding.PartitionSpectral:   1,
				embedding.PartitionExtensions: 1,
			},
		},
	} {
		if err := t.Register(p); err != nil {
			panic(err) // unreachable: built-ins are well-formed
		}
	}
	return t
}

// Register adds or replaces a preset.
func (t *PresetTable) Register(p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("index: preset requires a name")
	}
	if len(p.Weights) == 0 {
		return fmt.Errorf("index: preset %q has no weights", p.Name)
	}

	weights := make(map[string]float32, len(p.Weights))
	for part, w := range p.Weights {
		weights[part] = w
	}

	t.mu.Lock()
	t.byName[p.Name] = &Preset{Name: p.Name, Weights: weights}
	t.mu.Unlock()
	return nil
}

// Get returns the preset with the given name.
func (t *PresetTable) Get(name string) (*Preset, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.byName[name]
	return p, ok
}

// Names returns the registered preset names in unspecified order.
func (t *PresetTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	return names
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets reads presets from YAML of the form:
//
//	presets:
//	  - name: Tonal
//	    weights:
//	      structure: 0.35
//	      spectral: 0.25
func LoadPresets(r io.Reader) ([]Preset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("index: read presets: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("index: parse presets: %w", err)
	}
	return file.Presets, nil
}
