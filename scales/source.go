package scales

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// RawDefinition is one unparsed scale or mode definition as provided by the
// backing configuration source. Either Notes or Intervals must be present;
// when both are set, Notes wins.
type RawDefinition struct {
	// Name is the display name, unique per source (case-insensitive).
	Name string `yaml:"name"`
	// Notes lists note names relative to no particular octave, e.g.
	// ["C", "D", "E", "F", "G", "A", "B"].
	Notes []string `yaml:"notes,omitempty"`
	// Intervals lists successive semitone steps from the root, e.g.
	// [2, 2, 1, 2, 2, 2, 1] for the major scale. The root itself is implied.
	Intervals []int `yaml:"intervals,omitempty"`
	// Root names the root note when Intervals is used. Defaults to "C".
	Root string `yaml:"root,omitempty"`
	// Category is an optional grouping label ("scale", "mode", ...).
	Category string `yaml:"category,omitempty"`
}

// Source exposes raw definitions plus an opaque monotonic version token.
// The cache rebuilds its derived snapshot whenever the token changes.
// Definitions are assumed resident in memory; a Source performs no I/O on
// the lookup path.
type Source interface {
	// Version returns the current version token. It must change whenever
	// Definitions would return different content.
	Version() uint64
	// Definitions returns the current raw definitions.
	// The returned slice must be treated as read-only.
	Definitions() []RawDefinition
}

// StaticSource is an in-memory Source. Replacing its definitions bumps the
// version token. Safe for concurrent use.
type StaticSource struct {
	mu      sync.RWMutex
	version atomic.Uint64
	defs    []RawDefinition
}

// NewStaticSource creates a StaticSource with the given definitions at
// version 1.
func NewStaticSource(defs []RawDefinition) *StaticSource {
	s := &StaticSource{defs: defs}
	s.version.Store(1)
	return s
}

// Version returns the current version token.
func (s *StaticSource) Version() uint64 { return s.version.Load() }

// Definitions returns the current raw definitions.
func (s *StaticSource) Definitions() []RawDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defs
}

// SetDefinitions replaces the definitions and bumps the version token.
func (s *StaticSource) SetDefinitions(defs []RawDefinition) {
	s.mu.Lock()
	s.defs = defs
	s.mu.Unlock()
	s.version.Add(1)
}

type definitionFile struct {
	Definitions []RawDefinition `yaml:"definitions"`
}

// LoadDefinitions reads raw definitions from a YAML file of the form:
//
//	definitions:
//	  - name: Major
//	    notes: [C, D, E, F, G, A, B]
//	  - name: Minor Pentatonic
//	    root: A
//	    intervals: [3, 2, 2, 3]
func LoadDefinitions(path string) ([]RawDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scales: read definitions: %w", err)
	}

	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("scales: parse definitions: %w", err)
	}
	return file.Definitions, nil
}
