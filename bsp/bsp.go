// Package bsp provides a static binary space partition of the 12-element
// chromatic space into named tonal regions. The tree is built once and never
// rebalanced; region classification is a heuristic O(depth) descent, not an
// exact metric index.
package bsp

import (
	"fmt"
	"time"

	"github.com/hupe1980/tonalgo/pitch"
)

// Tonality classifies a region's character.
type Tonality uint8

const (
	TonalityChromatic Tonality = iota
	TonalityMajor
	TonalityMinor
)

func (t Tonality) String() string {
	switch t {
	case TonalityChromatic:
		return "chromatic"
	case TonalityMajor:
		return "major"
	case TonalityMinor:
		return "minor"
	default:
		return fmt.Sprintf("Tonality(%d)", uint8(t))
	}
}

// Region is a named territory in tonal space.
type Region struct {
	// Name is the region's display name.
	Name string
	// Tonality is the region's tonal classification.
	Tonality Tonality
	// Territory is the pitch-class set the region owns.
	Territory pitch.Set
	// Center is the region's tonal center.
	Center pitch.Class
}

// Contains reports whether the region's territory is a superset of set.
func (r Region) Contains(set pitch.Set) bool {
	return r.Territory.ContainsAll(set)
}

// Node owns one region and has zero or two children.
type Node struct {
	region Region
	left   *Node
	right  *Node
}

// NewLeaf creates a childless node.
func NewLeaf(region Region) *Node {
	return &Node{region: region}
}

// NewNode creates an internal node with exactly two children.
func NewNode(region Region, left, right *Node) (*Node, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("bsp: internal node %q requires two children", region.Name)
	}
	return &Node{region: region, left: left, right: right}, nil
}

// Region returns the node's region.
func (n *Node) Region() Region { return n.region }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return n.left == nil }

// Strategy is a traversal hint accepted by SpatialQuery. It does not alter
// traversal today; it is carried through for interface stability.
type Strategy uint8

const (
	StrategyNearest Strategy = iota
	StrategyRange
	StrategyBalanced
)

func (s Strategy) String() string {
	switch s {
	case StrategyNearest:
		return "nearest"
	case StrategyRange:
		return "range"
	case StrategyBalanced:
		return "balanced"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Tree is a static binary partition tree over tonal space.
// Safe for concurrent use; it is immutable after construction.
type Tree struct {
	root *Node
}

// New creates a Tree with the given root.
func New(root *Node) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("bsp: nil root")
	}
	return &Tree{root: root}, nil
}

// DefaultTree builds the standard two-level tree: the full chromatic space
// split into major and minor diatonic regions.
func DefaultTree() *Tree {
	majorLeaf := NewLeaf(Region{
		Name:      "Major Regions",
		Tonality:  TonalityMajor,
		Territory: pitch.NewSet(pitch.C, pitch.D, pitch.E, pitch.F, pitch.G, pitch.A, pitch.B),
		Center:    pitch.C,
	})
	minorLeaf := NewLeaf(Region{
		Name:      "Minor Regions",
		Tonality:  TonalityMinor,
		Territory: pitch.NewSet(pitch.C, pitch.D, pitch.DSharp, pitch.F, pitch.G, pitch.GSharp, pitch.ASharp),
		Center:    pitch.C,
	})

	root, err := NewNode(Region{
		Name:      "Chromatic Space",
		Tonality:  TonalityChromatic,
		Territory: pitch.Full(),
		Center:    pitch.C,
	}, majorLeaf, minorLeaf)
	if err != nil {
		panic(err) // unreachable: both children are non-nil
	}

	tree, err := New(root)
	if err != nil {
		panic(err)
	}
	return tree
}

// FindRegion classifies set by descending from the root. At each internal
// node both children are scored by fit (the count of classes shared between
// set and the child's territory) and the higher-fit child is followed; exact
// ties prefer the left child. The reached leaf's region is returned.
func (t *Tree) FindRegion(set pitch.Set) Region {
	node := t.root
	for !node.IsLeaf() {
		leftFit := set.IntersectionCount(node.left.region.Territory)
		rightFit := set.IntersectionCount(node.right.region.Territory)
		if rightFit > leftFit {
			node = node.right
		} else {
			node = node.left
		}
	}
	return node.region
}

// QueryResult is the outcome of a SpatialQuery.
type QueryResult struct {
	// Region is the classified tonal region.
	Region Region
	// Elements are the query classes found inside the region's territory.
	Elements []pitch.Class
	// Confidence is 0.9 when the region territory is a superset of the
	// query set, else 0.5.
	Confidence float64
	// Duration is the elapsed classification time.
	Duration time.Duration
}

// SpatialQuery wraps FindRegion with a confidence report. The radius and
// strategy parameters are accepted for interface stability but do not alter
// traversal.
func (t *Tree) SpatialQuery(center pitch.Set, radius float64, strategy Strategy) QueryResult {
	_ = radius
	_ = strategy

	start := time.Now()
	region := t.FindRegion(center)

	confidence := 0.5
	if region.Contains(center) {
		confidence = 0.9
	}

	return QueryResult{
		Region:     region,
		Elements:   center.Intersect(region.Territory).Classes(),
		Confidence: confidence,
		Duration:   time.Since(start),
	}
}
