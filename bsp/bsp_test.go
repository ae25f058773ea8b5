package bsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tonalgo/pitch"
)

func TestDefaultTreeRouting(t *testing.T) {
	tree := DefaultTree()

	// C major scale fits the major territory with 7 common elements and the
	// minor territory with fewer; it must route to "Major Regions".
	cMajor := pitch.NewSet(pitch.C, pitch.D, pitch.E, pitch.F, pitch.G, pitch.A, pitch.B)
	region := tree.FindRegion(cMajor)
	assert.Equal(t, "Major Regions", region.Name)
	assert.Equal(t, TonalityMajor, region.Tonality)

	// C natural minor routes to "Minor Regions".
	cMinor := pitch.NewSet(pitch.C, pitch.D, pitch.DSharp, pitch.F, pitch.G, pitch.GSharp, pitch.ASharp)
	assert.Equal(t, "Minor Regions", tree.FindRegion(cMinor).Name)
}

func TestFindRegionTieBreak(t *testing.T) {
	tree := DefaultTree()

	// {C} fits both children equally; ties prefer the left (major) child.
	region := tree.FindRegion(pitch.NewSet(pitch.C))
	assert.Equal(t, "Major Regions", region.Name)

	// The empty set scores 0 against both children and also lands left.
	assert.Equal(t, "Major Regions", tree.FindRegion(pitch.NewSet()).Name)
}

func TestSpatialQueryConfidence(t *testing.T) {
	tree := DefaultTree()

	cMajor := pitch.NewSet(pitch.C, pitch.D, pitch.E, pitch.F, pitch.G, pitch.A, pitch.B)
	res := tree.SpatialQuery(cMajor, 0, StrategyNearest)
	assert.Equal(t, "Major Regions", res.Region.Name)
	assert.Equal(t, 0.9, res.Confidence, "territory is a superset of the query")
	assert.Len(t, res.Elements, 7)
	assert.GreaterOrEqual(t, res.Duration.Nanoseconds(), int64(0))

	// A set leaking outside the found territory reports 0.5.
	leaky := pitch.NewSet(pitch.C, pitch.D, pitch.E, pitch.FSharp)
	res = tree.SpatialQuery(leaky, 0, StrategyNearest)
	assert.Equal(t, 0.5, res.Confidence)

	// Strategy is accepted but must not alter the routing.
	for _, s := range []Strategy{StrategyNearest, StrategyRange, StrategyBalanced} {
		r := tree.SpatialQuery(cMajor, 3.5, s)
		assert.Equal(t, res.Region.Name, tree.SpatialQuery(leaky, 0, s).Region.Name)
		assert.Equal(t, "Major Regions", r.Region.Name)
	}
}

func TestNodeConstruction(t *testing.T) {
	leaf := NewLeaf(Region{Name: "leaf"})
	assert.True(t, leaf.IsLeaf())

	_, err := NewNode(Region{Name: "bad"}, leaf, nil)
	assert.Error(t, err)

	_, err = New(nil)
	assert.Error(t, err)

	node, err := NewNode(Region{Name: "ok"}, NewLeaf(Region{}), NewLeaf(Region{}))
	require.NoError(t, err)
	assert.False(t, node.IsLeaf())
}

func TestCustomDeeperTree(t *testing.T) {
	// Three-level tree: descent continues past internal nodes to a leaf.
	sharpLeaf := NewLeaf(Region{
		Name:      "Sharp Majors",
		Tonality:  TonalityMajor,
		Territory: pitch.NewSet(pitch.G, pitch.D, pitch.A, pitch.E, pitch.B, pitch.FSharp, pitch.CSharp),
		Center:    pitch.G,
	})
	flatLeaf := NewLeaf(Region{
		Name:      "Flat Majors",
		Tonality:  TonalityMajor,
		Territory: pitch.NewSet(pitch.F, pitch.ASharp, pitch.DSharp, pitch.GSharp, pitch.CSharp, pitch.C),
		Center:    pitch.F,
	})
	major, err := NewNode(Region{
		Name:      "Major Regions",
		Tonality:  TonalityMajor,
		Territory: pitch.NewSet(pitch.C, pitch.D, pitch.E, pitch.F, pitch.G, pitch.A, pitch.B),
		Center:    pitch.C,
	}, sharpLeaf, flatLeaf)
	require.NoError(t, err)

	minor := NewLeaf(Region{
		Name:      "Minor Regions",
		Tonality:  TonalityMinor,
		Territory: pitch.NewSet(pitch.C, pitch.D, pitch.DSharp, pitch.F, pitch.G, pitch.GSharp, pitch.ASharp),
		Center:    pitch.C,
	})

	root, err := NewNode(Region{
		Name:      "Chromatic Space",
		Territory: pitch.Full(),
	}, major, minor)
	require.NoError(t, err)

	tree, err := New(root)
	require.NoError(t, err)

	// G major pentachord leans sharp.
	region := tree.FindRegion(pitch.NewSet(pitch.G, pitch.A, pitch.B, pitch.D, pitch.E))
	assert.Equal(t, "Sharp Majors", region.Name)
}

func TestRegionContains(t *testing.T) {
	r := Region{Territory: pitch.NewSet(pitch.C, pitch.E, pitch.G)}
	assert.True(t, r.Contains(pitch.NewSet(pitch.C, pitch.G)))
	assert.True(t, r.Contains(pitch.NewSet()))
	assert.False(t, r.Contains(pitch.NewSet(pitch.C, pitch.D)))
}
