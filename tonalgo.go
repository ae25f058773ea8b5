// Package tonalgo provides a harmonic embedding and similarity retrieval
// engine for Go.
//
// Tonalgo encodes chords and scales into fixed-layout numeric fingerprints
// and retrieves similar objects through weighted, preset-driven search:
//
//   - Fixed 109-dimensional embeddings split into named partitions
//     (identity, structure, morphology, context, symbolic, spectral,
//     extensions), each computed independently and deterministically
//   - Version-invalidated scale cache with atomic snapshot swaps
//   - Tonal-region classification via a binary space partitioning tree
//   - In-memory similarity index with copy-on-write state, preset-weighted
//     per-partition cosine scoring and deterministic ranking
//   - Snapshot save/load with s2 compression
//
// # Quick Start
//
//	ctx := context.Background()
//
//	source := scales.NewStaticSource([]scales.RawDefinition{
//	    {Name: "Major", Category: "diatonic", Notes: []string{"C", "D", "E", "F", "G", "A", "B"}},
//	})
//	eng, err := tonalgo.New(source)
//	if err != nil {
//	    panic(err)
//	}
//	defer eng.Close()
//
//	// Index every cached scale, then search by a chord.
//	_, _ = eng.IndexAllScales(ctx)
//	results, _ := eng.Search(ctx, embedding.Object{
//	    Name:    "Cmaj7",
//	    Kind:    embedding.KindChord,
//	    Root:    pitch.C,
//	    Bass:    pitch.C,
//	    Classes: pitch.NewSet(pitch.C, pitch.E, pitch.G, pitch.B),
//	}, "Tonal", 5)
package tonalgo

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hupe1980/tonalgo/bsp"
	"github.com/hupe1980/tonalgo/embedding"
	"github.com/hupe1980/tonalgo/index"
	"github.com/hupe1980/tonalgo/pitch"
	"github.com/hupe1980/tonalgo/scales"
)

// Engine is the composition root wiring the scale cache, embedding builder,
// tonal-region tree and similarity index behind one facade. Safe for
// concurrent use.
type Engine struct {
	cache   *scales.Cache
	builder *embedding.Builder
	tree    *bsp.Tree
	index   *index.Index
	metrics MetricsCollector
	logger  *Logger
}

// New creates an Engine over the given scale definition source.
func New(source scales.Source, optFns ...Option) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("tonalgo: source must not be nil")
	}

	opts := applyOptions(optFns)

	tree := opts.tree
	if tree == nil {
		tree = bsp.DefaultTree()
	}

	indexOptFns := opts.indexOptions
	if opts.presets != nil {
		indexOptFns = append(indexOptFns, func(o *index.Options) {
			o.Presets = opts.presets
		})
	}

	var builderOptFns []func(o *embedding.BuilderOptions)
	if opts.serialBuild {
		builderOptFns = append(builderOptFns, func(o *embedding.BuilderOptions) {
			o.Concurrent = false
		})
	}

	return &Engine{
		cache:   scales.NewCache(source, scales.WithLogger(opts.logger.Logger)),
		builder: embedding.NewBuilder(builderOptFns...),
		tree:    tree,
		index:   index.New(indexOptFns...),
		metrics: opts.metricsCollector,
		logger:  opts.logger,
	}, nil
}

// Scales returns the underlying scale cache.
func (e *Engine) Scales() *scales.Cache { return e.cache }

// Presets returns the preset table used for search.
func (e *Engine) Presets() *index.PresetTable { return e.index.Presets() }

// BuildEmbedding computes the fixed-layout embedding for obj.
func (e *Engine) BuildEmbedding(ctx context.Context, obj embedding.Object) (embedding.Embedding, error) {
	start := time.Now()
	emb, err := e.builder.Build(ctx, obj)
	duration := time.Since(start)
	e.metrics.RecordBuild(duration, err)
	e.logger.LogBuild(ctx, obj.Name, emb.Dimension(), err)
	return emb, err
}

// IndexObject embeds obj and stores it under id. An empty metadata name
// defaults to the object name; an empty category defaults to the object kind.
func (e *Engine) IndexObject(ctx context.Context, id string, obj embedding.Object, md index.Metadata) error {
	emb, err := e.BuildEmbedding(ctx, obj)
	if err != nil {
		return err
	}

	if md.Name == "" {
		md.Name = obj.Name
	}
	if md.Category == "" {
		md.Category = obj.Kind.String()
	}

	start := time.Now()
	err = translateError(e.index.Upsert(ctx, id, emb, md))
	e.metrics.RecordUpsert(time.Since(start), err)
	e.logger.LogUpsert(ctx, id, err)
	return err
}

// IndexScale embeds the cached scale with the given case-insensitive name
// and stores it under the scale name.
func (e *Engine) IndexScale(ctx context.Context, name string) error {
	entry, ok := e.cache.TryGet(name)
	if !ok {
		return &ErrUnknownScale{Name: name}
	}
	return e.IndexObject(ctx, entry.Name, scaleObject(entry), index.Metadata{
		Name:     entry.Name,
		Category: "scale",
	})
}

// IndexAllScales embeds and indexes every entry of the current cache
// snapshot. It returns the number of scales indexed; on error the already
// indexed entries remain in place.
func (e *Engine) IndexAllScales(ctx context.Context) (int, error) {
	var n int
	for _, entry := range e.cache.List() {
		if err := e.IndexObject(ctx, entry.Name, scaleObject(entry), index.Metadata{
			Name:     entry.Name,
			Category: "scale",
		}); err != nil {
			return n, fmt.Errorf("tonalgo: index scale %q: %w", entry.Name, err)
		}
		n++
	}
	return n, nil
}

// scaleObject converts a cache entry into an embeddable object. The root is
// the first listed note when the entry was defined by notes, otherwise the
// lowest pitch class of the derived set.
func scaleObject(entry *scales.Entry) embedding.Object {
	root := pitch.C
	if len(entry.Notes) > 0 {
		if c, err := pitch.ParseNote(entry.Notes[0]); err == nil {
			root = c
		}
	} else if classes := entry.Classes.Classes(); len(classes) > 0 {
		root = classes[0]
	}

	return embedding.Object{
		Name:    entry.Name,
		Kind:    embedding.KindScale,
		Root:    root,
		Bass:    root,
		Classes: entry.Classes,
	}
}

// Search embeds obj as the query and returns the topK most similar indexed
// entries under the named preset.
func (e *Engine) Search(ctx context.Context, obj embedding.Object, preset string, topK int, optFns ...func(o *index.SearchOptions)) ([]index.SearchResult, error) {
	emb, err := e.BuildEmbedding(ctx, obj)
	if err != nil {
		return nil, err
	}
	return e.SearchEmbedding(ctx, emb, preset, topK, optFns...)
}

// SearchEmbedding runs a similarity search with a pre-built query embedding.
func (e *Engine) SearchEmbedding(ctx context.Context, query embedding.Embedding, preset string, topK int, optFns ...func(o *index.SearchOptions)) ([]index.SearchResult, error) {
	start := time.Now()
	results, err := e.index.Search(ctx, query, preset, topK, optFns...)
	err = translateError(err)
	e.metrics.RecordSearch(topK, time.Since(start), err)
	e.logger.LogSearch(ctx, preset, topK, len(results), err)
	return results, err
}

// SearchScale searches with a cached scale as the query. The scale itself is
// not excluded from the results.
func (e *Engine) SearchScale(ctx context.Context, name, preset string, topK int, optFns ...func(o *index.SearchOptions)) ([]index.SearchResult, error) {
	entry, ok := e.cache.TryGet(name)
	if !ok {
		return nil, &ErrUnknownScale{Name: name}
	}
	return e.Search(ctx, scaleObject(entry), preset, topK, optFns...)
}

// Get returns the stored metadata for id.
func (e *Engine) Get(id string) (index.Metadata, error) {
	md, ok := e.index.Get(id)
	if !ok {
		return index.Metadata{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return md, nil
}

// Delete removes the indexed entry with the given id.
func (e *Engine) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := translateError(e.index.Delete(ctx, id))
	e.metrics.RecordDelete(time.Since(start), err)
	e.logger.LogDelete(ctx, id, err)
	return err
}

// Len returns the number of indexed entries.
func (e *Engine) Len() int { return e.index.Len() }

// Stats returns statistics about the underlying index.
func (e *Engine) Stats() index.Stats { return e.index.Stats() }

// LocateRegion classifies a pitch-class set into its tonal region.
func (e *Engine) LocateRegion(set pitch.Set) bsp.Region {
	return e.tree.FindRegion(set)
}

// RegionQuery runs a spatial query against the tonal-region tree. The radius
// and strategy are traversal hints.
func (e *Engine) RegionQuery(ctx context.Context, center pitch.Set, radius float64, strategy bsp.Strategy) bsp.QueryResult {
	start := time.Now()
	result := e.tree.SpatialQuery(center, radius, strategy)
	e.metrics.RecordRegionQuery(time.Since(start))
	e.logger.LogRegionQuery(ctx, result.Region.Name, result.Confidence)
	return result
}

// NearScale reports the tonal region of a named cached scale along with the
// region's pitch classes shared with the scale.
func (e *Engine) NearScale(ctx context.Context, name string) (bsp.QueryResult, error) {
	entry, ok := e.cache.TryGet(name)
	if !ok {
		return bsp.QueryResult{}, &ErrUnknownScale{Name: name}
	}
	return e.RegionQuery(ctx, entry.Classes, 0, bsp.StrategyBalanced), nil
}

// ParseNotes parses a comma- or space-separated note list into a pitch-class
// set, e.g. "C, E, G" or "C E G".
func ParseNotes(s string) (pitch.Set, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return pitch.Set{}, fmt.Errorf("tonalgo: empty note list")
	}

	classes := make([]pitch.Class, 0, len(fields))
	for _, f := range fields {
		c, err := pitch.ParseNote(f)
		if err != nil {
			return pitch.Set{}, err
		}
		classes = append(classes, c)
	}
	return pitch.NewSet(classes...), nil
}

// SaveToWriter serializes the index to w.
func (e *Engine) SaveToWriter(ctx context.Context, w io.Writer) error {
	err := translateError(e.index.SaveToWriter(w))
	e.logger.LogSnapshot(ctx, e.index.Len(), err)
	return err
}

// LoadFromReader replaces the index contents with a previously saved
// snapshot.
func (e *Engine) LoadFromReader(ctx context.Context, r io.Reader) error {
	err := translateError(e.index.LoadFromReader(r))
	e.logger.LogSnapshot(ctx, e.index.Len(), err)
	return err
}

// Close releases resources held by the engine. Subsequent index operations
// return ErrClosed.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	e.index.Close()
	return nil
}
