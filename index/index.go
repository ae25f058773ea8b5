// Package index provides an in-memory similarity index over fixed-layout
// embeddings with weighted, preset-driven top-K retrieval.
//
// The index uses a copy-on-write pattern for lock-free concurrent reads:
// writes clone the current state and swap it in atomically, so a Search
// never stalls behind an Upsert and vice versa.
package index

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/tonalgo/embedding"
	"github.com/hupe1980/tonalgo/internal/math32"
)

// Metadata is the caller-supplied payload stored alongside an embedding.
type Metadata struct {
	// Name is a display name for the entry.
	Name string
	// Category groups entries for Stats and filtered search.
	Category string
	// Attributes carries arbitrary extra fields.
	Attributes map[string]string
}

// entry is one stored (id, embedding, metadata) triple. Entries are
// immutable once published; Upsert replaces the whole entry.
type entry struct {
	id      string
	ordinal uint32
	vector  []float32
	// partNorms caches the Euclidean norm of each layout partition,
	// computed once at upsert time to keep the scoring path cheap.
	partNorms []float32
	md        Metadata
}

// state is the immutable index state for lock-free reads.
type state struct {
	entries []*entry // ordinal-indexed; nil entries are tombstones
	byID    map[string]uint32
	// categories maps a category to the set of ordinals carrying it.
	// Bitmaps reachable from a published state are never mutated; writes
	// clone a bitmap before changing it.
	categories map[string]*roaring.Bitmap
	count      int
}

// Options contains configuration options for the index.
type Options struct {
	// Layout is the embedding partition schema. Defaults to
	// embedding.DefaultLayout.
	Layout *embedding.Layout

	// Presets is the named weight table used by Search. Defaults to
	// DefaultPresets().
	Presets *PresetTable

	// NumWorkers sizes the scoring worker pool. <= 0 uses GOMAXPROCS.
	NumWorkers int

	// BatchSize is the number of entries scored per pooled task.
	BatchSize int
}

// DefaultOptions contains the default configuration options for the index.
var DefaultOptions = Options{
	BatchSize: 4096,
}

// Index is an in-memory store of (id, embedding, metadata) entries with
// weighted top-K similarity search. Safe for concurrent use.
type Index struct {
	layout    *embedding.Layout
	presets   *PresetTable
	batchSize int
	pool      *WorkerPool

	state   atomic.Value // holds *state
	writeMu sync.Mutex   // serializes writes only
	closed  atomic.Bool
}

// New creates a new similarity index.
func New(optFns ...func(o *Options)) *Index {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Layout == nil {
		opts.Layout = embedding.DefaultLayout
	}
	if opts.Presets == nil {
		opts.Presets = DefaultPresets()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultOptions.BatchSize
	}

	ix := &Index{
		layout:    opts.Layout,
		presets:   opts.Presets,
		batchSize: opts.BatchSize,
		pool:      NewWorkerPool(opts.NumWorkers),
	}
	ix.state.Store(emptyState())

	return ix
}

func emptyState() *state {
	return &state{
		byID:       make(map[string]uint32),
		categories: make(map[string]*roaring.Bitmap),
	}
}

// Layout returns the embedding schema the index enforces.
func (ix *Index) Layout() *embedding.Layout { return ix.layout }

// Presets returns the preset table used by Search.
func (ix *Index) Presets() *PresetTable { return ix.presets }

func (ix *Index) getState() *state {
	return ix.state.Load().(*state)
}

// cloneState deep-copies the bookkeeping structures. Category bitmaps are
// shared; callers must clone a bitmap before mutating it.
func cloneState(st *state) *state {
	newEntries := make([]*entry, len(st.entries))
	copy(newEntries, st.entries)

	newByID := make(map[string]uint32, len(st.byID))
	for id, ord := range st.byID {
		newByID[id] = ord
	}

	newCategories := make(map[string]*roaring.Bitmap, len(st.categories))
	for cat, bm := range st.categories {
		newCategories[cat] = bm
	}

	return &state{
		entries:    newEntries,
		byID:       newByID,
		categories: newCategories,
		count:      st.count,
	}
}

// mutableCategory returns a clone of the category bitmap ready for mutation,
// installing it in st.
func mutableCategory(st *state, category string) *roaring.Bitmap {
	bm, ok := st.categories[category]
	if !ok {
		bm = roaring.New()
	} else {
		bm = bm.Clone()
	}
	st.categories[category] = bm
	return bm
}

func (ix *Index) partNorms(values []float32) []float32 {
	parts := ix.layout.Partitions()
	norms := make([]float32, len(parts))
	for i, p := range parts {
		norms[i] = math32.Norm(values[p.Offset : p.Offset+p.Length])
	}
	return norms
}

// Upsert stores or replaces exactly one entry per id. Re-inserting an
// existing id overwrites its embedding and metadata while keeping the
// original insertion ordinal, so ranking tie-breaks stay stable.
func (ix *Index) Upsert(ctx context.Context, id string, e embedding.Embedding, md Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ix.closed.Load() {
		return ErrClosed
	}
	if id == "" {
		return fmt.Errorf("index: empty id")
	}
	if e.Dimension() != ix.layout.Dimension() {
		return &ErrDimensionMismatch{Expected: ix.layout.Dimension(), Actual: e.Dimension()}
	}

	// Copy the vector and precompute partition norms outside the lock.
	values := make([]float32, e.Dimension())
	copy(values, e.Values())
	norms := ix.partNorms(values)

	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	oldState := ix.getState()
	newState := cloneState(oldState)

	if ord, exists := newState.byID[id]; exists {
		prev := newState.entries[ord]
		if prev.md.Category != md.Category {
			mutableCategory(newState, prev.md.Category).Remove(ord)
			mutableCategory(newState, md.Category).Add(ord)
		}
		newState.entries[ord] = &entry{id: id, ordinal: ord, vector: values, partNorms: norms, md: md}
	} else {
		ord := uint32(len(newState.entries))
		newState.entries = append(newState.entries, &entry{id: id, ordinal: ord, vector: values, partNorms: norms, md: md})
		newState.byID[id] = ord
		mutableCategory(newState, md.Category).Add(ord)
		newState.count++
	}

	ix.state.Store(newState)
	return nil
}

// Delete removes the entry with the given id.
func (ix *Index) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ix.closed.Load() {
		return ErrClosed
	}

	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	oldState := ix.getState()
	ord, exists := oldState.byID[id]
	if !exists {
		return &ErrNotFound{ID: id}
	}

	newState := cloneState(oldState)
	prev := newState.entries[ord]
	newState.entries[ord] = nil
	delete(newState.byID, id)
	mutableCategory(newState, prev.md.Category).Remove(ord)
	newState.count--

	ix.state.Store(newState)
	return nil
}

// Get returns the stored metadata for id.
func (ix *Index) Get(id string) (Metadata, bool) {
	st := ix.getState()
	ord, ok := st.byID[id]
	if !ok {
		return Metadata{}, false
	}
	return st.entries[ord].md, true
}

// Clear empties the index. Ordinals restart from zero.
func (ix *Index) Clear() {
	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()
	ix.state.Store(emptyState())
}

// Len returns the number of live entries.
func (ix *Index) Len() int {
	return ix.getState().count
}

// Stats is a read-only derived view of the index.
type Stats struct {
	// Count is the number of live entries.
	Count int
	// PerCategoryCounts maps category to live entry count.
	PerCategoryCounts map[string]int
	// EmbeddingDimension is the enforced vector length.
	EmbeddingDimension int
}

// Stats returns current index statistics.
func (ix *Index) Stats() Stats {
	st := ix.getState()
	perCategory := make(map[string]int, len(st.categories))
	for cat, bm := range st.categories {
		if n := int(bm.GetCardinality()); n > 0 {
			perCategory[cat] = n
		}
	}
	return Stats{
		Count:              st.count,
		PerCategoryCounts:  perCategory,
		EmbeddingDimension: ix.layout.Dimension(),
	}
}

// Close shuts down the scoring worker pool. Subsequent operations return
// ErrClosed.
func (ix *Index) Close() {
	if !ix.closed.CompareAndSwap(false, true) {
		return
	}
	ix.pool.Close()
}

// SearchResult is one ranked retrieval hit.
type SearchResult struct {
	ID       string
	Score    float32
	Metadata Metadata
}

// SearchOptions contains per-query options.
type SearchOptions struct {
	// Category restricts scoring to entries of one category.
	Category string

	hasCategory bool
}

// WithCategory restricts a search to entries of the given category.
func WithCategory(category string) func(o *SearchOptions) {
	return func(o *SearchOptions) {
		o.Category = category
		o.hasCategory = true
	}
}

// weightedPart is one partition participating in a preset's score.
type weightedPart struct {
	part   embedding.Partition
	index  int // position in layout order, for partNorms lookup
	weight float32
	qNorm  float32
}

// resolvePreset maps a preset onto the layout in schema order.
func (ix *Index) resolvePreset(preset *Preset, query []float32) ([]weightedPart, error) {
	for name := range preset.Weights {
		if _, ok := ix.layout.Lookup(name); !ok {
			return nil, fmt.Errorf("index: preset %q references unknown partition %q", preset.Name, name)
		}
	}

	var parts []weightedPart
	for i, p := range ix.layout.Partitions() {
		w, ok := preset.Weights[p.Name]
		if !ok || w == 0 {
			continue
		}
		parts = append(parts, weightedPart{
			part:   p,
			index:  i,
			weight: w,
			qNorm:  math32.Norm(query[p.Offset : p.Offset+p.Length]),
		})
	}
	return parts, nil
}

// score computes the weighted sum of per-partition cosine similarities.
// A partition with zero norm on either side contributes exactly 0.
func score(parts []weightedPart, query []float32, ent *entry) float32 {
	var total float32
	for _, wp := range parts {
		if wp.qNorm == 0 {
			continue
		}
		eNorm := ent.partNorms[wp.index]
		if eNorm == 0 {
			continue
		}
		lo, hi := wp.part.Offset, wp.part.Offset+wp.part.Length
		dot := math32.Dot(query[lo:hi], ent.vector[lo:hi])
		total += wp.weight * (dot / (wp.qNorm * eNorm))
	}
	return total
}

// Search scores every stored entry against query using the named preset and
// returns the topK results ranked by descending score; exact score ties are
// broken by insertion ordinal for determinism. Searching an empty index is
// a defined non-error case returning an empty list.
func (ix *Index) Search(ctx context.Context, query embedding.Embedding, presetName string, topK int, optFns ...func(o *SearchOptions)) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ix.closed.Load() {
		return nil, ErrClosed
	}
	if topK <= 0 {
		return nil, ErrInvalidK
	}
	if query.Dimension() != ix.layout.Dimension() {
		return nil, &ErrDimensionMismatch{Expected: ix.layout.Dimension(), Actual: query.Dimension()}
	}

	preset, ok := ix.presets.Get(presetName)
	if !ok {
		return nil, &ErrUnknownPreset{Name: presetName}
	}

	var opts SearchOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	st := ix.getState()
	if st.count == 0 {
		return []SearchResult{}, nil
	}

	var filter *roaring.Bitmap
	if opts.hasCategory {
		bm, ok := st.categories[opts.Category]
		if !ok || bm.IsEmpty() {
			return []SearchResult{}, nil
		}
		filter = bm
	}

	qv := query.Values()
	parts, err := ix.resolvePreset(preset, qv)
	if err != nil {
		return nil, err
	}

	scores := make([]float32, len(st.entries))
	if err := ix.scoreAll(ctx, st, parts, qv, filter, scores); err != nil {
		return nil, err
	}

	return ix.selectTopK(st, scores, filter, topK), nil
}

// scoreAll fills scores for every live (and unfiltered) entry, dispatching
// fixed-size batches to the worker pool. Cancellation is checked between
// batches so long scans over large indices can be aborted without
// corrupting state.
func (ix *Index) scoreAll(ctx context.Context, st *state, parts []weightedPart, query []float32, filter *roaring.Bitmap, scores []float32) error {
	var wg sync.WaitGroup
	var submitErr error

	for start := 0; start < len(st.entries); start += ix.batchSize {
		if err := ctx.Err(); err != nil {
			submitErr = err
			break
		}

		end := start + ix.batchSize
		if end > len(st.entries) {
			end = len(st.entries)
		}

		lo, hi := start, end
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				ent := st.entries[i]
				if ent == nil {
					continue
				}
				if filter != nil && !filter.Contains(uint32(i)) {
					continue
				}
				scores[i] = score(parts, query, ent)
			}
		}
		if err := ix.pool.Submit(ctx, task); err != nil {
			wg.Done()
			submitErr = err
			break
		}
	}

	wg.Wait()
	return submitErr
}

// selectTopK picks the topK candidates deterministically: highest score
// first, equal scores ordered by ascending insertion ordinal.
func (ix *Index) selectTopK(st *state, scores []float32, filter *roaring.Bitmap, topK int) []SearchResult {
	h := &resultHeap{}
	heap.Init(h)

	consider := func(ord uint32) {
		ent := st.entries[ord]
		if ent == nil {
			return
		}
		cand := scored{ordinal: ord, score: scores[ord]}
		if h.Len() < topK {
			heap.Push(h, cand)
			return
		}
		if (*h)[0].beats(cand) {
			return
		}
		(*h)[0] = cand
		heap.Fix(h, 0)
	}

	if filter != nil {
		it := filter.Iterator()
		for it.HasNext() {
			consider(it.Next())
		}
	} else {
		for ord := range st.entries {
			consider(uint32(ord))
		}
	}

	results := make([]SearchResult, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		item := heap.Pop(h).(scored)
		ent := st.entries[item.ordinal]
		results[i] = SearchResult{ID: ent.id, Score: item.score, Metadata: ent.md}
	}
	return results
}

// scored is a candidate in the top-K selection heap.
type scored struct {
	ordinal uint32
	score   float32
}

// beats reports whether s ranks strictly ahead of other in the final
// ordering (higher score, then lower ordinal).
func (s scored) beats(other scored) bool {
	if s.score != other.score {
		return s.score > other.score
	}
	return s.ordinal < other.ordinal
}

// resultHeap is a min-heap: the weakest candidate sits at the root so it
// can be evicted when a better one arrives.
type resultHeap []scored

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[j].beats(h[i]) }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(scored)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
