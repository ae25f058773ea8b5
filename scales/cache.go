// Package scales provides a version-invalidated cache of parsed scale and
// mode definitions. The cache wraps a Source of raw definitions and rebuilds
// its derived snapshot wholesale whenever the source's version token
// changes. Replacement snapshots are built off to the side and swapped in
// atomically, so concurrent readers see either the fully-old or fully-new
// snapshot, never a partial rebuild.
package scales

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/tonalgo/pitch"
)

// Entry is one parsed, immutable scale or mode definition. Entries are
// shared across readers and must not be mutated.
type Entry struct {
	// Name is the definition's display name.
	Name string
	// Category is the grouping label from the raw definition.
	Category string
	// Notes is the raw note list the entry was derived from.
	Notes []string
	// Classes is the derived pitch-class set.
	Classes pitch.Set
	// ID is the numeric identifier derived from Classes (the chroma mask).
	ID uint16
	// ICV is the interval-class vector of Classes.
	ICV [6]int
}

// ParseError indicates that a raw definition could not be parsed during a
// cache rebuild. The rebuild is aborted and the cache keeps serving its
// last-known-good snapshot.
//
// The original underlying error can be accessed via errors.Unwrap.
type ParseError struct {
	Definition string
	cause      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("definition %q: parse failed: %v", e.Definition, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

// snapshot is the immutable derived state for one source version.
type snapshot struct {
	version uint64
	entries []*Entry
	byName  map[string]*Entry
	byID    map[uint16]*Entry
}

// Options contains configuration options for the cache.
type Options struct {
	// SkipMalformed skips unparsable definitions instead of aborting the
	// whole rebuild. Default false: one malformed definition aborts the
	// rebuild and the last-good snapshot keeps serving.
	SkipMalformed bool

	// Logger receives rebuild outcomes. Defaults to slog.Default().
	Logger *slog.Logger
}

// Cache is a memoizing store of parsed definitions keyed by case-insensitive
// name and by chroma-mask id. Safe for concurrent use.
type Cache struct {
	source Source
	opts   Options

	rebuildMu sync.Mutex
	snap      atomic.Pointer[snapshot]
}

// NewCache creates a Cache over source. The first lookup triggers the
// initial rebuild.
func NewCache(source Source, optFns ...func(o *Options)) *Cache {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Cache{source: source, opts: opts}
}

// WithSkipMalformed makes rebuilds skip unparsable definitions rather than
// aborting.
func WithSkipMalformed() func(o *Options) {
	return func(o *Options) {
		o.SkipMalformed = true
	}
}

// WithLogger sets the logger used for rebuild outcomes.
func WithLogger(l *slog.Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// current returns the up-to-date snapshot, rebuilding if the source version
// changed. On rebuild failure the previous snapshot (possibly nil) is
// returned alongside the error.
func (c *Cache) current() (*snapshot, error) {
	if s := c.snap.Load(); s != nil && s.version == c.source.Version() {
		return s, nil
	}

	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	// Another rebuild may have won the race.
	version := c.source.Version()
	if s := c.snap.Load(); s != nil && s.version == version {
		return s, nil
	}

	next, err := c.build(version)
	if err != nil {
		c.opts.Logger.Warn("scale cache rebuild failed, serving last-good snapshot",
			"version", version,
			"error", err,
		)
		return c.snap.Load(), err
	}

	c.snap.Store(next)
	c.opts.Logger.Debug("scale cache rebuilt",
		"version", version,
		"entries", len(next.entries),
	)
	return next, nil
}

// build parses every raw definition into a fresh snapshot. It never touches
// the currently published snapshot.
func (c *Cache) build(version uint64) (*snapshot, error) {
	defs := c.source.Definitions()
	next := &snapshot{
		version: version,
		entries: make([]*Entry, 0, len(defs)),
		byName:  make(map[string]*Entry, len(defs)),
		byID:    make(map[uint16]*Entry, len(defs)),
	}

	for _, def := range defs {
		entry, err := parseDefinition(def)
		if err != nil {
			if c.opts.SkipMalformed {
				c.opts.Logger.Warn("skipping malformed definition",
					"definition", def.Name,
					"error", err,
				)
				continue
			}
			return nil, err
		}

		next.entries = append(next.entries, entry)
		next.byName[strings.ToLower(entry.Name)] = entry
		// First definition wins for a given pitch-class content; modes of
		// one parent scale share the same chroma mask.
		if _, exists := next.byID[entry.ID]; !exists {
			next.byID[entry.ID] = entry
		}
	}

	return next, nil
}

func parseDefinition(def RawDefinition) (*Entry, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, &ParseError{Definition: def.Name, cause: fmt.Errorf("missing name")}
	}

	var set pitch.Set
	switch {
	case len(def.Notes) > 0:
		classes := make([]pitch.Class, 0, len(def.Notes))
		for _, note := range def.Notes {
			c, err := pitch.ParseNote(note)
			if err != nil {
				return nil, &ParseError{Definition: def.Name, cause: err}
			}
			classes = append(classes, c)
		}
		set = pitch.NewSet(classes...)
	case len(def.Intervals) > 0:
		rootName := def.Root
		if rootName == "" {
			rootName = "C"
		}
		root, err := pitch.ParseNote(rootName)
		if err != nil {
			return nil, &ParseError{Definition: def.Name, cause: err}
		}
		classes := []pitch.Class{root}
		current := root
		for _, step := range def.Intervals {
			if step <= 0 || step >= pitch.NumClasses {
				return nil, &ParseError{Definition: def.Name, cause: fmt.Errorf("invalid interval step %d", step)}
			}
			current = current.Transpose(step)
			classes = append(classes, current)
		}
		set = pitch.NewSet(classes...)
	default:
		return nil, &ParseError{Definition: def.Name, cause: fmt.Errorf("neither notes nor intervals given")}
	}

	return &Entry{
		Name:     def.Name,
		Category: def.Category,
		Notes:    def.Notes,
		Classes:  set,
		ID:       set.Mask(),
		ICV:      set.IntervalClassVector(),
	}, nil
}

// TryGet returns the entry with the given case-insensitive name. Lookups
// first trigger an invalidation check; if a needed rebuild fails, the
// last-known-good snapshot is consulted instead.
func (c *Cache) TryGet(name string) (*Entry, bool) {
	s, _ := c.current()
	if s == nil {
		return nil, false
	}
	e, ok := s.byName[strings.ToLower(name)]
	return e, ok
}

// GetByID returns the entry whose derived numeric id matches.
func (c *Cache) GetByID(id uint16) (*Entry, bool) {
	s, _ := c.current()
	if s == nil {
		return nil, false
	}
	e, ok := s.byID[id]
	return e, ok
}

// List returns all entries of the current snapshot in definition order.
// The returned slice is freshly allocated; the entries themselves are shared
// and read-only.
func (c *Cache) List() []*Entry {
	s, _ := c.current()
	if s == nil {
		return nil
	}
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// FindByPartialName returns all entries whose name contains term,
// case-insensitively, in definition order.
func (c *Cache) FindByPartialName(term string) []*Entry {
	s, _ := c.current()
	if s == nil {
		return nil
	}

	term = strings.ToLower(term)
	var out []*Entry
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Name), term) {
			out = append(out, e)
		}
	}
	return out
}

// Refresh forces an invalidation check and surfaces any rebuild error that
// lookups would otherwise only log. Returns nil when the snapshot is
// current.
func (c *Cache) Refresh() error {
	_, err := c.current()
	return err
}

// Version returns the version token of the currently served snapshot,
// or 0 when no snapshot has ever been built.
func (c *Cache) Version() uint64 {
	if s := c.snap.Load(); s != nil {
		return s.version
	}
	return 0
}

// Len returns the number of entries in the currently served snapshot.
func (c *Cache) Len() int {
	s, _ := c.current()
	if s == nil {
		return 0
	}
	return len(s.entries)
}
