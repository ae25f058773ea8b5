package index

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/hupe1980/tonalgo/embedding"
)

// snapshotEntry is the serialized form of one live entry.
type snapshotEntry struct {
	ID       string
	Ordinal  uint32
	Vector   []float32
	Metadata Metadata
}

// snapshotFile is the serialized index image. The partition schema is
// embedded so loads can reject snapshots built against a different layout.
type snapshotFile struct {
	Partitions []embedding.Partition
	Entries    []snapshotEntry
}

// SaveToWriter serializes the live entries to w using gob encoding wrapped
// in s2 compression. Only the entry data is persisted; derived structures
// (per-category bitmaps, partition norms) are rebuilt on load.
func (ix *Index) SaveToWriter(w io.Writer) error {
	if ix.closed.Load() {
		return ErrClosed
	}

	st := ix.getState()
	file := snapshotFile{
		Partitions: ix.layout.Partitions(),
		Entries:    make([]snapshotEntry, 0, st.count),
	}
	for _, ent := range st.entries {
		if ent == nil {
			continue
		}
		file.Entries = append(file.Entries, snapshotEntry{
			ID:       ent.id,
			Ordinal:  ent.ordinal,
			Vector:   ent.vector,
			Metadata: ent.md,
		})
	}

	sw := s2.NewWriter(w)
	if err := gob.NewEncoder(sw).Encode(&file); err != nil {
		_ = sw.Close()
		return fmt.Errorf("index: encode snapshot: %w", err)
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("index: flush snapshot: %w", err)
	}
	return nil
}

// LoadFromReader replaces the index contents with a snapshot previously
// written by SaveToWriter. Insertion ordinals are preserved, so ranking
// tie-breaks survive a save/load round trip.
func (ix *Index) LoadFromReader(r io.Reader) error {
	if ix.closed.Load() {
		return ErrClosed
	}

	var file snapshotFile
	if err := gob.NewDecoder(s2.NewReader(r)).Decode(&file); err != nil {
		return fmt.Errorf("index: decode snapshot: %w", err)
	}

	if err := ix.checkSchema(file.Partitions); err != nil {
		return err
	}

	next := emptyState()
	maxOrdinal := -1
	for _, se := range file.Entries {
		if int(se.Ordinal) > maxOrdinal {
			maxOrdinal = int(se.Ordinal)
		}
	}
	next.entries = make([]*entry, maxOrdinal+1)

	for _, se := range file.Entries {
		if len(se.Vector) != ix.layout.Dimension() {
			return &ErrDimensionMismatch{Expected: ix.layout.Dimension(), Actual: len(se.Vector)}
		}
		if next.entries[se.Ordinal] != nil {
			return fmt.Errorf("index: snapshot has duplicate ordinal %d", se.Ordinal)
		}
		next.entries[se.Ordinal] = &entry{
			id:        se.ID,
			ordinal:   se.Ordinal,
			vector:    se.Vector,
			partNorms: ix.partNorms(se.Vector),
			md:        se.Metadata,
		}
		next.byID[se.ID] = se.Ordinal
		mutableCategory(next, se.Metadata.Category).Add(se.Ordinal)
		next.count++
	}

	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()
	ix.state.Store(next)
	return nil
}

func (ix *Index) checkSchema(parts []embedding.Partition) error {
	current := ix.layout.Partitions()
	if len(parts) != len(current) {
		return fmt.Errorf("index: snapshot schema has %d partitions, layout has %d", len(parts), len(current))
	}
	for i, p := range parts {
		if p != current[i] {
			return fmt.Errorf("index: snapshot partition %d is %+v, layout has %+v", i, p, current[i])
		}
	}
	return nil
}
