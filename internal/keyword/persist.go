package keyword

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const indexFile = "keywords.gob"

// indexSnapshot is the on-disk form. Only entries are stored; the term map
// is rebuilt on load.
type indexSnapshot struct {
	Entries []Entry
}

// Persist writes the index entries to dir as a gob snapshot.
func (ix *Index) Persist(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("keyword: create dir: %w", err)
	}

	ix.mu.RLock()
	state := ix.state
	ix.mu.RUnlock()

	snap := indexSnapshot{Entries: make([]Entry, 0, len(state.entries))}
	for _, e := range state.entries {
		snap.Entries = append(snap.Entries, e)
	}
	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].ChunkID < snap.Entries[j].ChunkID })

	f, err := os.Create(filepath.Join(dir, indexFile))
	if err != nil {
		return fmt.Errorf("keyword: create snapshot: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("keyword: encode snapshot: %w", err)
	}
	return nil
}

// Load replaces the index contents with a previously persisted snapshot.
func (ix *Index) Load(_ context.Context, dir string) error {
	f, err := os.Open(filepath.Join(dir, indexFile))
	if err != nil {
		return fmt.Errorf("keyword: open snapshot: %w", err)
	}
	defer f.Close()

	var snap indexSnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("keyword: decode snapshot: %w", err)
	}

	staged := newIndexState()
	for _, e := range snap.Entries {
		staged.add(e)
	}

	ix.wmu.Lock()
	defer ix.wmu.Unlock()
	ix.mu.Lock()
	ix.state = staged
	ix.mu.Unlock()
	return nil
}
