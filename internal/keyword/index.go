// Package keyword provides an inverted index over chunk text for lexical
// retrieval. Matching is exact on lowercased whitespace-delimited tokens;
// scoring counts distinct query terms present in a chunk.
package keyword

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Entry is one indexed chunk.
type Entry struct {
	ChunkID  int
	SourceID string
	Text     string
}

// Match is a search result: an indexed chunk and the number of distinct
// query terms it contains.
type Match struct {
	Entry
	Score float64
}

// Index maps terms to the chunks that contain them. Like the vector store,
// writers stage a full copy and swap it in under a short lock so searches
// see every batch atomically.
type Index struct {
	wmu   sync.Mutex
	mu    sync.RWMutex
	state *indexState
}

type indexState struct {
	terms   map[string]map[int]struct{}
	entries map[int]Entry
}

func newIndexState() *indexState {
	return &indexState{
		terms:   make(map[string]map[int]struct{}),
		entries: make(map[int]Entry),
	}
}

// clone deep-copies the state so the staged copy can be mutated freely.
func (st *indexState) clone() *indexState {
	next := &indexState{
		terms:   make(map[string]map[int]struct{}, len(st.terms)),
		entries: make(map[int]Entry, len(st.entries)),
	}
	for term, ids := range st.terms {
		set := make(map[int]struct{}, len(ids))
		for id := range ids {
			set[id] = struct{}{}
		}
		next.terms[term] = set
	}
	for id, e := range st.entries {
		next.entries[id] = e
	}
	return next
}

func (st *indexState) remove(id int) {
	for term, ids := range st.terms {
		delete(ids, id)
		if len(ids) == 0 {
			delete(st.terms, term)
		}
	}
	delete(st.entries, id)
}

func (st *indexState) add(e Entry) {
	if _, exists := st.entries[e.ChunkID]; exists {
		st.remove(e.ChunkID)
	}
	st.entries[e.ChunkID] = e
	for _, term := range Tokenize(e.Text) {
		set, ok := st.terms[term]
		if !ok {
			set = make(map[int]struct{})
			st.terms[term] = set
		}
		set[e.ChunkID] = struct{}{}
	}
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{state: newIndexState()}
}

// Tokenize lowercases text and splits it on whitespace. Duplicate tokens are
// preserved; callers that need distinct terms dedupe themselves.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Add indexes a single entry, replacing any prior entry with the same chunk
// id.
func (ix *Index) Add(ctx context.Context, e Entry) error {
	return ix.AddBatch(ctx, []Entry{e})
}

// AddBatch indexes entries as one atomic unit.
func (ix *Index) AddBatch(_ context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	ix.wmu.Lock()
	defer ix.wmu.Unlock()

	ix.mu.RLock()
	current := ix.state
	ix.mu.RUnlock()

	staged := current.clone()
	for _, e := range entries {
		staged.add(e)
	}

	ix.mu.Lock()
	ix.state = staged
	ix.mu.Unlock()
	return nil
}

// DeleteBySource drops all entries belonging to one source document.
func (ix *Index) DeleteBySource(_ context.Context, sourceID string) error {
	ix.wmu.Lock()
	defer ix.wmu.Unlock()

	ix.mu.RLock()
	current := ix.state
	ix.mu.RUnlock()

	staged := current.clone()
	for id, e := range staged.entries {
		if e.SourceID == sourceID {
			staged.remove(id)
		}
	}

	ix.mu.Lock()
	ix.state = staged
	ix.mu.Unlock()
	return nil
}

// Count returns the number of indexed chunks.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.state.entries)
}

// Search returns up to k chunks scored by the number of distinct query terms
// they contain, highest first, ties broken by ascending chunk id. A query
// with no indexed terms yields an empty result.
func (ix *Index) Search(_ context.Context, query string, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}

	terms := make(map[string]struct{})
	for _, t := range Tokenize(query) {
		terms[t] = struct{}{}
	}
	if len(terms) == 0 {
		return nil, nil
	}

	ix.mu.RLock()
	state := ix.state
	ix.mu.RUnlock()

	overlap := make(map[int]int)
	for term := range terms {
		for id := range state.terms[term] {
			overlap[id]++
		}
	}
	if len(overlap) == 0 {
		return nil, nil
	}

	matches := make([]Match, 0, len(overlap))
	for id, n := range overlap {
		matches = append(matches, Match{
			Entry: state.entries[id],
			Score: float64(n),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ChunkID < matches[j].ChunkID
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}
