package vectorstore

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const memoryStoreFile = "vectors.gob"

// MemoryStore is the default Store implementation. Records live in a map
// that is never mutated in place: writers build a staged copy and swap it in
// under a short write lock, so readers observe every insert batch either
// fully or not at all.
type MemoryStore struct {
	// wmu serializes writers end to end; mu guards only the map swap so
	// queries block for no longer than a pointer exchange.
	wmu     sync.Mutex
	mu      sync.RWMutex
	records map[int]Record
	dims    int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store with the given fixed dimensionality.
func NewMemoryStore(dims int) (*MemoryStore, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("vectorstore: dimensionality must be positive, got %d", dims)
	}
	return &MemoryStore{
		records: make(map[int]Record),
		dims:    dims,
	}, nil
}

func (s *MemoryStore) Dimensions() int {
	return s.dims
}

func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Insert(ctx context.Context, rec Record) error {
	return s.InsertBatch(ctx, []Record{rec})
}

func (s *MemoryStore) InsertBatch(_ context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}

	// Validate before staging so a bad vector leaves the store untouched.
	for _, rec := range recs {
		if len(rec.Vector) != s.dims {
			return fmt.Errorf("vectorstore: chunk %d has %d dimensions, store expects %d: %w",
				rec.ChunkID, len(rec.Vector), s.dims, ErrDimensionMismatch)
		}
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.RLock()
	current := s.records
	s.mu.RUnlock()

	staged := make(map[int]Record, len(current)+len(recs))
	for id, rec := range current {
		staged[id] = rec
	}
	for _, rec := range recs {
		staged[rec.ChunkID] = rec
	}

	s.mu.Lock()
	s.records = staged
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Query(_ context.Context, vector []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(vector) != s.dims {
		return nil, fmt.Errorf("vectorstore: query vector has %d dimensions, store expects %d: %w",
			len(vector), s.dims, ErrDimensionMismatch)
	}

	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	if len(records) == 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, len(records))
	for _, rec := range records {
		hits = append(hits, Hit{
			Record:     rec,
			Similarity: cosineSimilarity(vector, rec.Vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (s *MemoryStore) DeleteBySource(_ context.Context, sourceID string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.RLock()
	current := s.records
	s.mu.RUnlock()

	staged := make(map[int]Record, len(current))
	for id, rec := range current {
		if rec.SourceID != sourceID {
			staged[id] = rec
		}
	}

	s.mu.Lock()
	s.records = staged
	s.mu.Unlock()
	return nil
}

// memorySnapshot is the gob persistence format.
type memorySnapshot struct {
	Dims    int
	Records []Record
}

func (s *MemoryStore) Persist(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("vectorstore: create dir: %w", err)
	}

	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	snap := memorySnapshot{Dims: s.dims, Records: make([]Record, 0, len(records))}
	for _, rec := range records {
		snap.Records = append(snap.Records, rec)
	}
	sort.Slice(snap.Records, func(i, j int) bool { return snap.Records[i].ChunkID < snap.Records[j].ChunkID })

	f, err := os.Create(filepath.Join(dir, memoryStoreFile))
	if err != nil {
		return fmt.Errorf("vectorstore: create snapshot: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("vectorstore: encode snapshot: %w", err)
	}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, dir string) error {
	f, err := os.Open(filepath.Join(dir, memoryStoreFile))
	if err != nil {
		return fmt.Errorf("vectorstore: open snapshot: %w", err)
	}
	defer f.Close()

	var snap memorySnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("vectorstore: decode snapshot: %w", err)
	}
	if snap.Dims != s.dims {
		return fmt.Errorf("vectorstore: snapshot has %d dimensions, store expects %d: %w",
			snap.Dims, s.dims, ErrDimensionMismatch)
	}

	staged := make(map[int]Record, len(snap.Records))
	for _, rec := range snap.Records {
		staged[rec.ChunkID] = rec
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	s.mu.Lock()
	s.records = staged
	s.mu.Unlock()
	return nil
}

// cosineSimilarity computes dot(a,b)/(|a||b|). Zero-norm vectors yield 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
