package vectorstore

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
)

func mustMemoryStore(t *testing.T, dims int) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore(dims)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	return s
}

func rec(id int, source string, vec ...float32) Record {
	return Record{ChunkID: id, SourceID: source, Text: "chunk", Vector: vec}
}

func TestMemoryStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s := mustMemoryStore(t, 3)

	if err := s.Insert(ctx, rec(0, "a.txt", 1, 0, 0)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	err := s.Insert(ctx, rec(1, "a.txt", 1, 0))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
	if s.Count() != 1 {
		t.Errorf("count = %d after rejected insert, want 1", s.Count())
	}
}

func TestMemoryStore_BatchRejectedAtomically(t *testing.T) {
	ctx := context.Background()
	s := mustMemoryStore(t, 2)

	err := s.InsertBatch(ctx, []Record{
		rec(0, "a.txt", 1, 0),
		rec(1, "a.txt", 1, 0, 0), // wrong dimensionality
	})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
	if s.Count() != 0 {
		t.Errorf("count = %d after rejected batch, want 0", s.Count())
	}
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := mustMemoryStore(t, 2)

	if err := s.Insert(ctx, rec(7, "a.txt", 1, 0)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(ctx, rec(7, "a.txt", 0, 1)); err != nil {
		t.Fatalf("re-Insert: %v", err)
	}
	if s.Count() != 1 {
		t.Fatalf("count = %d, want 1", s.Count())
	}

	hits, err := s.Query(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 1 || math.Abs(hits[0].Similarity-1.0) > 1e-9 {
		t.Errorf("replacement vector not in effect: %+v", hits)
	}
}

func TestMemoryStore_QueryOrderingAndTies(t *testing.T) {
	ctx := context.Background()
	s := mustMemoryStore(t, 2)

	// Chunks 2 and 1 are identical vectors (tie); chunk 0 is orthogonal.
	if err := s.InsertBatch(ctx, []Record{
		rec(2, "a.txt", 1, 0),
		rec(0, "a.txt", 0, 1),
		rec(1, "a.txt", 1, 0),
	}); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	hits, err := s.Query(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}

	// Tie between chunks 1 and 2 resolves by ascending chunk id.
	if hits[0].ChunkID != 1 || hits[1].ChunkID != 2 || hits[2].ChunkID != 0 {
		t.Errorf("order = [%d %d %d], want [1 2 0]", hits[0].ChunkID, hits[1].ChunkID, hits[2].ChunkID)
	}
}

func TestMemoryStore_EmptyAndUnderfilled(t *testing.T) {
	ctx := context.Background()
	s := mustMemoryStore(t, 2)

	hits, err := s.Query(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Query on empty store: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("empty store returned %d hits", len(hits))
	}

	for i := 0; i < 5; i++ {
		if err := s.Insert(ctx, rec(i, "a.txt", float32(i+1), 1)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	hits, err = s.Query(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 5 {
		t.Errorf("got %d hits for k=10 over 5 records, want 5", len(hits))
	}
}

func TestMemoryStore_DeleteBySource(t *testing.T) {
	ctx := context.Background()
	s := mustMemoryStore(t, 2)

	if err := s.InsertBatch(ctx, []Record{
		rec(0, "a.txt", 1, 0),
		rec(1, "b.txt", 0, 1),
		rec(2, "a.txt", 1, 1),
	}); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	if err := s.DeleteBySource(ctx, "a.txt"); err != nil {
		t.Fatalf("DeleteBySource: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("count = %d after delete, want 1", s.Count())
	}
}

func TestMemoryStore_PersistLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := mustMemoryStore(t, 2)
	if err := s.InsertBatch(ctx, []Record{
		rec(0, "a.txt", 1, 0),
		rec(1, "b.txt", 0, 1),
	}); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if err := s.Persist(ctx, dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restored := mustMemoryStore(t, 2)
	if err := restored.Load(ctx, dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored.Count() != 2 {
		t.Errorf("restored count = %d, want 2", restored.Count())
	}

	wrongDims := mustMemoryStore(t, 3)
	if err := wrongDims.Load(ctx, dir); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Load with wrong dims: got %v, want ErrDimensionMismatch", err)
	}
}

func TestMemoryStore_ConcurrentQueriesDuringInserts(t *testing.T) {
	ctx := context.Background()
	s := mustMemoryStore(t, 2)

	const batch = 10
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for b := 0; b < 20; b++ {
			recs := make([]Record, batch)
			for i := range recs {
				recs[i] = rec(b*batch+i, "a.txt", 1, float32(i))
			}
			if err := s.InsertBatch(ctx, recs); err != nil {
				t.Errorf("InsertBatch: %v", err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for q := 0; q < 200; q++ {
			hits, err := s.Query(ctx, []float32{1, 0}, 5)
			if err != nil {
				t.Errorf("Query: %v", err)
				return
			}
			// Batches are atomic: the visible count is always a multiple of
			// the batch size.
			if s.Count()%batch != 0 {
				t.Errorf("partial batch visible: count=%d", s.Count())
				return
			}
			_ = hits
		}
	}()

	wg.Wait()
}
