package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	chromem "github.com/philippgille/chromem-go"
)

const (
	collectionName   = "smartlearn"
	chromemStoreFile = "chromem.gob.gz"
)

// ChromemStore implements Store on top of chromem-go, for corpora large
// enough that its optimized search and compressed persistence pay off.
// Embeddings are always supplied precomputed; the collection's embedding
// function is never invoked. Note that chromem orders equal similarities
// internally, so the ascending-chunk-id tie break of MemoryStore is not
// guaranteed here.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	dims       int
}

var _ Store = (*ChromemStore)(nil)

// NewChromemStore creates an in-memory chromem-backed store with the given
// fixed dimensionality.
func NewChromemStore(dims int) (*ChromemStore, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("vectorstore: dimensionality must be positive, got %d", dims)
	}

	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, rejectEmbedding)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: create collection: %w", err)
	}

	return &ChromemStore{db: db, collection: col, dims: dims}, nil
}

// rejectEmbedding guards against accidental use of chromem's own embedding
// path; all vectors must arrive precomputed.
func rejectEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("vectorstore: embeddings must be precomputed")
}

func (s *ChromemStore) Dimensions() int {
	return s.dims
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

func (s *ChromemStore) Insert(ctx context.Context, rec Record) error {
	return s.InsertBatch(ctx, []Record{rec})
}

func (s *ChromemStore) InsertBatch(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(recs))
	for i, rec := range recs {
		if len(rec.Vector) != s.dims {
			return fmt.Errorf("vectorstore: chunk %d has %d dimensions, store expects %d: %w",
				rec.ChunkID, len(rec.Vector), s.dims, ErrDimensionMismatch)
		}
		docs[i] = chromem.Document{
			ID:        strconv.Itoa(rec.ChunkID),
			Content:   rec.Text,
			Embedding: rec.Vector,
			Metadata: map[string]string{
				"source_id": rec.SourceID,
				"chunk_id":  strconv.Itoa(rec.ChunkID),
			},
		}
	}

	return s.collection.AddDocuments(ctx, docs, 1)
}

func (s *ChromemStore) Query(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(vector) != s.dims {
		return nil, fmt.Errorf("vectorstore: query vector has %d dimensions, store expects %d: %w",
			len(vector), s.dims, ErrDimensionMismatch)
	}

	// chromem requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: chromem query: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		chunkID, _ := strconv.Atoi(r.ID)
		hits[i] = Hit{
			Record: Record{
				ChunkID:  chunkID,
				SourceID: r.Metadata["source_id"],
				Text:     r.Content,
				Vector:   r.Embedding,
			},
			Similarity: float64(r.Similarity),
		}
	}
	return hits, nil
}

func (s *ChromemStore) DeleteBySource(ctx context.Context, sourceID string) error {
	where := map[string]string{"source_id": sourceID}
	return s.collection.Delete(ctx, where, nil)
}

func (s *ChromemStore) Persist(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("vectorstore: create dir: %w", err)
	}
	return s.db.ExportToFile(filepath.Join(dir, chromemStoreFile), true, "")
}

func (s *ChromemStore) Load(_ context.Context, dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, chromemStoreFile), ""); err != nil {
		return fmt.Errorf("vectorstore: import: %w", err)
	}

	// Re-acquire the collection reference after import.
	col := s.db.GetCollection(collectionName, rejectEmbedding)
	if col == nil {
		return fmt.Errorf("vectorstore: collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}
