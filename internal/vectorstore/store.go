// Package vectorstore holds chunk embeddings and answers nearest-neighbour
// queries by cosine similarity. The corpus-wide vector dimensionality is
// fixed when a store is created; inserts with a different dimensionality are
// rejected without touching the store.
package vectorstore

import (
	"context"
	"errors"
)

// ErrDimensionMismatch indicates a vector whose length disagrees with the
// store's fixed dimensionality.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Record pairs a chunk with its embedding. One record exists per chunk;
// re-inserting a chunk id replaces the prior record (last write wins).
type Record struct {
	ChunkID  int
	SourceID string
	Text     string
	Vector   []float32
}

// Hit is a query result: a stored record and its cosine similarity to the
// query vector.
type Hit struct {
	Record
	Similarity float64
}

// Store is the embedding-store contract. Insert batches become visible to
// queries atomically; queries never mutate the store and may run
// concurrently with each other.
type Store interface {
	// Insert adds or replaces a single record.
	Insert(ctx context.Context, rec Record) error

	// InsertBatch adds or replaces records as one atomic unit: queries see
	// either none or all of the batch.
	InsertBatch(ctx context.Context, recs []Record) error

	// Query returns up to k records ordered by descending cosine similarity
	// to the given vector, ties broken by ascending chunk id. An empty store
	// yields an empty result, not an error.
	Query(ctx context.Context, vector []float32, k int) ([]Hit, error)

	// DeleteBySource removes all records belonging to one source document.
	DeleteBySource(ctx context.Context, sourceID string) error

	// Count returns the number of stored records.
	Count() int

	// Dimensions returns the fixed vector dimensionality.
	Dimensions() int

	// Persist saves the store's data under the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error
}
