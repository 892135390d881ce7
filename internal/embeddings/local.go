package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const defaultLocalDimensions = 256

// LocalEmbedder produces deterministic embeddings without any external
// service by hashing tokens into a fixed-size vector. Quality is far below a
// real model; it exists so ingestion and search work offline and in tests.
type LocalEmbedder struct {
	dimensions int
}

// NewLocalEmbedder creates a local embedder. dimensions defaults to 256 when
// non-positive.
func NewLocalEmbedder(dimensions int) *LocalEmbedder {
	if dimensions <= 0 {
		dimensions = defaultLocalDimensions
	}
	return &LocalEmbedder{dimensions: dimensions}
}

func (e *LocalEmbedder) Name() string {
	return "local/hash"
}

func (e *LocalEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *LocalEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = e.embedOne(text)
	}
	return results, nil
}

// embedOne hashes each lowercased token into two buckets and L2-normalizes
// the resulting vector. Identical text always yields the identical vector.
func (e *LocalEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimensions)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		vec[sum%uint64(e.dimensions)]++
		vec[(sum>>32)%uint64(e.dimensions)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}
