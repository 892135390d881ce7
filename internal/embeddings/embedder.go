// Package embeddings turns chunk text into fixed-dimension vectors, either
// via a hosted API or the offline local embedder.
package embeddings

import "context"

// Embedder produces one vector per input text. Implementations report a
// fixed dimensionality that must match the vector store they feed.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}
