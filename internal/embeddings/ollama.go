package embeddings

import (
	"context"
	"fmt"
	"net/http"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaEmbedder produces embeddings through a local Ollama server. The
// dimensionality depends on the pulled model, so it is configured rather
// than derived.
type OllamaEmbedder struct {
	baseURL string
	model   string
	dims    int
	client  *http.Client
}

// NewOllamaEmbedder creates an embedder for the given Ollama model (e.g.
// "nomic-embed-text"). An empty baseURL falls back to the local default.
func NewOllamaEmbedder(model string, dims int, baseURL string) *OllamaEmbedder {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &OllamaEmbedder{baseURL: baseURL, model: model, dims: dims, client: &http.Client{}}
}

func (e *OllamaEmbedder) Name() string {
	return "ollama/" + e.model
}

func (e *OllamaEmbedder) Dimensions() int {
	return e.dims
}

type ollamaEmbedPayload struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type ollamaEmbedReply struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	url := e.baseURL + "/api/embed"
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		var reply ollamaEmbedReply
		if err := postJSON(ctx, e.client, url, ollamaEmbedPayload{Model: e.model, Input: text}, &reply); err != nil {
			return nil, fmt.Errorf("embeddings: ollama: %w", err)
		}
		if len(reply.Embeddings) == 0 {
			return nil, fmt.Errorf("embeddings: ollama returned no vectors")
		}
		vectors = append(vectors, reply.Embeddings[0])
	}
	return vectors, nil
}
