package embeddings

import (
	"context"
	"fmt"
	"net/http"
)

const geminiEmbedURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:embedContent?key=%s"

// GoogleModel names a supported Gemini embedding model.
type GoogleModel string

const ModelGeminiEmbedding001 GoogleModel = "gemini-embedding-001"

// GoogleEmbedder produces embeddings through the Gemini embedContent API,
// which takes one text per request.
type GoogleEmbedder struct {
	apiKey string
	model  GoogleModel
	client *http.Client
}

func NewGoogleEmbedder(apiKey string, model GoogleModel) *GoogleEmbedder {
	return &GoogleEmbedder{apiKey: apiKey, model: model, client: &http.Client{}}
}

func (e *GoogleEmbedder) Name() string {
	return string(e.model)
}

func (e *GoogleEmbedder) Dimensions() int {
	return 3072
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiEmbedPayload struct {
	Content struct {
		Parts []geminiPart `json:"parts"`
	} `json:"content"`
}

type geminiEmbedReply struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (e *GoogleEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	url := fmt.Sprintf(geminiEmbedURL, e.model, e.apiKey)
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		var payload geminiEmbedPayload
		payload.Content.Parts = []geminiPart{{Text: text}}

		var reply geminiEmbedReply
		if err := postJSON(ctx, e.client, url, payload, &reply); err != nil {
			return nil, fmt.Errorf("embeddings: gemini: %w", err)
		}
		if len(reply.Embedding.Values) == 0 {
			return nil, fmt.Errorf("embeddings: gemini returned an empty vector")
		}
		vectors = append(vectors, reply.Embedding.Values)
	}
	return vectors, nil
}
