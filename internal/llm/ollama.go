package llm

import (
	"context"
	"fmt"
	"net/http"
)

// OllamaProvider talks to a local Ollama server's chat API.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	return &OllamaProvider{baseURL: baseURL, model: model, client: &http.Client{}}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

type ollamaChatPayload struct {
	Model    string     `json:"model"`
	Messages []chatTurn `json:"messages"`
	Stream   bool       `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options,omitempty"`
	Format string `json:"format,omitempty"`
}

type ollamaChatReply struct {
	Message         chatTurn `json:"message"`
	Model           string   `json:"model"`
	DoneReason      string   `json:"done_reason"`
	PromptEvalCount int      `json:"prompt_eval_count"`
	EvalCount       int      `json:"eval_count"`
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	payload := ollamaChatPayload{
		Model:    model,
		Messages: toChatTurns(req.Messages),
		Stream:   false,
	}
	payload.Options.Temperature = req.Temperature
	payload.Options.NumPredict = req.MaxTokens
	if req.JSONMode {
		payload.Format = "json"
	}

	var reply ollamaChatReply
	status, body, err := postJSON(ctx, p.client, p.baseURL+"/api/chat", nil, payload, &reply)
	if err != nil {
		return nil, fmt.Errorf("llm: ollama: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("llm: ollama returned status %d: %s", status, body)
	}

	return &CompletionResponse{
		Content:      reply.Message.Content,
		InputTokens:  reply.PromptEvalCount,
		OutputTokens: reply.EvalCount,
		Model:        reply.Model,
		FinishReason: reply.DoneReason,
	}, nil
}
