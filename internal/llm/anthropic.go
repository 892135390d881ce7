package llm

import (
	"context"
	"fmt"
	"net/http"
)

const anthropicMessagesURL = "https://api.anthropic.com/v1/messages"

// AnthropicProvider talks to the Anthropic Messages API over plain HTTP.
type AnthropicProvider struct {
	apiKey string
	model  string
	client *http.Client
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	return &AnthropicProvider{apiKey: apiKey, model: model, client: &http.Client{}}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

type anthropicPayload struct {
	Model       string     `json:"model"`
	MaxTokens   int        `json:"max_tokens"`
	Temperature float64    `json:"temperature"`
	System      string     `json:"system,omitempty"`
	Messages    []chatTurn `json:"messages"`
}

type anthropicReply struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	// The Messages API takes the system prompt as a top-level field.
	system, turns := splitSystemPrompt(req.Messages)
	payload := anthropicPayload{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      system,
		Messages:    toChatTurns(turns),
	}

	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}

	var reply anthropicReply
	status, body, err := postJSON(ctx, p.client, anthropicMessagesURL, headers, payload, &reply)
	if err != nil {
		return nil, fmt.Errorf("llm: anthropic: %w", err)
	}
	if reply.Error != nil {
		return nil, fmt.Errorf("llm: anthropic API error (%s): %s", reply.Error.Type, reply.Error.Message)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("llm: anthropic returned status %d: %s", status, body)
	}

	var content string
	for _, block := range reply.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &CompletionResponse{
		Content:      content,
		InputTokens:  reply.Usage.InputTokens,
		OutputTokens: reply.Usage.OutputTokens,
		Model:        reply.Model,
		FinishReason: reply.StopReason,
	}, nil
}
