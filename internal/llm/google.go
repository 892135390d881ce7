package llm

import (
	"context"
	"fmt"
	"net/http"
)

const geminiModelsURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GoogleProvider talks to the Gemini generateContent API over plain HTTP.
type GoogleProvider struct {
	apiKey string
	model  string
	client *http.Client
}

func NewGoogleProvider(apiKey, model string) *GoogleProvider {
	return &GoogleProvider{apiKey: apiKey, model: model, client: &http.Client{}}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPayload struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
		Temperature      float64 `json:"temperature"`
		ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	} `json:"generationConfig"`
}

type geminiReply struct {
	Candidates []struct {
		Content      *geminiContent `json:"content"`
		FinishReason string         `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// geminiRole maps conversation roles onto Gemini's user/model vocabulary.
func geminiRole(r Role) string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	system, turns := splitSystemPrompt(req.Messages)

	contents := make([]geminiContent, 0, len(turns))
	for _, m := range turns {
		contents = append(contents, geminiContent{
			Role:  geminiRole(m.Role),
			Parts: []geminiPart{{Text: m.Content}},
		})
	}
	// generateContent rejects an empty contents list.
	if len(contents) == 0 {
		contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: ""}}})
	}

	payload := geminiPayload{Contents: contents}
	payload.GenerationConfig.Temperature = req.Temperature
	if system != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	if req.MaxTokens > 0 {
		payload.GenerationConfig.MaxOutputTokens = req.MaxTokens
	}
	if req.JSONMode {
		payload.GenerationConfig.ResponseMIMEType = "application/json"
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiModelsURL, model, p.apiKey)

	var reply geminiReply
	status, body, err := postJSON(ctx, p.client, url, nil, payload, &reply)
	if err != nil {
		return nil, fmt.Errorf("llm: gemini: %w", err)
	}
	if reply.Error != nil {
		return nil, fmt.Errorf("llm: gemini API error (%s): %s", reply.Error.Status, reply.Error.Message)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("llm: gemini returned status %d: %s", status, body)
	}

	resp := &CompletionResponse{Model: model}
	if len(reply.Candidates) > 0 {
		cand := reply.Candidates[0]
		resp.FinishReason = cand.FinishReason
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				resp.Content += part.Text
			}
		}
	}
	if reply.UsageMetadata != nil {
		resp.InputTokens = reply.UsageMetadata.PromptTokenCount
		resp.OutputTokens = reply.UsageMetadata.CandidatesTokenCount
	}
	return resp, nil
}
