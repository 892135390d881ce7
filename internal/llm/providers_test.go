package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSplitSystemPrompt(t *testing.T) {
	system, turns := splitSystemPrompt([]Message{
		{Role: RoleSystem, Content: "You are a tutor."},
		{Role: RoleUser, Content: "What is osmosis?"},
		{Role: RoleSystem, Content: "Cite sources."},
		{Role: RoleAssistant, Content: "Osmosis is..."},
	})

	if system != "You are a tutor.\n\nCite sources." {
		t.Errorf("system prompt = %q", system)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Role != RoleUser || turns[1].Role != RoleAssistant {
		t.Errorf("turn roles = %v, %v", turns[0].Role, turns[1].Role)
	}
}

func TestSplitSystemPromptNoSystem(t *testing.T) {
	system, turns := splitSystemPrompt([]Message{{Role: RoleUser, Content: "hi"}})
	if system != "" {
		t.Errorf("system prompt = %q, want empty", system)
	}
	if len(turns) != 1 {
		t.Errorf("got %d turns, want 1", len(turns))
	}
}

func TestGeminiRole(t *testing.T) {
	if got := geminiRole(RoleAssistant); got != "model" {
		t.Errorf("assistant role = %q, want %q", got, "model")
	}
	if got := geminiRole(RoleUser); got != "user" {
		t.Errorf("user role = %q, want %q", got, "user")
	}
}

func TestOllamaProviderComplete(t *testing.T) {
	var captured ollamaChatPayload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaChatReply{
			Message:         chatTurn{Role: "assistant", Content: "Diffusion of water."},
			Model:           "llama3",
			DoneReason:      "stop",
			PromptEvalCount: 12,
			EvalCount:       5,
		})
	}))
	defer ts.Close()

	p := NewOllamaProvider(ts.URL, "llama3")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a tutor."},
			{Role: RoleUser, Content: "What is osmosis?"},
		},
		MaxTokens:   128,
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if captured.Stream {
		t.Error("streaming should be disabled")
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Errorf("unexpected wire messages: %+v", captured.Messages)
	}
	if captured.Options.NumPredict != 128 {
		t.Errorf("num_predict = %d, want 128", captured.Options.NumPredict)
	}

	if resp.Content != "Diffusion of water." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 5 {
		t.Errorf("tokens = %d/%d, want 12/5", resp.InputTokens, resp.OutputTokens)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("FinishReason = %q", resp.FinishReason)
	}
}

func TestOllamaProviderErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `model not found`, http.StatusNotFound)
	}))
	defer ts.Close()

	p := NewOllamaProvider(ts.URL, "nope")
	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
