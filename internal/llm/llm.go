// Package llm abstracts the chat-completion providers used to generate
// answers, study plans, and quizzes from retrieved material.
package llm

import (
	"context"
	"strings"
)

// Role identifies who authored a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest describes a single completion call. Model overrides the
// provider's configured model when non-empty; MaxTokens of zero means the
// provider default.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse carries the generated text plus the token accounting
// needed for cost estimates.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Provider is a chat-completion backend.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Name() string
}

// defaultMaxTokens caps generation when the request does not say otherwise.
const defaultMaxTokens = 4096

// splitSystemPrompt separates system messages, concatenated in order, from
// the user/assistant turns. Anthropic and Gemini take the system prompt
// out-of-band rather than in the message list.
func splitSystemPrompt(msgs []Message) (string, []Message) {
	var system []string
	turns := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}
