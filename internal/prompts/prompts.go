package prompts

import (
	"fmt"
	"strings"

	"github.com/smartlearn-ai/smartlearn/internal/llm"
	"github.com/smartlearn-ai/smartlearn/internal/search"
)

// defaultContextTokenBudget caps the retrieved context included in a prompt.
const defaultContextTokenBudget = 3000

// Builder assembles prompts from retrieved chunks and an optional study
// profile.
type Builder struct {
	profile     *StudyProfile
	tokenBudget int
}

// NewBuilder creates a Builder. profile may be nil.
func NewBuilder(profile *StudyProfile) *Builder {
	return &Builder{
		profile:     profile,
		tokenBudget: defaultContextTokenBudget,
	}
}

// SetTokenBudget overrides the context token budget.
func (b *Builder) SetTokenBudget(tokens int) {
	if tokens > 0 {
		b.tokenBudget = tokens
	}
}

// AssembleContext concatenates retrieved chunks into a source-labelled
// context block, dropping results once the token budget is spent. Results
// are consumed in rank order so the best matches survive truncation.
func (b *Builder) AssembleContext(results []search.Result) string {
	var (
		sb   strings.Builder
		used int
	)
	for _, r := range results {
		cost := llm.EstimateTokens(r.Text) + 10
		if used+cost > b.tokenBudget && used > 0 {
			break
		}
		fmt.Fprintf(&sb, "[Source: %s]\n%s\n\n", r.SourceID, r.Text)
		used += cost
	}
	return strings.TrimSpace(sb.String())
}

// systemPreamble is shared by every prompt kind.
const systemPreamble = `You are a study assistant. Answer using ONLY the provided study material. When the material does not contain the answer, say so plainly instead of guessing. Cite sources by their [Source: ...] label.`

// Ask builds messages for a grounded question-answer exchange.
func (b *Builder) Ask(question string, results []search.Result) []llm.Message {
	var sb strings.Builder
	if b.profile != nil {
		sb.WriteString("About the learner:\n")
		sb.WriteString(b.profile.ToPromptSection())
		sb.WriteString("\n")
	}
	sb.WriteString("Study material:\n\n")
	sb.WriteString(b.AssembleContext(results))
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPreamble},
		{Role: llm.RoleUser, Content: sb.String()},
	}
}

// StudyPlan builds messages asking for a study plan over the given topic,
// grounded in the retrieved material.
func (b *Builder) StudyPlan(topic string, days int, results []search.Result) []llm.Message {
	if days <= 0 {
		days = 7
	}

	var sb strings.Builder
	if b.profile != nil {
		sb.WriteString("About the learner:\n")
		sb.WriteString(b.profile.ToPromptSection())
		sb.WriteString("\n")
	}
	sb.WriteString("Study material:\n\n")
	sb.WriteString(b.AssembleContext(results))
	fmt.Fprintf(&sb, "\n\nCreate a %d-day study plan for the topic %q. ", days, topic)
	sb.WriteString("For each day list the concepts to cover, which source files they come from, and one self-check exercise.")

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPreamble},
		{Role: llm.RoleUser, Content: sb.String()},
	}
}

// Quiz builds messages asking for a quiz over the retrieved material.
func (b *Builder) Quiz(topic string, questions int, results []search.Result) []llm.Message {
	if questions <= 0 {
		questions = 5
	}

	var sb strings.Builder
	if b.profile != nil {
		sb.WriteString("About the learner:\n")
		sb.WriteString(b.profile.ToPromptSection())
		sb.WriteString("\n")
	}
	sb.WriteString("Study material:\n\n")
	sb.WriteString(b.AssembleContext(results))
	fmt.Fprintf(&sb, "\n\nWrite %d quiz questions about %q based strictly on the material above. ", questions, topic)
	sb.WriteString("Mix question types (recall, application, explanation). Put all answers in a separate section at the end, each citing its source.")

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPreamble},
		{Role: llm.RoleUser, Content: sb.String()},
	}
}
