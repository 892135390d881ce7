package llm

// rate holds USD prices per million tokens.
type rate struct {
	in  float64
	out float64
}

var rates = map[string]rate{
	// Anthropic
	"claude-sonnet-4-5-20250929": {in: 3.00, out: 15.00},
	"claude-haiku-4-5-20251001":  {in: 0.80, out: 4.00},
	"claude-opus-4-6":            {in: 15.00, out: 75.00},

	// OpenAI
	"gpt-4o":      {in: 2.50, out: 10.00},
	"gpt-4o-mini": {in: 0.15, out: 0.60},

	// Google
	"gemini-2.0-flash": {in: 0.10, out: 0.40},
	"gemini-1.5-pro":   {in: 1.25, out: 5.00},
}

// EstimateCost returns the cost in USD of a completion against the given
// model, or 0 when the model's pricing is unknown.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	r, ok := rates[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)*r.in + float64(outputTokens)*r.out) / 1_000_000.0
}

// EstimateTokens approximates the token count of text at four characters
// per token, rounding non-empty text up to at least one.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	if n := len(text) / 4; n > 0 {
		return n
	}
	return 1
}
