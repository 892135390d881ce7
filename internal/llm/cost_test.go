package llm

import (
	"math"
	"testing"
)

func TestEstimateCost(t *testing.T) {
	// claude-sonnet-4-5 is priced at $3/1M input, $15/1M output.
	got := EstimateCost("claude-sonnet-4-5-20250929", 1_000_000, 1_000_000)
	if math.Abs(got-18.0) > 0.01 {
		t.Errorf("EstimateCost = $%.4f, want $18.00", got)
	}

	for _, model := range []string{"gpt-4o", "gemini-2.0-flash"} {
		if EstimateCost(model, 1000, 500) <= 0 {
			t.Errorf("EstimateCost(%q) should be positive", model)
		}
	}
}

func TestEstimateCostUnknownModel(t *testing.T) {
	if got := EstimateCost("unknown-model", 1000, 500); got != 0 {
		t.Errorf("EstimateCost for unknown model = %f, want 0", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hi", 1},
		{"hello world!!", 3},
		{"a longer piece of text that has more characters", 11},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
