package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartlearn-ai/smartlearn/internal/config"
	"github.com/smartlearn-ai/smartlearn/internal/history"
	"github.com/smartlearn-ai/smartlearn/internal/llm"
	"github.com/smartlearn-ai/smartlearn/internal/prompts"
	"github.com/smartlearn-ai/smartlearn/internal/search"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question grounded in your study material",
	Long: `Retrieves the most relevant passages for the question and asks the
configured LLM to answer using only that context. Sources are listed
with the answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int("limit", 0, "number of passages to retrieve (overrides config)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	limit, _ := cmd.Flags().GetInt("limit")

	return runGeneration(question, limit, history.KindAsk,
		func(b *prompts.Builder, results []search.Result) []llm.Message {
			return b.Ask(question, results)
		})
}

// runGeneration is the shared retrieve-then-complete flow behind ask, plan,
// and quiz.
func runGeneration(query string, limit int, kind history.QueryKind, build func(*prompts.Builder, []search.Result) []llm.Message) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = cfg.Search.TopK
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModelFor(cfg.Provider)
	}

	c, err := buildCorpus(cfg)
	if err != nil {
		return err
	}
	if err := c.load(ctx, cfg); err != nil {
		return err
	}

	start := time.Now()
	results, err := c.searcher(cfg).Search(ctx, query, limit, cfg.Search.Alpha)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	messages := build(loadPromptBuilder(cfg), results)
	resp, err := provider.Complete(ctx, llm.CompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)

	recordQuery(ctx, cfg, history.QueryRecord{
		Query:       query,
		Kind:        kind,
		K:           limit,
		Alpha:       cfg.Search.Alpha,
		ResultCount: len(results),
		Duration:    elapsed,
	})

	fmt.Println(resp.Content)

	if len(results) > 0 {
		fmt.Println("\nSources:")
		seen := make(map[string]bool)
		for _, r := range results {
			if seen[r.SourceID] {
				continue
			}
			seen[r.SourceID] = true
			fmt.Printf("  - %s\n", r.SourceID)
		}
	}

	if verbose {
		cost := llm.EstimateCost(resp.Model, resp.InputTokens, resp.OutputTokens)
		fmt.Fprintf(os.Stderr, "\nTokens: %d input, %d output", resp.InputTokens, resp.OutputTokens)
		if cost > 0 {
			fmt.Fprintf(os.Stderr, " (est. $%.4f)", cost)
		}
		fmt.Fprintf(os.Stderr, "\nDuration: %s\n", elapsed.Round(time.Millisecond))
	}

	return nil
}
