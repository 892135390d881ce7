package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartlearn-ai/smartlearn/internal/config"
	"github.com/smartlearn-ai/smartlearn/internal/history"
	"github.com/smartlearn-ai/smartlearn/internal/search"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Search the ingested study material",
	Long: `Runs a hybrid semantic + keyword search over the ingested corpus and
prints the top-ranked passages with their sources and scores.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Int("limit", 0, "maximum number of results (overrides config)")
	queryCmd.Flags().Float64("alpha", -1, "semantic weight in [0,1] (overrides config)")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	queryText := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.Search.TopK
	}
	alpha, _ := cmd.Flags().GetFloat64("alpha")
	if alpha < 0 {
		alpha = cfg.Search.Alpha
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

	c, err := buildCorpus(cfg)
	if err != nil {
		return err
	}
	if err := c.load(ctx, cfg); err != nil {
		return err
	}

	start := time.Now()
	results, err := c.searcher(cfg).Search(ctx, queryText, limit, alpha)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	elapsed := time.Since(start)

	recordQuery(ctx, cfg, history.QueryRecord{
		Query:       queryText,
		Kind:        history.KindSearch,
		K:           limit,
		Alpha:       alpha,
		ResultCount: len(results),
		Duration:    elapsed,
	})

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if jsonOutput {
		return printQueryResultsJSON(results)
	}
	printQueryResults(results)
	return nil
}

// recordQuery logs the query to history; failures only warn.
func recordQuery(ctx context.Context, cfg *config.Config, rec history.QueryRecord) {
	store, closeDB, err := openHistory(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	defer closeDB()

	if _, err := store.RecordQuery(ctx, rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record query: %v\n", err)
	}
}

type queryResultJSON struct {
	Rank     int     `json:"rank"`
	Score    float64 `json:"score"`
	Semantic float64 `json:"semantic"`
	Keyword  float64 `json:"keyword"`
	Source   string  `json:"source"`
	Text     string  `json:"text"`
}

func printQueryResultsJSON(results []search.Result) error {
	var out []queryResultJSON
	for i, r := range results {
		out = append(out, queryResultJSON{
			Rank:     i + 1,
			Score:    r.Score,
			Semantic: r.Semantic,
			Keyword:  r.Keyword,
			Source:   r.SourceID,
			Text:     r.Text,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printQueryResults(results []search.Result) {
	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("  %d. [%.3f] %s\n", i+1, r.Score, r.SourceID)
		fmt.Printf("     semantic %.3f  keyword %.3f\n", r.Semantic, r.Keyword)
		fmt.Printf("     %s\n\n", truncate(r.Text, 200))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
