package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics and recent activity",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Int("recent", 5, "number of recent runs and queries to show")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	recent, _ := cmd.Flags().GetInt("recent")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := buildCorpus(cfg)
	if err != nil {
		return err
	}
	if err := c.load(ctx, cfg); err != nil {
		fmt.Println("No corpus found. Run `smartlearn ingest` first.")
		return nil
	}

	stats := c.pipeline.Stats()
	fmt.Println("Corpus")
	fmt.Printf("  Chunks indexed:       %d\n", stats.ChunkCount)
	fmt.Printf("  Keyword entries:      %d\n", stats.IndexCount)
	fmt.Printf("  Embedding model:      %s\n", c.embedder.Name())
	fmt.Printf("  Embedding dimensions: %d\n", stats.Dimensions)
	fmt.Printf("  Store backend:        %s\n", cfg.Store)

	store, closeDB, err := openHistory(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	defer closeDB()

	runs, err := store.RecentIngestRuns(ctx, recent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read ingest history: %v\n", err)
	} else if len(runs) > 0 {
		fmt.Println("\nRecent ingest runs")
		for _, r := range runs {
			fmt.Printf("  %s  %d files, %d chunks, %d errors, %s\n",
				r.StartedAt.Format(time.RFC3339), r.FilesProcessed, r.ChunksCreated,
				r.ErrorCount, r.Duration.Round(time.Millisecond))
		}
	}

	queries, err := store.RecentQueries(ctx, recent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read query history: %v\n", err)
	} else if len(queries) > 0 {
		fmt.Println("\nRecent queries")
		for _, q := range queries {
			fmt.Printf("  %s  [%s] %q (%d results, %s)\n",
				q.AskedAt.Format(time.RFC3339), q.Kind, truncate(q.Query, 60),
				q.ResultCount, q.Duration.Round(time.Millisecond))
		}
	}

	return nil
}
