package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartlearn-ai/smartlearn/internal/history"
	"github.com/smartlearn-ai/smartlearn/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest study material into the search index",
	Long: `Walks the materials directory, chunks every supported file by content
type, embeds the chunks, and builds the vector store and keyword index.
Each run rebuilds the corpus from scratch and persists it for later
queries.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("dir", "", "materials directory (overrides config)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.MaterialsDir = dir
	}

	c, err := buildCorpus(cfg)
	if err != nil {
		return err
	}

	reporter := progress.NewReporter()
	started := false
	c.pipeline.SetProgressFunc(func(current, total int, sourceID string) {
		if !started {
			reporter.Start(total)
			started = true
		}
		reporter.Update(current, sourceID)
	})

	result, err := c.pipeline.Run(ctx)
	if started {
		reporter.Finish()
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if err := c.persist(ctx, cfg); err != nil {
		return err
	}

	// Record the run; history failures do not fail the ingest.
	if store, closeDB, err := openHistory(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		_, err := store.RecordIngestRun(ctx, history.IngestRun{
			StartedAt:      start,
			RootDir:        cfg.MaterialsDir,
			FilesProcessed: result.FilesProcessed,
			FilesSkipped:   result.FilesSkipped,
			ChunksCreated:  result.ChunksCreated,
			ErrorCount:     len(result.Errors),
			Duration:       result.Duration,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record ingest run: %v\n", err)
		}
		closeDB()
	}

	stats := c.pipeline.Stats()
	fmt.Println()
	fmt.Println("Ingestion complete!")
	fmt.Printf("  Files processed: %d\n", result.FilesProcessed)
	fmt.Printf("  Files skipped:   %d\n", result.FilesSkipped)
	fmt.Printf("  Chunks created:  %d\n", result.ChunksCreated)
	fmt.Printf("  Embedder:        %s (%d dimensions)\n", c.embedder.Name(), stats.Dimensions)
	fmt.Printf("  Duration:        %s\n", result.Duration.Round(time.Millisecond))

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "\nWarnings (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
	}

	return nil
}
