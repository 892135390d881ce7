package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartlearn-ai/smartlearn/internal/config"
	"github.com/smartlearn-ai/smartlearn/internal/llm"
	"github.com/smartlearn-ai/smartlearn/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts an HTTP server exposing search, ask, ingest, and stats
endpoints plus a WebSocket chat endpoint. The persisted corpus is
loaded on startup when one exists.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	port := cfg.Server.Port
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		port = p
	}
	allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

	c, err := buildCorpus(cfg)
	if err != nil {
		return err
	}
	if err := c.load(ctx, cfg); err != nil {
		// The server can start empty; ingestion is available over the API.
		fmt.Fprintf(os.Stderr, "Warning: no persisted corpus loaded: %v\n", err)
	}

	// The LLM provider is optional; without one the ask endpoints degrade.
	var provider llm.Provider
	model := cfg.Model
	if model == "" {
		model = config.DefaultModelFor(cfg.Provider)
	}
	if p, err := createLLMProviderFromConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM provider unavailable: %v\n", err)
	} else {
		provider = p
	}

	hist, closeDB, err := openHistory(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		defer closeDB()
	}

	srv := server.New(server.Config{
		Host:     cfg.Server.Host,
		Port:     port,
		AllowAll: allowAll,
	}, server.Deps{
		Searcher:    c.searcher(cfg),
		Pipeline:    c.pipeline,
		History:     hist,
		LLMProvider: provider,
		LLMModel:    model,
		Prompts:     loadPromptBuilder(cfg),
		Search:      cfg.Search,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stop:
		fmt.Fprintln(os.Stderr, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}
