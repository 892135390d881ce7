package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/smartlearn-ai/smartlearn/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing
study-material search tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		c, err := buildCorpus(cfg)
		if err != nil {
			return err
		}
		if err := c.load(ctx, cfg); err != nil {
			// Stdout carries the protocol, so warnings go to stderr.
			fmt.Fprintf(os.Stderr, "Warning: no persisted corpus loaded: %v\n", err)
			fmt.Fprintf(os.Stderr, "Search results will be empty. Run `smartlearn ingest` first.\n")
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "smartlearn MCP server started on stdio (chunks=%d)\n", c.store.Count())

		srv := mcpserver.NewServer(c.searcher(cfg), c.pipeline, cfg.Search)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
