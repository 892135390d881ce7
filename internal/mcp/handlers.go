package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/smartlearn-ai/smartlearn/internal/search"
)

// handleSearchMaterials runs a hybrid search over the study corpus.
func (s *Server) handleSearchMaterials(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", s.searchCfg.TopK)
	if limit <= 0 {
		limit = s.searchCfg.TopK
	}
	alpha := request.GetFloat("alpha", s.searchCfg.Alpha)

	results, err := s.searcher.Search(ctx, query, limit, alpha)
	if err != nil {
		if errors.Is(err, search.ErrEmptyCorpus) {
			return mcp.NewToolResultText("No materials have been ingested yet. Run `smartlearn ingest` first."), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No matching passages found."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleGetCorpusStats reports the corpus size.
func (s *Server) handleGetCorpusStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.pipeline.Stats()
	return mcp.NewToolResultText(fmt.Sprintf(
		"Indexed chunks: %d\nKeyword index entries: %d\nEmbedding dimensions: %d\n",
		stats.ChunkCount, stats.IndexCount, stats.Dimensions,
	)), nil
}

// formatSearchResults converts ranked results into a text format suitable
// for AI agent consumption.
func formatSearchResults(results []search.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Source: %s\n", r.SourceID))
		sb.WriteString(fmt.Sprintf("Score: %.3f (semantic %.3f, keyword %.3f)\n", r.Score, r.Semantic, r.Keyword))
		sb.WriteString("\n")
		sb.WriteString(r.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
