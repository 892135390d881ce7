// Package mcp exposes the study corpus to MCP clients so agents can search
// ingested material and inspect corpus state over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/smartlearn-ai/smartlearn/internal/config"
	"github.com/smartlearn-ai/smartlearn/internal/ingest"
	"github.com/smartlearn-ai/smartlearn/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes study-material search tools.
type Server struct {
	searcher  *search.Searcher
	pipeline  *ingest.Pipeline
	searchCfg config.SearchConfig
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(searcher *search.Searcher, pipeline *ingest.Pipeline, searchCfg config.SearchConfig) *Server {
	s := &Server{
		searcher:  searcher,
		pipeline:  pipeline,
		searchCfg: searchCfg,
	}

	s.mcp = server.NewMCPServer(
		"smartlearn",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchMaterialsTool, s.handleSearchMaterials)
	s.mcp.AddTool(getCorpusStatsTool, s.handleGetCorpusStats)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
