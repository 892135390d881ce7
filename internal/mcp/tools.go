package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchMaterialsTool defines the search_materials MCP tool.
var searchMaterialsTool = mcp.NewTool("search_materials",
	mcp.WithDescription("Search the ingested study materials with hybrid semantic + keyword retrieval. Returns relevant passages with their sources."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
	mcp.WithNumber("alpha",
		mcp.Description("Semantic weight between 0 (keyword only) and 1 (semantic only)"),
	),
)

// getCorpusStatsTool defines the get_corpus_stats MCP tool.
var getCorpusStatsTool = mcp.NewTool("get_corpus_stats",
	mcp.WithDescription("Get the current corpus size: number of indexed chunks and embedding dimensionality."),
)
