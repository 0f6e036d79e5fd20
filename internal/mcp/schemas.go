package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// analyzeCodeTool returns the tool definition for analyze_code
func analyzeCodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_code",
		Description: "Analyze a Go source tree into priority-ordered, budget-limited chunks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the source tree root",
				},
				"budget": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum estimated tokens per chunk",
					"minimum":     1,
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "Packing order: priority (tier-first) or natural (walk order)",
					"enum":        []string{"priority", "natural"},
					"default":     "priority",
				},
				"include_tests": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include *_test.go files",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// chunkPaperTool returns the tool definition for chunk_paper
func chunkPaperTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chunk_paper",
		Description: "Chunk a research paper (PDF, markdown, or plain text) by section priority",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a local paper file",
				},
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Paper URL (arxiv.org or openreview.net); downloaded before chunking",
				},
				"budget": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum estimated tokens per chunk",
					"minimum":     1,
				},
			},
		},
	}
}

// getManifestTool returns the tool definition for get_manifest
func getManifestTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_manifest",
		Description: "Return the manifest of a stored run: chunk index, tiers, and warnings",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Run ID or source path of a stored run",
				},
			},
			Required: []string{"source"},
		},
	}
}

// getChunkTool returns the tool definition for get_chunk
func getChunkTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_chunk",
		Description: "Return the content of one chunk from a stored run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Run ID or source path of a stored run",
				},
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based chunk index",
					"minimum":     0,
				},
			},
			Required: []string{"source", "index"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query statistics for a stored run, or list all stored runs",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Run ID or source path; omit to list every stored run",
				},
			},
		},
	}
}
