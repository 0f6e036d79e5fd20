package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	s, err := NewServer(dbPath, 8000)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.store.Close() })
	return s
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func writeGoTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"model.go":  "package m\n\ntype Model struct{}\n",
		"config.go": "package m\n\ntype Config struct{ Hidden int }\n",
	}
	for rel, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644))
	}
	return root
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t)
	assert.NotNil(t, s.mcp)
	assert.NotNil(t, s.store)
	assert.NotNil(t, s.analyzer)
	assert.NotNil(t, s.paper)
	assert.NotNil(t, s.fetcher)
}

func TestAnalyzeCodeTool(t *testing.T) {
	s := newTestServer(t)
	root := writeGoTree(t)

	result, err := s.handleAnalyzeCode(context.Background(), toolRequest("analyze_code", map[string]interface{}{
		"path":   root,
		"budget": float64(4000),
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.NotEmpty(t, payload["run_id"])
	assert.Equal(t, float64(2), payload["files_parsed"])
	assert.Equal(t, float64(2), payload["units_extracted"])
	assert.Greater(t, payload["chunks_created"], float64(0))
}

func TestAnalyzeCodeToolEmptyDir(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleAnalyzeCode(context.Background(), toolRequest("analyze_code", map[string]interface{}{
		"path": t.TempDir(),
	}))
	require.NoError(t, err)

	// An empty tree is still a persisted run, flagged as empty
	payload := resultJSON(t, result)
	assert.NotEmpty(t, payload["run_id"])
	assert.Equal(t, float64(0), payload["chunks_created"])
	assert.Equal(t, true, payload["empty"])
}

func TestAnalyzeCodeToolMissingPath(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleAnalyzeCode(context.Background(), toolRequest("analyze_code", map[string]interface{}{}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestAnalyzeCodeToolRelativePath(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleAnalyzeCode(context.Background(), toolRequest("analyze_code", map[string]interface{}{
		"path": "relative/dir",
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestAnalyzeCodeToolBadOrder(t *testing.T) {
	s := newTestServer(t)
	root := writeGoTree(t)

	_, err := s.handleAnalyzeCode(context.Background(), toolRequest("analyze_code", map[string]interface{}{
		"path":  root,
		"order": "sideways",
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestChunkPaperTool(t *testing.T) {
	s := newTestServer(t)

	paperPath := filepath.Join(t.TempDir(), "paper.md")
	content := "Abstract\n\nWe study chunking.\n\n1. Introduction\n\nPapers are long.\n\n5. Conclusion\n\nIt works.\n"
	require.NoError(t, os.WriteFile(paperPath, []byte(content), 0o644))

	result, err := s.handleChunkPaper(context.Background(), toolRequest("chunk_paper", map[string]interface{}{
		"path":   paperPath,
		"budget": float64(1000),
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.NotEmpty(t, payload["run_id"])
	assert.Equal(t, "paper", payload["source"])
	assert.Equal(t, float64(3), payload["sections"])
}

func TestChunkPaperToolPathAndURL(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleChunkPaper(context.Background(), toolRequest("chunk_paper", map[string]interface{}{
		"path": "/tmp/x.pdf",
		"url":  "https://arxiv.org/abs/2505.22596",
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestGetManifestAndChunk(t *testing.T) {
	s := newTestServer(t)
	root := writeGoTree(t)
	ctx := context.Background()

	result, err := s.handleAnalyzeCode(ctx, toolRequest("analyze_code", map[string]interface{}{
		"path": root,
	}))
	require.NoError(t, err)
	runID := resultJSON(t, result)["run_id"].(string)

	// Manifest by run ID
	result, err = s.handleGetManifest(ctx, toolRequest("get_manifest", map[string]interface{}{
		"source": runID,
	}))
	require.NoError(t, err)
	manifest := resultJSON(t, result)
	assert.Equal(t, runID, manifest["run_id"])
	assert.Equal(t, "code", manifest["kind"])
	assert.NotEmpty(t, manifest["chunks"])

	// Manifest by source path resolves to the same run
	result, err = s.handleGetManifest(ctx, toolRequest("get_manifest", map[string]interface{}{
		"source": filepath.Base(root),
	}))
	require.NoError(t, err)
	assert.Equal(t, runID, resultJSON(t, result)["run_id"])

	// First chunk
	result, err = s.handleGetChunk(ctx, toolRequest("get_chunk", map[string]interface{}{
		"source": runID,
		"index":  float64(0),
	}))
	require.NoError(t, err)
	chunk := resultJSON(t, result)
	assert.Equal(t, float64(0), chunk["index"])
	assert.Contains(t, chunk["content"], "type Model struct{}")

	// Out-of-range index
	_, err = s.handleGetChunk(ctx, toolRequest("get_chunk", map[string]interface{}{
		"source": runID,
		"index":  float64(99),
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeChunkNotFound, mcpErr.Code)
}

func TestGetManifestUnknownSource(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleGetManifest(context.Background(), toolRequest("get_manifest", map[string]interface{}{
		"source": "no-such-run",
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeRunNotFound, mcpErr.Code)
}

func TestGetStatusListsRuns(t *testing.T) {
	s := newTestServer(t)
	root := writeGoTree(t)
	ctx := context.Background()

	// Empty store lists zero runs
	result, err := s.handleGetStatus(ctx, toolRequest("get_status", map[string]interface{}{}))
	require.NoError(t, err)
	assert.Empty(t, resultJSON(t, result)["runs"])

	result, err = s.handleAnalyzeCode(ctx, toolRequest("analyze_code", map[string]interface{}{
		"path": root,
	}))
	require.NoError(t, err)
	runID := resultJSON(t, result)["run_id"].(string)

	result, err = s.handleGetStatus(ctx, toolRequest("get_status", map[string]interface{}{}))
	require.NoError(t, err)
	runs := resultJSON(t, result)["runs"].([]interface{})
	require.Len(t, runs, 1)

	result, err = s.handleGetStatus(ctx, toolRequest("get_status", map[string]interface{}{
		"source": runID,
	}))
	require.NoError(t, err)
	status := resultJSON(t, result)
	assert.Equal(t, runID, status["run_id"])
	assert.Greater(t, status["chunks_count"], float64(0))
}
