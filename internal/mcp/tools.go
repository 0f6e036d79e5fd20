package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/paperpack/paperpack/internal/analyzer"
	"github.com/paperpack/paperpack/internal/packer"
	"github.com/paperpack/paperpack/internal/paper"
	"github.com/paperpack/paperpack/internal/storage"
	"github.com/paperpack/paperpack/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeRunNotFound   = -32001 // No stored run matches the source
	ErrorCodeChunkNotFound = -32002 // Chunk index out of range for the run
	ErrorCodeFetchFailed   = -32003 // Paper download failed
)

// handleAnalyzeCode handles the analyze_code tool invocation
func (s *Server) handleAnalyzeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validateDir(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	budget := getIntDefault(args, "budget", s.budget)
	orderStr := getStringDefault(args, "order", "priority")
	order, err := packer.ParseOrder(orderStr)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid order", map[string]interface{}{
			"param":   "order",
			"value":   orderStr,
			"allowed": []string{"priority", "natural"},
		})
	}
	includeTests := getBoolDefault(args, "include_tests", false)

	cfg := &analyzer.Config{
		Budget:       budget,
		Order:        order,
		IncludeTests: includeTests,
	}
	res, err := s.analyzer.AnalyzeDir(ctx, path, cfg)
	if err != nil && !errors.Is(err, types.ErrNoInputs) {
		return nil, newMCPError(ErrorCodeInternalError, "analysis failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	src, err := s.store.SaveRun(ctx, res.Manifest, res.Chunks, storage.SourceKindCode)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to persist run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"run_id":          src.RunID,
		"files_parsed":    res.Stats.FilesParsed,
		"files_skipped":   res.Stats.FilesSkipped,
		"files_failed":    res.Stats.FilesFailed,
		"units_extracted": res.Stats.UnitsExtracted,
		"chunks_created":  res.Stats.ChunksCreated,
		"duration_ms":     res.Stats.Duration.Milliseconds(),
	}
	if len(res.Warnings) > 0 {
		response["warning_count"] = len(res.Warnings)
	}
	if errors.Is(err, types.ErrNoInputs) {
		response["empty"] = true
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleChunkPaper handles the chunk_paper tool invocation
func (s *Server) handleChunkPaper(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, _ := args["path"].(string)
	url, _ := args["url"].(string)
	if (path == "") == (url == "") {
		return nil, newMCPError(ErrorCodeInvalidParams, "exactly one of path or url is required", nil)
	}

	if url != "" {
		dir, err := os.MkdirTemp("", "paperpack-")
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to create download directory", map[string]interface{}{
				"error": err.Error(),
			})
		}
		path, err = s.fetcher.Download(ctx, url, dir)
		if err != nil {
			return nil, newMCPError(ErrorCodeFetchFailed, "paper download failed", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
		}
	}

	doc, err := paper.ReadDocument(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "failed to read document", map[string]interface{}{
			"param": "path",
			"error": err.Error(),
		})
	}

	budget := getIntDefault(args, "budget", s.budget)
	res, err := s.paper.Run(doc, packer.Options{Budget: budget, Order: packer.OrderPriority})
	if err != nil && !errors.Is(err, types.ErrNoInputs) {
		return nil, newMCPError(ErrorCodeInternalError, "chunking failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	src, err := s.store.SaveRun(ctx, res.Manifest, res.Chunks, storage.SourceKindPaper)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to persist run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"run_id":            src.RunID,
		"source":            res.Manifest.Source,
		"sections":          len(res.Units),
		"chunks_created":    len(res.Chunks),
		"tier_distribution": res.Manifest.TierDistribution,
	}
	if errors.Is(err, types.ErrNoInputs) {
		response["empty"] = true
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetManifest handles the get_manifest tool invocation
func (s *Server) handleGetManifest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, errResult := s.resolveSource(ctx, request)
	if errResult != nil {
		return nil, errResult
	}

	chunks, err := s.store.ListChunks(ctx, src.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list chunks", map[string]interface{}{
			"error": err.Error(),
		})
	}
	warnings, err := s.store.ListWarnings(ctx, src.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list warnings", map[string]interface{}{
			"error": err.Error(),
		})
	}

	distribution := make(map[string]int)
	descriptors := make([]map[string]interface{}, 0, len(chunks))
	for _, c := range chunks {
		distribution[c.Tier]++
		descriptors = append(descriptors, map[string]interface{}{
			"index":        c.Seq,
			"tier":         c.Tier,
			"member_names": c.Members(),
			"tokens":       c.TokenCount,
			"output_id":    c.OutputID,
		})
	}

	messages := make([]string, 0, len(warnings))
	for _, w := range warnings {
		messages = append(messages, w.Message)
	}

	response := map[string]interface{}{
		"run_id":            src.RunID,
		"source":            src.Path,
		"kind":              src.Kind,
		"generated_at":      src.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		"total_inputs":      src.TotalInputs,
		"total_chunks":      src.TotalChunks,
		"tier_distribution": distribution,
		"chunks":            descriptors,
	}
	if len(messages) > 0 {
		response["warnings"] = messages
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetChunk handles the get_chunk tool invocation
func (s *Server) handleGetChunk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, errResult := s.resolveSource(ctx, request)
	if errResult != nil {
		return nil, errResult
	}

	args, _ := request.Params.Arguments.(map[string]interface{})
	index := getIntDefault(args, "index", -1)
	if index < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "index parameter is required", map[string]interface{}{
			"param":  "index",
			"reason": "missing or negative",
		})
	}

	chunk, err := s.store.GetChunk(ctx, src.ID, index)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeChunkNotFound, "no such chunk", map[string]interface{}{
			"run_id":       src.RunID,
			"index":        index,
			"total_chunks": src.TotalChunks,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get chunk", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"run_id":       src.RunID,
		"index":        chunk.Seq,
		"total":        src.TotalChunks,
		"tier":         chunk.Tier,
		"member_names": chunk.Members(),
		"tokens":       chunk.TokenCount,
		"output_id":    chunk.OutputID,
		"content":      chunk.Content,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	source := getStringDefault(args, "source", "")

	if source == "" {
		sources, err := s.store.ListSources(ctx)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to list runs", map[string]interface{}{
				"error": err.Error(),
			})
		}
		runs := make([]map[string]interface{}, 0, len(sources))
		for _, src := range sources {
			runs = append(runs, map[string]interface{}{
				"run_id":       src.RunID,
				"source":       src.Path,
				"kind":         src.Kind,
				"total_chunks": src.TotalChunks,
			})
		}
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"runs": runs,
		})), nil
	}

	src, errResult := s.resolveSource(ctx, request)
	if errResult != nil {
		return nil, errResult
	}

	status, err := s.store.GetStatus(ctx, src.RunID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"run_id":            src.RunID,
		"source":            src.Path,
		"kind":              src.Kind,
		"generated_at":      src.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		"total_inputs":      src.TotalInputs,
		"chunks_count":      status.ChunksCount,
		"warnings_count":    status.WarningsCount,
		"total_tokens":      status.TotalTokens,
		"tier_distribution": status.TierCounts,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// resolveSource extracts the source parameter and resolves it to a stored
// run, trying run ID first and source path second.
func (s *Server) resolveSource(ctx context.Context, request mcp.CallToolRequest) (*storage.Source, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, ok := args["source"].(string)
	if !ok || source == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "source parameter is required", map[string]interface{}{
			"param":  "source",
			"reason": "missing or empty",
		})
	}

	src, err := s.store.GetSource(ctx, source)
	if errors.Is(err, storage.ErrNotFound) {
		src, err = s.store.GetSourceByPath(ctx, source)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeRunNotFound, "no stored run matches source", map[string]interface{}{
			"source": source,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to resolve source", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return src, nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateDir checks that a path is an absolute, readable directory
func validateDir(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
