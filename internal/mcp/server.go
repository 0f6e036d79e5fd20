package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/paperpack/paperpack/internal/analyzer"
	"github.com/paperpack/paperpack/internal/fetch"
	"github.com/paperpack/paperpack/internal/paper"
	"github.com/paperpack/paperpack/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "paperpack"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	store    storage.Store
	analyzer *analyzer.Analyzer
	paper    *paper.Pipeline
	fetcher  *fetch.Fetcher
	budget   int
}

// NewServer creates a new MCP server instance backed by the database at
// dbPath. defaultBudget applies when a tool call omits its budget.
func NewServer(dbPath string, defaultBudget int) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		store:    store,
		analyzer: analyzer.New(),
		paper:    paper.New(),
		fetcher:  fetch.New(),
		budget:   defaultBudget,
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(analyzeCodeTool(), s.handleAnalyzeCode)
	s.mcp.AddTool(chunkPaperTool(), s.handleChunkPaper)
	s.mcp.AddTool(getManifestTool(), s.handleGetManifest)
	s.mcp.AddTool(getChunkTool(), s.handleGetChunk)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
