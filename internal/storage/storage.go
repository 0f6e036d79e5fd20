package storage

import (
	"context"
	"strings"
	"time"

	"github.com/paperpack/paperpack/pkg/types"
)

// Store defines the interface for persisting and querying packing runs
type Store interface {
	// Source operations
	CreateSource(ctx context.Context, source *Source) error
	GetSource(ctx context.Context, runID string) (*Source, error)
	GetSourceByPath(ctx context.Context, path string) (*Source, error)
	ListSources(ctx context.Context) ([]*Source, error)
	DeleteSource(ctx context.Context, runID string) error

	// Chunk operations
	InsertChunk(ctx context.Context, chunk *ChunkRow) error
	GetChunk(ctx context.Context, sourceID int64, seq int) (*ChunkRow, error)
	ListChunks(ctx context.Context, sourceID int64) ([]*ChunkRow, error)
	ListChunksByTier(ctx context.Context, sourceID int64, tier string) ([]*ChunkRow, error)

	// Warning operations
	InsertWarning(ctx context.Context, warning *WarningRow) error
	ListWarnings(ctx context.Context, sourceID int64) ([]*WarningRow, error)

	// Status operations
	GetStatus(ctx context.Context, runID string) (*RunStatus, error)

	// Run operations
	SaveRun(ctx context.Context, m *types.Manifest, chunks []types.Chunk, kind string) (*Source, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Store // Embed Store interface for transaction operations
}

// Source kinds.
const (
	SourceKindCode  = "code"
	SourceKindPaper = "paper"
)

// Source represents one completed packing run over a code tree or paper
type Source struct {
	ID          int64
	RunID       string
	Path        string
	Kind        string
	TotalInputs int
	TotalChunks int
	GeneratedAt time.Time
	CreatedAt   time.Time
}

// ChunkRow represents one persisted chunk
type ChunkRow struct {
	ID          int64
	SourceID    int64
	Seq         int
	Tier        string
	MemberNames string // newline-separated
	TokenCount  int
	Content     string
	ContentHash []byte
	OutputID    string
	CreatedAt   time.Time
}

// Members splits the stored member names back into a list
func (c *ChunkRow) Members() []string {
	if c.MemberNames == "" {
		return nil
	}
	return strings.Split(c.MemberNames, "\n")
}

// WarningRow represents one persisted warning
type WarningRow struct {
	ID       int64
	SourceID int64
	Input    string
	Message  string
}

// RunStatus contains statistics about a persisted run
type RunStatus struct {
	Source        *Source
	ChunksCount   int
	WarningsCount int
	TotalTokens   int
	TierCounts    map[string]int
}

// FromChunk converts a packed chunk plus its manifest descriptor into a row
func FromChunk(sourceID int64, c *types.Chunk, outputID string) *ChunkRow {
	return &ChunkRow{
		SourceID:    sourceID,
		Seq:         c.Index,
		Tier:        c.Tier.Label(),
		MemberNames: strings.Join(c.MemberNames(), "\n"),
		TokenCount:  c.Tokens,
		Content:     c.Content(),
		ContentHash: c.ContentHash[:],
		OutputID:    outputID,
	}
}
