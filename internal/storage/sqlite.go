package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paperpack/paperpack/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Tx    = (*sqliteTx)(nil)
)

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, store: s}, nil
}

// isUniqueViolation reports whether an error is a SQLite unique
// constraint failure. Both drivers surface the constraint name in the
// error text; neither exposes a shared typed error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx    *sql.Tx
	store *SQLiteStore
}

func (t *sqliteTx) Commit() error   { return t.tx.Commit() }
func (t *sqliteTx) Rollback() error { return t.tx.Rollback() }

func (t *sqliteTx) Close() error {
	return errors.New("cannot close store from within a transaction")
}

func (t *sqliteTx) BeginTx(_ context.Context) (Tx, error) {
	return nil, errors.New("nested transactions are not supported")
}

func (t *sqliteTx) SaveRun(_ context.Context, _ *types.Manifest, _ []types.Chunk, _ string) (*Source, error) {
	return nil, errors.New("cannot save run from within a transaction")
}

// Source operations

func (s *SQLiteStore) createSourceWithQuerier(ctx context.Context, q querier, source *Source) error {
	query := `
		INSERT INTO sources (run_id, path, kind, total_inputs, total_chunks, generated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		source.RunID, source.Path, source.Kind,
		source.TotalInputs, source.TotalChunks, source.GeneratedAt, now)
	if isUniqueViolation(err) {
		return fmt.Errorf("run %q: %w", source.RunID, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	source.ID = id
	source.CreatedAt = now
	return nil
}

func (s *SQLiteStore) CreateSource(ctx context.Context, source *Source) error {
	return s.createSourceWithQuerier(ctx, s.db, source)
}

func (t *sqliteTx) CreateSource(ctx context.Context, source *Source) error {
	return t.store.createSourceWithQuerier(ctx, t.tx, source)
}

const sourceColumns = `id, run_id, path, kind, total_inputs, total_chunks, generated_at, created_at`

func scanSource(row interface{ Scan(...interface{}) error }) (*Source, error) {
	var src Source
	var generatedAt sql.NullTime
	err := row.Scan(&src.ID, &src.RunID, &src.Path, &src.Kind,
		&src.TotalInputs, &src.TotalChunks, &generatedAt, &src.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan source: %w", err)
	}
	if generatedAt.Valid {
		src.GeneratedAt = generatedAt.Time
	}
	return &src, nil
}

func (s *SQLiteStore) getSourceWithQuerier(ctx context.Context, q querier, runID string) (*Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE run_id = ?`
	return scanSource(q.QueryRowContext(ctx, query, runID))
}

func (s *SQLiteStore) GetSource(ctx context.Context, runID string) (*Source, error) {
	return s.getSourceWithQuerier(ctx, s.db, runID)
}

func (t *sqliteTx) GetSource(ctx context.Context, runID string) (*Source, error) {
	return t.store.getSourceWithQuerier(ctx, t.tx, runID)
}

func (s *SQLiteStore) getSourceByPathWithQuerier(ctx context.Context, q querier, path string) (*Source, error) {
	// Latest run for the path wins
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE path = ? ORDER BY id DESC LIMIT 1`
	return scanSource(q.QueryRowContext(ctx, query, path))
}

func (s *SQLiteStore) GetSourceByPath(ctx context.Context, path string) (*Source, error) {
	return s.getSourceByPathWithQuerier(ctx, s.db, path)
}

func (t *sqliteTx) GetSourceByPath(ctx context.Context, path string) (*Source, error) {
	return t.store.getSourceByPathWithQuerier(ctx, t.tx, path)
}

func (s *SQLiteStore) listSourcesWithQuerier(ctx context.Context, q querier) ([]*Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources ORDER BY id`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sources []*Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (s *SQLiteStore) ListSources(ctx context.Context) ([]*Source, error) {
	return s.listSourcesWithQuerier(ctx, s.db)
}

func (t *sqliteTx) ListSources(ctx context.Context) ([]*Source, error) {
	return t.store.listSourcesWithQuerier(ctx, t.tx)
}

func (s *SQLiteStore) deleteSourceWithQuerier(ctx context.Context, q querier, runID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM sources WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteSource(ctx context.Context, runID string) error {
	return s.deleteSourceWithQuerier(ctx, s.db, runID)
}

func (t *sqliteTx) DeleteSource(ctx context.Context, runID string) error {
	return t.store.deleteSourceWithQuerier(ctx, t.tx, runID)
}

// Chunk operations

func (s *SQLiteStore) insertChunkWithQuerier(ctx context.Context, q querier, chunk *ChunkRow) error {
	query := `
		INSERT INTO chunks (source_id, seq, tier, member_names, token_count, content, content_hash, output_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		chunk.SourceID, chunk.Seq, chunk.Tier, chunk.MemberNames,
		chunk.TokenCount, chunk.Content, chunk.ContentHash, chunk.OutputID, now)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	chunk.ID = id
	chunk.CreatedAt = now
	return nil
}

func (s *SQLiteStore) InsertChunk(ctx context.Context, chunk *ChunkRow) error {
	return s.insertChunkWithQuerier(ctx, s.db, chunk)
}

func (t *sqliteTx) InsertChunk(ctx context.Context, chunk *ChunkRow) error {
	return t.store.insertChunkWithQuerier(ctx, t.tx, chunk)
}

const chunkColumns = `id, source_id, seq, tier, member_names, token_count, content, content_hash, output_id, created_at`

func scanChunk(row interface{ Scan(...interface{}) error }) (*ChunkRow, error) {
	var c ChunkRow
	err := row.Scan(&c.ID, &c.SourceID, &c.Seq, &c.Tier, &c.MemberNames,
		&c.TokenCount, &c.Content, &c.ContentHash, &c.OutputID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan chunk: %w", err)
	}
	return &c, nil
}

func (s *SQLiteStore) getChunkWithQuerier(ctx context.Context, q querier, sourceID int64, seq int) (*ChunkRow, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE source_id = ? AND seq = ?`
	return scanChunk(q.QueryRowContext(ctx, query, sourceID, seq))
}

func (s *SQLiteStore) GetChunk(ctx context.Context, sourceID int64, seq int) (*ChunkRow, error) {
	return s.getChunkWithQuerier(ctx, s.db, sourceID, seq)
}

func (t *sqliteTx) GetChunk(ctx context.Context, sourceID int64, seq int) (*ChunkRow, error) {
	return t.store.getChunkWithQuerier(ctx, t.tx, sourceID, seq)
}

func (s *SQLiteStore) listChunksWithQuerier(ctx context.Context, q querier, query string, args ...interface{}) ([]*ChunkRow, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []*ChunkRow
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStore) ListChunks(ctx context.Context, sourceID int64) ([]*ChunkRow, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE source_id = ? ORDER BY seq`
	return s.listChunksWithQuerier(ctx, s.db, query, sourceID)
}

func (t *sqliteTx) ListChunks(ctx context.Context, sourceID int64) ([]*ChunkRow, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE source_id = ? ORDER BY seq`
	return t.store.listChunksWithQuerier(ctx, t.tx, query, sourceID)
}

func (s *SQLiteStore) ListChunksByTier(ctx context.Context, sourceID int64, tier string) ([]*ChunkRow, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE source_id = ? AND tier = ? ORDER BY seq`
	return s.listChunksWithQuerier(ctx, s.db, query, sourceID, tier)
}

func (t *sqliteTx) ListChunksByTier(ctx context.Context, sourceID int64, tier string) ([]*ChunkRow, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE source_id = ? AND tier = ? ORDER BY seq`
	return t.store.listChunksWithQuerier(ctx, t.tx, query, sourceID, tier)
}

// Warning operations

func (s *SQLiteStore) insertWarningWithQuerier(ctx context.Context, q querier, warning *WarningRow) error {
	query := `INSERT INTO warnings (source_id, input, message) VALUES (?, ?, ?)`
	result, err := q.ExecContext(ctx, query, warning.SourceID, warning.Input, warning.Message)
	if err != nil {
		return fmt.Errorf("failed to insert warning: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	warning.ID = id
	return nil
}

func (s *SQLiteStore) InsertWarning(ctx context.Context, warning *WarningRow) error {
	return s.insertWarningWithQuerier(ctx, s.db, warning)
}

func (t *sqliteTx) InsertWarning(ctx context.Context, warning *WarningRow) error {
	return t.store.insertWarningWithQuerier(ctx, t.tx, warning)
}

func (s *SQLiteStore) listWarningsWithQuerier(ctx context.Context, q querier, sourceID int64) ([]*WarningRow, error) {
	query := `SELECT id, source_id, input, message FROM warnings WHERE source_id = ? ORDER BY id`
	rows, err := q.QueryContext(ctx, query, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var warnings []*WarningRow
	for rows.Next() {
		var w WarningRow
		if err := rows.Scan(&w.ID, &w.SourceID, &w.Input, &w.Message); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		warnings = append(warnings, &w)
	}
	return warnings, rows.Err()
}

func (s *SQLiteStore) ListWarnings(ctx context.Context, sourceID int64) ([]*WarningRow, error) {
	return s.listWarningsWithQuerier(ctx, s.db, sourceID)
}

func (t *sqliteTx) ListWarnings(ctx context.Context, sourceID int64) ([]*WarningRow, error) {
	return t.store.listWarningsWithQuerier(ctx, t.tx, sourceID)
}

// Status operations

func (s *SQLiteStore) getStatusWithQuerier(ctx context.Context, q querier, runID string) (*RunStatus, error) {
	src, err := s.getSourceWithQuerier(ctx, q, runID)
	if err != nil {
		return nil, err
	}

	status := &RunStatus{Source: src, TierCounts: make(map[string]int)}

	row := q.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(token_count), 0) FROM chunks WHERE source_id = ?`, src.ID)
	if err := row.Scan(&status.ChunksCount, &status.TotalTokens); err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}

	row = q.QueryRowContext(ctx, `SELECT COUNT(*) FROM warnings WHERE source_id = ?`, src.ID)
	if err := row.Scan(&status.WarningsCount); err != nil {
		return nil, fmt.Errorf("failed to count warnings: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT tier, COUNT(*) FROM chunks WHERE source_id = ? GROUP BY tier`, src.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tiers: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var tier string
		var count int
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tier count: %w", err)
		}
		status.TierCounts[tier] = count
	}
	return status, rows.Err()
}

func (s *SQLiteStore) GetStatus(ctx context.Context, runID string) (*RunStatus, error) {
	return s.getStatusWithQuerier(ctx, s.db, runID)
}

func (t *sqliteTx) GetStatus(ctx context.Context, runID string) (*RunStatus, error) {
	return t.store.getStatusWithQuerier(ctx, t.tx, runID)
}

// SaveRun persists a completed run atomically: the source row, every
// chunk, and every warning, matched to the manifest by position.
func (s *SQLiteStore) SaveRun(ctx context.Context, m *types.Manifest, chunks []types.Chunk, kind string) (*Source, error) {
	if len(m.Chunks) != len(chunks) {
		return nil, fmt.Errorf("manifest describes %d chunks, got %d", len(m.Chunks), len(chunks))
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	src := &Source{
		RunID:       m.RunID,
		Path:        m.Source,
		Kind:        kind,
		TotalInputs: m.TotalInputs,
		TotalChunks: m.TotalChunks,
		GeneratedAt: m.GeneratedAt,
	}
	if err := tx.CreateSource(ctx, src); err != nil {
		return nil, err
	}

	for i := range chunks {
		row := FromChunk(src.ID, &chunks[i], m.Chunks[i].OutputID)
		if err := tx.InsertChunk(ctx, row); err != nil {
			return nil, err
		}
	}
	for _, w := range m.Warnings {
		if err := tx.InsertWarning(ctx, &WarningRow{SourceID: src.ID, Message: w}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}
	return src, nil
}
