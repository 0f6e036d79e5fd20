package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// CurrentSchemaVersion is recorded in the SQLite user_version pragma.
// Bump it together with a new entry in allMigrations.
const CurrentSchemaVersion = 1

// migration represents one schema step, applied when the database's
// user_version is below its version.
type migration struct {
	Version int
	Up      string
}

var allMigrations = []migration{
	{Version: 1, Up: migrationV1Up},
}

const migrationV1Up = `
-- Sources table: one row per packing run
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL UNIQUE,
    path TEXT NOT NULL,
    kind TEXT NOT NULL,
    total_inputs INTEGER DEFAULT 0,
    total_chunks INTEGER DEFAULT 0,
    generated_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sources_run_id ON sources(run_id);
CREATE INDEX IF NOT EXISTS idx_sources_path ON sources(path);

-- Chunks table
CREATE TABLE IF NOT EXISTS chunks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id INTEGER NOT NULL,
    seq INTEGER NOT NULL,
    tier TEXT NOT NULL,
    member_names TEXT,
    token_count INTEGER DEFAULT 0,
    content TEXT NOT NULL,
    content_hash BLOB NOT NULL,
    output_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (source_id) REFERENCES sources(id) ON DELETE CASCADE,
    UNIQUE(source_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_id);
CREATE INDEX IF NOT EXISTS idx_chunks_tier ON chunks(source_id, tier);

-- Warnings table
CREATE TABLE IF NOT EXISTS warnings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id INTEGER NOT NULL,
    input TEXT,
    message TEXT NOT NULL,
    FOREIGN KEY (source_id) REFERENCES sources(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_warnings_source ON warnings(source_id);
`

// ApplyMigrations brings the database schema up to CurrentSchemaVersion.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range allMigrations {
		if m.Version <= version {
			continue
		}
		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
		// PRAGMA does not accept bound parameters
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			return fmt.Errorf("failed to record schema version %d: %w", m.Version, err)
		}
	}
	return nil
}
