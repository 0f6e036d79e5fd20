// Package storage provides SQLite-based persistence for packing runs.
//
// The storage layer manages:
//   - Source metadata: one row per run over a code tree or paper
//   - Chunks: ordered, tier-labeled content with hashes
//   - Warnings: per-input problems recorded during a run
//
// # Database Schema
//
// Tables:
//   - sources: run identity (run_id, path, kind, totals)
//   - chunks: chunk content keyed by (source_id, seq)
//   - warnings: non-fatal problems attached to a source
//
// Schema versioning uses the SQLite user_version pragma; ApplyMigrations
// runs any pending steps at open time.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStore("runs.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	src, err := db.SaveRun(ctx, manifest, chunks, storage.SourceKindCode)
//
// # Transactions
//
// Use transactions for atomic multi-row writes:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	tx.CreateSource(ctx, src)
//	tx.InsertChunk(ctx, row)
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// SaveRun wraps this pattern for the common whole-run case.
//
// # Build Tags
//
// Two build configurations select the SQLite driver:
//
// Pure Go build (default):
//
//   - Uses modernc.org/sqlite
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build ./...
//
// CGO build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3
//
//   - Faster bulk inserts for very large runs
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo" ./...
package storage
