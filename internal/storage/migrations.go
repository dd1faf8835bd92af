package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.1.0"
)

// Migration represents a database schema migration. Up holds a SQL
// script; UpFunc, when set, runs instead and may implement steps that
// need error inspection (e.g. tolerant column additions).
type Migration struct {
	Version string
	Up      string
	UpFunc  func(ctx context.Context, db *sql.DB) error
	Down    string
}

// AllMigrations contains all database migrations in order. Every
// statement uses create-if-absent semantics so bootstrap is safe to
// invoke on every open regardless of prior state.
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
	{
		Version: "1.1.0",
		UpFunc:  migrationV1_1Up,
		Down:    "", // column drops are not supported; forward-only
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Documents table. Hubs are externally managed; a document references
-- its hub by opaque key only.
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    hub_id TEXT NOT NULL,
    source TEXT,
    uri TEXT,
    title TEXT,
    mime TEXT,
    content_hash BLOB NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_hub ON documents(hub_id);

-- Dedup point lookup: is (hub, hash) already present.
CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_hub_hash ON documents(hub_id, content_hash);

-- Chunks table
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    hub_id TEXT NOT NULL,
    ord INTEGER NOT NULL,
    text TEXT NOT NULL,
    meta_json TEXT,
    FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE,
    UNIQUE(document_id, ord)
);

CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id);
CREATE INDEX IF NOT EXISTS idx_chunks_hub ON chunks(hub_id);

-- Full-text search over chunk text, external content keyed by rowid.
CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
    text,
    content='chunks',
    content_rowid='rowid'
);

-- Triggers keep the index in lockstep with the chunk rows: a chunk
-- insert and its index entry commit atomically. Chunks are immutable,
-- so no update trigger is needed.
CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
    INSERT INTO chunks_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
    INSERT INTO chunks_fts(chunks_fts, rowid, text) VALUES ('delete', old.rowid, old.text);
END;
`

const migrationV1Down = `
DROP TRIGGER IF EXISTS chunks_ad;
DROP TRIGGER IF EXISTS chunks_ai;

DROP TABLE IF EXISTS chunks_fts;
DROP TABLE IF EXISTS chunks;
DROP TABLE IF EXISTS documents;
DROP TABLE IF EXISTS schema_version;
`

// migrationV1_1Up adds free-form document metadata. Uses a tolerant
// ALTER so databases that already carry the column migrate cleanly.
func migrationV1_1Up(ctx context.Context, db *sql.DB) error {
	return addColumnIfMissing(ctx, db, "documents", "meta_json TEXT")
}

// addColumnIfMissing executes an ALTER TABLE ... ADD COLUMN, swallowing
// the duplicate-column error SQLite reports when the column exists.
func addColumnIfMissing(ctx context.Context, db *sql.DB, table, columnDef string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnDef))
	if err != nil && !isDuplicateColumn(err) {
		return fmt.Errorf("failed to add column to %s: %w", table, err)
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}

// ApplyMigrations runs all pending migrations
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	// Check if schema_version table exists
	var tableName string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)

	// Parse current version (default to 0.0.0 if no migrations applied or table doesn't exist)
	var currentVersion *semver.Version
	if err == sql.ErrNoRows {
		currentVersion = semver.MustParse("0.0.0")
	} else if err != nil {
		return fmt.Errorf("failed to check schema_version table: %w", err)
	} else {
		var currentVersionStr string
		err = db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&currentVersionStr)
		if err == sql.ErrNoRows || currentVersionStr == "" {
			currentVersion = semver.MustParse("0.0.0")
		} else if err != nil {
			return fmt.Errorf("failed to read schema_version: %w", err)
		} else {
			currentVersion, err = semver.NewVersion(currentVersionStr)
			if err != nil {
				return fmt.Errorf("invalid current schema version %s: %w", currentVersionStr, err)
			}
		}
	}

	// Run migrations in order
	for _, migration := range AllMigrations {
		migrationVersion, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}

		if !currentVersion.LessThan(migrationVersion) {
			continue // Already applied
		}

		if migration.UpFunc != nil {
			err = migration.UpFunc(ctx, db)
		} else {
			_, err = db.ExecContext(ctx, migration.Up)
		}
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		// Record migration
		_, err = db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		currentVersion = migrationVersion
	}

	return nil
}
