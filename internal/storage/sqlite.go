package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hubstash/hubstash/pkg/types"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// WAL lets readers proceed concurrently with the single writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore opens (creating if necessary) the database at dbPath and
// applies any pending migrations. Safe to call on every process start.
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

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction.
func (s *SQLiteStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, store: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction.
type sqliteTx struct {
	tx    *sql.Tx
	store *SQLiteStore
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStore) querier() querier {
	return s.db
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// Matched on message text so both drivers are covered.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func encodeMeta(meta map[string]string) (string, error) {
	if meta == nil {
		meta = map[string]string{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(data), nil
}

func decodeMeta(raw sql.NullString) (map[string]string, error) {
	meta := map[string]string{}
	if !raw.Valid || raw.String == "" {
		return meta, nil
	}
	if err := json.Unmarshal([]byte(raw.String), &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return meta, nil
}

// Document operations

func (s *SQLiteStore) insertDocumentWithQuerier(ctx context.Context, q querier, doc *Document) error {
	metaJSON, err := encodeMeta(doc.Meta)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (id, hub_id, source, uri, title, mime, meta_json, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err = q.ExecContext(ctx, query,
		doc.ID, doc.HubID, doc.Source, doc.URI, doc.Title, doc.MIME,
		metaJSON, doc.ContentHash[:], now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) InsertDocument(ctx context.Context, doc *Document) error {
	return s.insertDocumentWithQuerier(ctx, s.querier(), doc)
}

const documentColumns = `id, hub_id, source, uri, title, mime, meta_json, content_hash, created_at, updated_at`

func scanDocument(row interface{ Scan(dest ...interface{}) error }) (*Document, error) {
	var doc Document
	var metaJSON sql.NullString
	var hash []byte
	err := row.Scan(
		&doc.ID, &doc.HubID, &doc.Source, &doc.URI, &doc.Title, &doc.MIME,
		&metaJSON, &hash, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	copy(doc.ContentHash[:], hash)
	doc.Meta, err = decodeMeta(metaJSON)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *SQLiteStore) getDocumentWithQuerier(ctx context.Context, q querier, id string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	doc, err := scanDocument(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	return s.getDocumentWithQuerier(ctx, s.querier(), id)
}

// getDocumentByHashWithQuerier is the dedup point lookup, served by the
// (hub_id, content_hash) index.
func (s *SQLiteStore) getDocumentByHashWithQuerier(ctx context.Context, q querier, hubID string, hash [32]byte) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE hub_id = ? AND content_hash = ? LIMIT 1`
	doc, err := scanDocument(q.QueryRowContext(ctx, query, hubID, hash[:]))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document by hash: %w", err)
	}
	return doc, nil
}

func (s *SQLiteStore) GetDocumentByHash(ctx context.Context, hubID string, hash [32]byte) (*Document, error) {
	return s.getDocumentByHashWithQuerier(ctx, s.querier(), hubID, hash)
}

func (s *SQLiteStore) listDocumentsByHubWithQuerier(ctx context.Context, q querier, hubID string) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE hub_id = ? ORDER BY created_at`
	rows, err := q.QueryContext(ctx, query, hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) ListDocumentsByHub(ctx context.Context, hubID string) ([]*Document, error) {
	return s.listDocumentsByHubWithQuerier(ctx, s.querier(), hubID)
}

// deleteDocumentWithQuerier removes a document and, via cascade, its
// chunks and their index entries.
func (s *SQLiteStore) deleteDocumentWithQuerier(ctx context.Context, q querier, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
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

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	return s.deleteDocumentWithQuerier(ctx, s.querier(), id)
}

// Chunk operations

func (s *SQLiteStore) insertChunkWithQuerier(ctx context.Context, q querier, chunk *Chunk) error {
	metaJSON, err := encodeMeta(chunk.Meta)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO chunks (id, document_id, hub_id, ord, text, meta_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = q.ExecContext(ctx, query,
		chunk.ID, chunk.DocumentID, chunk.HubID, chunk.Ord, chunk.Text, metaJSON)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

func (s *SQLiteStore) InsertChunk(ctx context.Context, chunk *Chunk) error {
	return s.insertChunkWithQuerier(ctx, s.querier(), chunk)
}

func (s *SQLiteStore) listChunksByDocumentWithQuerier(ctx context.Context, q querier, documentID string) ([]*Chunk, error) {
	query := `
		SELECT id, document_id, hub_id, ord, text, meta_json
		FROM chunks
		WHERE document_id = ?
		ORDER BY ord
	`
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	chunks := make([]*Chunk, 0)
	for rows.Next() {
		var chunk Chunk
		var metaJSON sql.NullString
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.HubID, &chunk.Ord, &chunk.Text, &metaJSON); err != nil {
			return nil, err
		}
		chunk.Meta, err = decodeMeta(metaJSON)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStore) ListChunksByDocument(ctx context.Context, documentID string) ([]*Chunk, error) {
	return s.listChunksByDocumentWithQuerier(ctx, s.querier(), documentID)
}

func (s *SQLiteStore) countChunksByHubWithQuerier(ctx context.Context, q querier, hubID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE hub_id = ?`, hubID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) CountChunksByHub(ctx context.Context, hubID string) (int, error) {
	return s.countChunksByHubWithQuerier(ctx, s.querier(), hubID)
}

// Search operations

// searchChunksWithQuerier runs an FTS5 MATCH over chunk text. An empty
// hubID spans all hubs; otherwise an equality predicate on the
// denormalized chunk.hub_id restricts the scan. Results follow the
// engine's relevance order (FTS5 rank).
func (s *SQLiteStore) searchChunksWithQuerier(ctx context.Context, q querier, term, hubID string, limit int) ([]types.Hit, error) {
	var (
		query string
		args  []interface{}
	)
	if hubID == "" {
		query = `
			SELECT c.id, c.document_id, c.hub_id, c.text
			FROM chunks c
			JOIN chunks_fts fts ON fts.rowid = c.rowid
			WHERE fts MATCH ?
			ORDER BY rank
			LIMIT ?
		`
		args = []interface{}{term, limit}
	} else {
		query = `
			SELECT c.id, c.document_id, c.hub_id, c.text
			FROM chunks c
			JOIN chunks_fts fts ON fts.rowid = c.rowid
			WHERE c.hub_id = ? AND fts MATCH ?
			ORDER BY rank
			LIMIT ?
		`
		args = []interface{}{hubID, term, limit}
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	hits := make([]types.Hit, 0)
	for rows.Next() {
		var hit types.Hit
		if err := rows.Scan(&hit.ChunkID, &hit.DocumentID, &hit.HubID, &hit.Text); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

func (s *SQLiteStore) SearchChunks(ctx context.Context, term, hubID string, limit int) ([]types.Hit, error) {
	return s.searchChunksWithQuerier(ctx, s.querier(), term, hubID, limit)
}

// Transaction implementations delegate to the shared internals with the
// transaction's querier.

func (t *sqliteTx) InsertDocument(ctx context.Context, doc *Document) error {
	return t.store.insertDocumentWithQuerier(ctx, t.querier(), doc)
}

func (t *sqliteTx) GetDocument(ctx context.Context, id string) (*Document, error) {
	return t.store.getDocumentWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) GetDocumentByHash(ctx context.Context, hubID string, hash [32]byte) (*Document, error) {
	return t.store.getDocumentByHashWithQuerier(ctx, t.querier(), hubID, hash)
}

func (t *sqliteTx) ListDocumentsByHub(ctx context.Context, hubID string) ([]*Document, error) {
	return t.store.listDocumentsByHubWithQuerier(ctx, t.querier(), hubID)
}

func (t *sqliteTx) DeleteDocument(ctx context.Context, id string) error {
	return t.store.deleteDocumentWithQuerier(ctx, t.querier(), id)
}

func (t *sqliteTx) InsertChunk(ctx context.Context, chunk *Chunk) error {
	return t.store.insertChunkWithQuerier(ctx, t.querier(), chunk)
}

func (t *sqliteTx) ListChunksByDocument(ctx context.Context, documentID string) ([]*Chunk, error) {
	return t.store.listChunksByDocumentWithQuerier(ctx, t.querier(), documentID)
}

func (t *sqliteTx) CountChunksByHub(ctx context.Context, hubID string) (int, error) {
	return t.store.countChunksByHubWithQuerier(ctx, t.querier(), hubID)
}

func (t *sqliteTx) SearchChunks(ctx context.Context, term, hubID string, limit int) ([]types.Hit, error) {
	return t.store.searchChunksWithQuerier(ctx, t.querier(), term, hubID, limit)
}

// Nested transactions are not supported; a Tx returns itself.
func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return t, nil
}

func (t *sqliteTx) Close() error {
	return nil
}
