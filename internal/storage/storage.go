package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hubstash/hubstash/pkg/types"
)

var (
	// ErrNotFound is returned when a requested row doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned on a unique-constraint violation.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the persistence interface for hub-scoped documents,
// their chunks, and the full-text index over chunk text. The store
// exclusively owns all persisted state.
type Store interface {
	// Document operations
	InsertDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	GetDocumentByHash(ctx context.Context, hubID string, hash [32]byte) (*Document, error)
	ListDocumentsByHub(ctx context.Context, hubID string) ([]*Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// Chunk operations
	InsertChunk(ctx context.Context, chunk *Chunk) error
	ListChunksByDocument(ctx context.Context, documentID string) ([]*Chunk, error)
	CountChunksByHub(ctx context.Context, hubID string) (int, error)

	// Full-text search. Empty hubID means global scope.
	SearchChunks(ctx context.Context, term, hubID string, limit int) ([]types.Hit, error)

	// Database operations
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is a transactional view of the store. Operations performed through
// a Tx become visible only on Commit.
type Tx interface {
	Commit() error
	Rollback() error
	Store
}

// Document is one ingested unit. Documents are immutable after creation;
// the content hash is written with the initial insert so the
// (hub, hash) dedup lookup never observes a half-created row.
type Document struct {
	ID          string
	HubID       string
	Source      string
	URI         string
	Title       string
	MIME        string
	Meta        map[string]string
	ContentHash [32]byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chunk is an ordered fragment of a document's text. HubID is
// denormalized from the parent document so hub-scoped queries avoid a
// join. Ordinals are 0-based, gapless, and strictly increasing within a
// document.
type Chunk struct {
	ID         string
	DocumentID string
	HubID      string
	Ord        int
	Text       string
	Meta       map[string]string
}
