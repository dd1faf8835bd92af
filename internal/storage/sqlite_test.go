package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubstash/hubstash/internal/contenthash"
)

func setupTestDB(t *testing.T) *SQLiteStore {
	// Use in-memory database for testing
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newDocument(hubID, title, text string) *Document {
	return &Document{
		ID:          uuid.NewString(),
		HubID:       hubID,
		Source:      "txt",
		URI:         title + ".txt",
		Title:       title,
		MIME:        "text/plain",
		Meta:        map[string]string{"ext": "txt"},
		ContentHash: contenthash.Sum(text),
	}
}

func newChunk(doc *Document, ord int, text string) *Chunk {
	return &Chunk{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		HubID:      doc.HubID,
		Ord:        ord,
		Text:       text,
		Meta:       map[string]string{},
	}
}

func TestNewSQLiteStore(t *testing.T) {
	store := setupTestDB(t)
	assert.NotNil(t, store.db)
}

func TestMigrations_IdempotentBootstrap(t *testing.T) {
	// Re-opening the same file must re-run bootstrap harmlessly.
	path := filepath.Join(t.TempDir(), "hubstash.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	doc := newDocument("health", "notes", "glucose levels")
	require.NoError(t, second.InsertDocument(context.Background(), doc))
}

func TestAddColumnIfMissing_DuplicateTolerated(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	// meta_json already exists after migrations; a second add is a no-op.
	err := addColumnIfMissing(ctx, store.db, "documents", "meta_json TEXT")
	assert.NoError(t, err)

	err = addColumnIfMissing(ctx, store.db, "documents", "extra_note TEXT")
	assert.NoError(t, err)
	err = addColumnIfMissing(ctx, store.db, "documents", "extra_note TEXT")
	assert.NoError(t, err)
}

func TestInsertDocument_RoundTrip(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	doc := newDocument("health", "labs", "glucose 5.4")
	doc.Meta = map[string]string{"ext": "txt", "pages": "2"}
	require.NoError(t, store.InsertDocument(ctx, doc))
	assert.False(t, doc.CreatedAt.IsZero())

	got, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.HubID, got.HubID)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.ContentHash, got.ContentHash)
	assert.Equal(t, map[string]string{"ext": "txt", "pages": "2"}, got.Meta)
}

func TestInsertDocument_DuplicateHashSameHub(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	first := newDocument("health", "a", "same text")
	require.NoError(t, store.InsertDocument(ctx, first))

	second := newDocument("health", "b", "same text")
	err := store.InsertDocument(ctx, second)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestInsertDocument_SameHashDifferentHub(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.InsertDocument(ctx, newDocument("health", "a", "same text")))
	require.NoError(t, store.InsertDocument(ctx, newDocument("papers", "b", "same text")))
}

func TestGetDocumentByHash(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	doc := newDocument("health", "notes", "glucose levels")
	require.NoError(t, store.InsertDocument(ctx, doc))

	got, err := store.GetDocumentByHash(ctx, "health", contenthash.Sum("glucose levels"))
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = store.GetDocumentByHash(ctx, "papers", contenthash.Sum("glucose levels"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetDocumentByHash(ctx, "health", contenthash.Sum("other"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertChunk_QuotesAndMetacharacters(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	doc := newDocument("notes", "tricky", "it's \"quoted\"; DROP TABLE chunks; --")
	require.NoError(t, store.InsertDocument(ctx, doc))

	chunk := newChunk(doc, 0, `it's "quoted"; DROP TABLE chunks; --`)
	require.NoError(t, store.InsertChunk(ctx, chunk))

	chunks, err := store.ListChunksByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, chunk.Text, chunks[0].Text)
}

func TestListChunksByDocument_OrdinalOrder(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	doc := newDocument("bio", "animals", "some text")
	require.NoError(t, store.InsertDocument(ctx, doc))
	require.NoError(t, store.InsertChunk(ctx, newChunk(doc, 2, "third")))
	require.NoError(t, store.InsertChunk(ctx, newChunk(doc, 0, "first")))
	require.NoError(t, store.InsertChunk(ctx, newChunk(doc, 1, "second")))

	chunks, err := store.ListChunksByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{chunks[0].Ord, chunks[1].Ord, chunks[2].Ord})
	assert.Equal(t, "first", chunks[0].Text)
}

func TestSearchChunks_GlobalAndScoped(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	health := newDocument("health", "labs", "glucose in blood")
	papers := newDocument("papers", "study", "glucose metabolism study")
	require.NoError(t, store.InsertDocument(ctx, health))
	require.NoError(t, store.InsertDocument(ctx, papers))
	require.NoError(t, store.InsertChunk(ctx, newChunk(health, 0, "glucose in blood")))
	require.NoError(t, store.InsertChunk(ctx, newChunk(papers, 0, "glucose metabolism study")))

	global, err := store.SearchChunks(ctx, "glucose", "", 20)
	require.NoError(t, err)
	assert.Len(t, global, 2)

	scoped, err := store.SearchChunks(ctx, "glucose", "health", 20)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "health", scoped[0].HubID)
	assert.Equal(t, health.ID, scoped[0].DocumentID)
}

func TestSearchChunks_Limit(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	doc := newDocument("bio", "words", "many water chunks")
	require.NoError(t, store.InsertDocument(ctx, doc))
	for i := 0; i < 5; i++ {
		require.NoError(t, store.InsertChunk(ctx, newChunk(doc, i, "fish live in water")))
	}

	hits, err := store.SearchChunks(ctx, "water", "", 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestDeleteDocument_CascadesToChunksAndIndex(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	doc := newDocument("bio", "animals", "cats are mammals")
	require.NoError(t, store.InsertDocument(ctx, doc))
	require.NoError(t, store.InsertChunk(ctx, newChunk(doc, 0, "cats are mammals")))

	require.NoError(t, store.DeleteDocument(ctx, doc.ID))

	_, err := store.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	chunks, err := store.ListChunksByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	// Index entries must go with the chunks.
	hits, err := store.SearchChunks(ctx, "mammals", "", 20)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	store := setupTestDB(t)
	err := store.DeleteDocument(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountChunksByHub(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	doc := newDocument("bio", "animals", "cats and dogs")
	require.NoError(t, store.InsertDocument(ctx, doc))
	require.NoError(t, store.InsertChunk(ctx, newChunk(doc, 0, "cats")))
	require.NoError(t, store.InsertChunk(ctx, newChunk(doc, 1, "dogs")))

	count, err := store.CountChunksByHub(ctx, "bio")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountChunksByHub(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTx_RollbackLeavesNoRows(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	doc := newDocument("bio", "animals", "cats are mammals")
	require.NoError(t, tx.InsertDocument(ctx, doc))
	require.NoError(t, tx.InsertChunk(ctx, newChunk(doc, 0, "cats are mammals")))
	require.NoError(t, tx.Rollback())

	_, err = store.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	hits, err := store.SearchChunks(ctx, "mammals", "", 20)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestTx_CommitMakesRowsVisible(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	doc := newDocument("bio", "animals", "dogs are loyal")
	require.NoError(t, tx.InsertDocument(ctx, doc))
	require.NoError(t, tx.InsertChunk(ctx, newChunk(doc, 0, "dogs are loyal")))
	require.NoError(t, tx.Commit())

	hits, err := store.SearchChunks(ctx, "loyal", "bio", 20)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, doc.ID, hits[0].DocumentID)
}
