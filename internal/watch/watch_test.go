package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubstash/hubstash/internal/ingest"
	"github.com/hubstash/hubstash/internal/storage"
)

func setup(t *testing.T) (*Watcher, *storage.SQLiteStore) {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(ingest.New(store, nil, nil), nil), store
}

func TestWatch_InitialSync(t *testing.T) {
	w, store := setup(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre.txt"), []byte("Existing file."), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, dir, "inbox", nil) }()

	require.Eventually(t, func() bool {
		docs, err := store.ListDocumentsByHub(context.Background(), "inbox")
		return err == nil && len(docs) == 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatch_IngestsNewFiles(t *testing.T) {
	w, store := setup(t)

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx, dir, "inbox", nil) }()

	// Give the watcher time to register before creating the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("Fresh content."), 0644))

	require.Eventually(t, func() bool {
		docs, err := store.ListDocumentsByHub(context.Background(), "inbox")
		return err == nil && len(docs) == 1
	}, 5*time.Second, 20*time.Millisecond)
}
