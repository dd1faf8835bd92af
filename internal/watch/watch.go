// Package watch feeds the ingest pipeline from the filesystem: files
// created or modified under a watched directory are ingested into a
// designated hub. Repeat notifications for the same content are absorbed
// by the pipeline's dedup check, so the watcher needs no bookkeeping of
// its own.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/hubstash/hubstash/internal/ingest"
	"github.com/hubstash/hubstash/pkg/types"
)

// Watcher ingests files appearing in a watched directory.
type Watcher struct {
	coordinator *ingest.Coordinator
	log         *slog.Logger
}

// New creates a Watcher. A nil logger uses slog.Default().
func New(coordinator *ingest.Coordinator, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{coordinator: coordinator, log: logger}
}

// Watch ingests existing files under dir into hubKey, then blocks
// ingesting new and modified files until ctx is done. Per-file failures
// are logged, never fatal to the loop.
func (w *Watcher) Watch(ctx context.Context, dir, hubKey string, opts *ingest.Options) error {
	// Pick up whatever is already there before watching for changes.
	if _, err := w.coordinator.IngestDir(ctx, dir, hubKey, opts, 0); err != nil {
		return fmt.Errorf("initial sync of %s failed: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.ingestPath(ctx, event.Name, hubKey, opts)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "dir", dir, "error", err)
		}
	}
}

func (w *Watcher) ingestPath(ctx context.Context, path, hubKey string, opts *ingest.Options) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	result, err := w.coordinator.IngestFile(ctx, path, hubKey, opts)
	switch {
	case errors.Is(err, types.ErrUnsupportedInput), errors.Is(err, types.ErrEmptyContent):
		w.log.Debug("skipped file", "path", path, "reason", err)
	case err != nil:
		w.log.Warn("failed to ingest watched file", "path", path, "error", err)
	case result.Deduped:
		w.log.Debug("watched file already ingested", "path", path)
	default:
		w.log.Info("ingested watched file", "path", path, "hub", hubKey, "chunks", result.ChunkCount)
	}
}
