package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BulkStats summarizes a bulk import run.
type BulkStats struct {
	Ingested   int
	Deduped    int
	Failed     int
	ChunkCount int
	Errors     []string
}

// IngestDir walks root and ingests every regular file into the hub.
// Hidden files and directories are skipped. Each file is its own
// transaction and failure unit: one bad document never aborts the
// documents already committed, its error is collected in the stats.
func (c *Coordinator) IngestDir(ctx context.Context, root, hubKey string, opts *Options, workers int) (*BulkStats, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	stats := &BulkStats{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := c.IngestFile(gctx, path, hubKey, opts)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				stats.Failed++
				stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", path, err))
			case result.Deduped:
				stats.Deduped++
			default:
				stats.Ingested++
				stats.ChunkCount += result.ChunkCount
			}
			// Per-file failures don't cancel the rest of the run.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}
