// Package search executes lexical full-text queries over chunk text,
// globally or scoped to one hub.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hubstash/hubstash/internal/eventlog"
	"github.com/hubstash/hubstash/internal/storage"
	"github.com/hubstash/hubstash/pkg/types"
)

// DefaultLimit caps result sets when the caller doesn't supply a limit.
const DefaultLimit = 20

// Service runs read-only queries against the store. Queries may run
// concurrently with each other and with ingest.
type Service struct {
	store  storage.Store
	events *eventlog.Log
	log    *slog.Logger
}

// New creates a Service. events may be nil; a nil logger uses
// slog.Default().
func New(store storage.Store, events *eventlog.Log, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, events: events, log: logger}
}

// Search returns chunks matching term. A non-empty hubKey restricts the
// query to that hub; empty means global. A blank term returns an empty
// result without touching storage. limit <= 0 selects DefaultLimit.
// Ordering is the index's relevance order; no secondary sort is imposed.
func (s *Service) Search(ctx context.Context, term, hubKey string, limit int) ([]types.Hit, error) {
	if strings.TrimSpace(term) == "" {
		return []types.Hit{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	hits, err := s.store.SearchChunks(ctx, term, hubKey, limit)
	if err != nil {
		s.log.Warn("search failed", "term", term, "hub", hubKey, "error", err)
		s.record(types.EventSearchError, "search failed", map[string]string{
			"term":  term,
			"hub":   hubKey,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("query failed: %w", err)
	}

	s.record(types.EventSearchRun, "search executed", map[string]string{
		"term": term,
		"hub":  hubKey,
		"hits": strconv.Itoa(len(hits)),
	})
	return hits, nil
}

func (s *Service) record(kind types.EventKind, msg string, fields map[string]string) {
	if s.events != nil {
		s.events.Record(kind, msg, fields)
	}
}
