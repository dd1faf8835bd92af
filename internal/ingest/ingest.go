package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hubstash/hubstash/internal/chunker"
	"github.com/hubstash/hubstash/internal/contenthash"
	"github.com/hubstash/hubstash/internal/eventlog"
	"github.com/hubstash/hubstash/internal/parser"
	"github.com/hubstash/hubstash/internal/storage"
	"github.com/hubstash/hubstash/pkg/types"
)

// ErrHubKeyRequired is returned when the target hub key is blank.
var ErrHubKeyRequired = errors.New("hub key required")

// DefaultSource labels raw-text ingests with no file origin.
const DefaultSource = "manual"

// Options tune one ingest call. The zero value selects the defaults.
type Options struct {
	TargetChunkChars int    // maximum chunk size, default chunker.DefaultTargetChars
	Source           string // source label for raw text, default "manual"
}

func (o *Options) targetChars() int {
	if o == nil || o.TargetChunkChars <= 0 {
		return chunker.DefaultTargetChars
	}
	return o.TargetChunkChars
}

func (o *Options) source() string {
	if o == nil || o.Source == "" {
		return DefaultSource
	}
	return o.Source
}

// Coordinator is the single entry point orchestrating a document's path
// from raw input to durable, searchable storage:
// parse -> trim -> hash -> dedup check -> chunk -> persist, with the
// document row, chunk rows and index entries committed in one
// transaction.
type Coordinator struct {
	store    storage.Store
	registry *parser.Registry
	events   *eventlog.Log
	log      *slog.Logger
}

// New creates a Coordinator. events may be nil to disable the event
// side-channel; a nil logger uses slog.Default().
func New(store storage.Store, events *eventlog.Log, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:    store,
		registry: parser.New(),
		events:   events,
		log:      logger,
	}
}

// IngestFile parses the file at path and ingests it into the hub.
func (c *Coordinator) IngestFile(ctx context.Context, path, hubKey string, opts *Options) (*types.IngestResult, error) {
	parsed, err := c.registry.ParseFile(path)
	if err != nil {
		c.recordError(hubKey, path, err)
		return nil, err
	}
	source := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return c.ingestParsed(ctx, parsed, hubKey, source, filepath.Base(path), opts.targetChars())
}

// IngestRawText ingests pasted or programmatic text under the given
// title. The origin URI is left empty.
func (c *Coordinator) IngestRawText(ctx context.Context, text, title, hubKey string, opts *Options) (*types.IngestResult, error) {
	parsed := &types.ParsedDocument{
		Title: title,
		Text:  text,
		Meta:  map[string]any{"source": opts.source()},
	}
	return c.ingestParsed(ctx, parsed, hubKey, opts.source(), "", opts.targetChars())
}

func (c *Coordinator) ingestParsed(ctx context.Context, parsed *types.ParsedDocument, hubKey, source, uri string, targetChars int) (*types.IngestResult, error) {
	if strings.TrimSpace(hubKey) == "" {
		return nil, ErrHubKeyRequired
	}

	text := strings.TrimSpace(parsed.Text)
	if text == "" {
		c.recordError(hubKey, parsed.Title, types.ErrEmptyContent)
		return nil, types.ErrEmptyContent
	}

	hash := contenthash.Sum(text)

	// Dedup: byte-identical normalized text in the same hub is a normal,
	// non-error outcome.
	existing, err := c.store.GetDocumentByHash(ctx, hubKey, hash)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("dedup lookup failed: %w", err)
	}
	if existing != nil {
		return c.dedupedResult(hubKey, parsed.Title), nil
	}

	doc := &storage.Document{
		ID:          uuid.NewString(),
		HubID:       hubKey,
		Source:      source,
		URI:         uri,
		Title:       parsed.Title,
		MIME:        mimeFor(source),
		Meta:        parsed.StringMeta(),
		ContentHash: hash,
	}
	pieces := chunker.New(targetChars).Split(text)

	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin ingest transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.InsertDocument(ctx, doc); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// A concurrent ingest won the (hub, hash) uniqueness race.
			return c.dedupedResult(hubKey, parsed.Title), nil
		}
		return nil, err
	}

	for ord, piece := range pieces {
		chunk := &storage.Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			HubID:      hubKey,
			Ord:        ord,
			Text:       piece,
			Meta:       map[string]string{},
		}
		if err := tx.InsertChunk(ctx, chunk); err != nil {
			return nil, fmt.Errorf("failed to persist chunk %d: %w", ord, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ingest: %w", err)
	}

	result := &types.IngestResult{
		DocumentID: doc.ID,
		Title:      parsed.Title,
		ChunkCount: len(pieces),
	}
	c.record(types.EventIngestSuccess, "document ingested", map[string]string{
		"hub":    hubKey,
		"title":  parsed.Title,
		"chunks": strconv.Itoa(len(pieces)),
	})
	return result, nil
}

func (c *Coordinator) dedupedResult(hubKey, title string) *types.IngestResult {
	c.record(types.EventIngestDuplicate, "duplicate content skipped", map[string]string{
		"hub":   hubKey,
		"title": title,
	})
	return &types.IngestResult{Title: title, Deduped: true}
}

func (c *Coordinator) record(kind types.EventKind, msg string, fields map[string]string) {
	if c.events != nil {
		c.events.Record(kind, msg, fields)
	}
}

func (c *Coordinator) recordError(hubKey, input string, err error) {
	c.log.Warn("ingest failed", "hub", hubKey, "input", input, "error", err)
	c.record(types.EventIngestError, "ingest failed", map[string]string{
		"hub":   hubKey,
		"input": input,
		"error": err.Error(),
	})
}

// mimeFor maps a source label to a type hint.
func mimeFor(source string) string {
	switch source {
	case "pdf":
		return "application/pdf"
	case "md", "markdown":
		return "text/markdown"
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	default:
		return "text/plain"
	}
}
