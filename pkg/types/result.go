package types

// IngestResult summarizes one document's path through the ingest pipeline.
// A deduplicated ingest is a successful outcome: Deduped is true,
// DocumentID is empty and ChunkCount is zero.
type IngestResult struct {
	DocumentID string
	Title      string
	ChunkCount int
	Deduped    bool
}

// Hit is a single full-text search match. HubID identifies which hub the
// chunk came from so callers can label results in a global search.
type Hit struct {
	ChunkID    string
	DocumentID string
	HubID      string
	Text       string
}
