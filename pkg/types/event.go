package types

import "time"

// EventKind classifies pipeline events emitted into the event sink.
type EventKind string

const (
	EventIngestSuccess   EventKind = "ingest_success"
	EventIngestDuplicate EventKind = "ingest_duplicate"
	EventIngestError     EventKind = "ingest_error"
	EventSearchRun       EventKind = "search_run"
	EventSearchError     EventKind = "search_error"
	EventSystem          EventKind = "system"
)

// Event is one structured pipeline event. Events are advisory: the core
// pipeline emits them after each operation but never depends on them.
type Event struct {
	ID      string
	Kind    EventKind
	Message string
	Fields  map[string]string
	At      time.Time
}
