// Package eventlog is a one-way sink for structured pipeline events. The
// ingest and search paths emit into it after each operation; nothing in
// the pipeline reads it back, so it never participates in correctness.
package eventlog

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hubstash/hubstash/pkg/types"
)

// DefaultMaxEvents bounds the in-memory ring.
const DefaultMaxEvents = 200

// Log is a bounded in-memory ring of events, mirrored to slog.
type Log struct {
	mu     sync.Mutex
	max    int
	events []types.Event
	logger *slog.Logger
}

// New creates a Log keeping at most maxEvents entries. Zero or negative
// uses DefaultMaxEvents; a nil logger uses slog.Default().
func New(maxEvents int, logger *slog.Logger) *Log {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{max: maxEvents, logger: logger}
}

// Record appends an event, dropping the oldest entries past the bound.
func (l *Log) Record(kind types.EventKind, message string, fields map[string]string) {
	event := types.Event{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		Fields:  fields,
		At:      time.Now(),
	}

	attrs := make([]any, 0, 2+2*len(fields))
	attrs = append(attrs, "kind", string(kind))
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	l.logger.Info(message, attrs...)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	if over := len(l.events) - l.max; over > 0 {
		l.events = l.events[over:]
	}
}

// Events returns a snapshot of the retained events, oldest first.
func (l *Log) Events() []types.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Clear discards all retained events.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
