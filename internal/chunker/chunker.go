// Package chunker splits normalized document text into bounded-size
// retrieval units, preferring sentence boundaries. The split is a lexical
// heuristic: segments are never divided mid-sentence, so a single segment
// longer than the target is emitted whole.
package chunker

import "strings"

// DefaultTargetChars is the default maximum chunk size in characters.
const DefaultTargetChars = 600

// Chunker accumulates sentence-like segments into chunks of at most
// TargetChars characters.
type Chunker struct {
	TargetChars int
}

// New creates a Chunker with the given target size. Zero or negative
// falls back to DefaultTargetChars.
func New(targetChars int) *Chunker {
	if targetChars <= 0 {
		targetChars = DefaultTargetChars
	}
	return &Chunker{TargetChars: targetChars}
}

// Split divides text into ordered chunks. Empty or whitespace-only input
// yields no chunks.
func (c *Chunker) Split(text string) []string {
	segments := splitSentences(text)
	if len(segments) == 0 {
		return nil
	}

	chunks := make([]string, 0, len(segments))
	var buf strings.Builder
	for _, seg := range segments {
		if buf.Len() > 0 && buf.Len()+len(seg)+1 > c.TargetChars {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(seg)
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}

// splitSentences breaks text on sentence-terminal punctuation, trimming
// whitespace and dropping empty segments.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
