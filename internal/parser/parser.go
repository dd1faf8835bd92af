package parser

import (
	"path/filepath"
	"strings"

	"github.com/hubstash/hubstash/pkg/types"
)

// Variant is one parsing strategy. Implementations decline an input they
// do not handle by returning (nil, nil); errors are reserved for states
// the registry cannot recover from by trying the next variant.
type Variant interface {
	ParseFile(path string) (*types.ParsedDocument, error)
	ParseBytes(data []byte, name string) (*types.ParsedDocument, error)
}

// Registry tries its variants in a fixed priority order and returns the
// first successful parse.
type Registry struct {
	variants []Variant
}

// New creates a Registry with the default variant order:
// plain text, PDF, fallback.
func New() *Registry {
	return &Registry{
		variants: []Variant{plainTextVariant{}, pdfVariant{}, fallbackVariant{}},
	}
}

// ParseFile parses the file at path with the first accepting variant.
// Returns types.ErrUnsupportedInput when every variant declines.
func (r *Registry) ParseFile(path string) (*types.ParsedDocument, error) {
	for _, v := range r.variants {
		doc, err := v.ParseFile(path)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			return doc, nil
		}
	}
	return nil, types.ErrUnsupportedInput
}

// ParseBytes parses a raw buffer. name is advisory and becomes the title
// when no better one can be derived.
func (r *Registry) ParseBytes(data []byte, name string) (*types.ParsedDocument, error) {
	for _, v := range r.variants {
		doc, err := v.ParseBytes(data, name)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			return doc, nil
		}
	}
	return nil, types.ErrUnsupportedInput
}

// titleStem returns the base filename without its extension.
func titleStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// extOf returns the lowercased extension without the leading dot.
func extOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
