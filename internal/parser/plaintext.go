package parser

import (
	"os"
	"unicode/utf8"

	"github.com/hubstash/hubstash/pkg/types"
)

// plainTextExts are the extensions the plain-text variant recognizes.
var plainTextExts = map[string]bool{
	"txt":      true,
	"md":       true,
	"markdown": true,
	"csv":      true,
	"log":      true,
	"json":     true,
	"yaml":     true,
	"yml":      true,
}

// plainTextVariant decodes recognized text-like extensions as strict
// UTF-8. Unreadable files and invalid encodings fail over to the next
// variant rather than erroring.
type plainTextVariant struct{}

func (plainTextVariant) ParseFile(path string) (*types.ParsedDocument, error) {
	ext := extOf(path)
	if !plainTextExts[ext] {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	if !utf8.Valid(data) {
		return nil, nil
	}
	return &types.ParsedDocument{
		Title: titleStem(path),
		Text:  string(data),
		Meta:  map[string]any{"ext": ext},
	}, nil
}

func (plainTextVariant) ParseBytes(data []byte, name string) (*types.ParsedDocument, error) {
	if !utf8.Valid(data) {
		return nil, nil
	}
	return &types.ParsedDocument{
		Title: name,
		Text:  string(data),
		Meta:  map[string]any{"inferred": true},
	}, nil
}
