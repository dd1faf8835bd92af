package parser

import (
	"os"
	"unicode/utf8"

	"github.com/hubstash/hubstash/pkg/types"
)

// fallbackVariant attempts a raw UTF-8 decode regardless of extension.
// It is the catch-all: on an unreadable file or invalid encoding it
// declines, letting the registry report the input as unsupported.
type fallbackVariant struct{}

func (fallbackVariant) ParseFile(path string) (*types.ParsedDocument, error) {
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
		Meta:  map[string]any{"ext": extOf(path), "fallback": true},
	}, nil
}

func (fallbackVariant) ParseBytes(data []byte, name string) (*types.ParsedDocument, error) {
	if !utf8.Valid(data) {
		return nil, nil
	}
	return &types.ParsedDocument{
		Title: name,
		Text:  string(data),
		Meta:  map[string]any{"fallback": true},
	}, nil
}
