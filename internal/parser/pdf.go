//go:build !nopdf

package parser

import (
	"bytes"
	"strings"

	"code.sajari.com/docconv/v2"

	"github.com/hubstash/hubstash/pkg/types"
)

// pdfVariant extracts text from PDF files via docconv. Build with the
// nopdf tag to compile without the docconv toolchain; the variant then
// never accepts and PDFs fall through to the fallback.
type pdfVariant struct{}

func (pdfVariant) ParseFile(path string) (*types.ParsedDocument, error) {
	if extOf(path) != "pdf" {
		return nil, nil
	}
	res, err := docconv.ConvertPath(path)
	if err != nil {
		// Corrupt or unreadable PDF: decline rather than abort the chain.
		return nil, nil
	}
	text, pages := joinPages(res.Body)
	return &types.ParsedDocument{
		Title: titleStem(path),
		Text:  text,
		Meta:  map[string]any{"ext": "pdf", "pages": pages},
	}, nil
}

func (pdfVariant) ParseBytes(data []byte, name string) (*types.ParsedDocument, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, nil
	}
	res, err := docconv.Convert(bytes.NewReader(data), "application/pdf", true)
	if err != nil {
		return nil, nil
	}
	text, pages := joinPages(res.Body)
	return &types.ParsedDocument{
		Title: name,
		Text:  text,
		Meta:  map[string]any{"ext": "pdf", "pages": pages},
	}, nil
}

// joinPages rejoins extracted pages with newline separators and counts
// them. Page breaks arrive as form feeds from the extractor.
func joinPages(body string) (string, int) {
	pages := strings.Split(body, "\f")
	// Extraction commonly leaves a trailing form feed.
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return strings.Join(pages, "\n"), len(pages)
}
