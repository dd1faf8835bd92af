//go:build nopdf

package parser

import "github.com/hubstash/hubstash/pkg/types"

// pdfVariant under the nopdf tag: the rich-document decoder is absent,
// so the variant declines every input.
type pdfVariant struct{}

func (pdfVariant) ParseFile(string) (*types.ParsedDocument, error) {
	return nil, nil
}

func (pdfVariant) ParseBytes([]byte, string) (*types.ParsedDocument, error) {
	return nil, nil
}
