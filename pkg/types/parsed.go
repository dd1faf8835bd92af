package types

import "fmt"

// ParsedDocument is the normalized output of a parser variant: a title,
// the extracted UTF-8 text, and open string-keyed metadata. Meta values
// may be heterogeneous (strings, booleans, numbers); they are coerced to
// strings before persistence.
type ParsedDocument struct {
	Title string
	Text  string
	Meta  map[string]any
}

// StringMeta returns the metadata with every value coerced to its string
// representation, suitable for JSON serialization at rest.
func (p *ParsedDocument) StringMeta() map[string]string {
	if len(p.Meta) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(p.Meta))
	for k, v := range p.Meta {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
