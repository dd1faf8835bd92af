// Package parser converts opaque inputs (file paths or raw byte buffers)
// into normalized text plus metadata.
//
// Parsing is polymorphic over a small ordered list of variants, tried in
// priority order until one accepts the input:
//
//  1. plain text  - recognized extensions, strict UTF-8 decode
//  2. PDF         - extension .pdf, text extraction via docconv
//     (absent under the nopdf build tag; the variant then
//     simply never accepts)
//  3. fallback    - raw UTF-8 decode regardless of extension, tagged
//     with fallback=true in metadata
//
// A variant that does not handle an input declines by returning (nil, nil).
// When every variant declines the registry reports
// types.ErrUnsupportedInput.
package parser
