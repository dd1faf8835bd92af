package types

import "errors"

// Pipeline errors returned by the ingest coordinator and parser registry.
var (
	// ErrUnsupportedInput is returned when no parser variant accepts the input.
	ErrUnsupportedInput = errors.New("unsupported or unreadable input")

	// ErrEmptyContent is returned when normalized text is blank after trimming.
	ErrEmptyContent = errors.New("empty content")
)
