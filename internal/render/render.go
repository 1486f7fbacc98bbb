// Package render displays palettes produced by the palette pipeline.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/jmylchreest/huepick/internal/palette"
)

// Format selects a renderer.
type Format string

const (
	// FormatTerminal renders coloured swatches.
	FormatTerminal Format = "terminal"

	// FormatJSON renders the final view as indented JSON.
	FormatJSON Format = "json"

	// FormatJSONStream renders every view as a line of JSON.
	FormatJSONStream Format = "jsonl"
)

// ErrUnknownFormat is returned for an unrecognised format name.
var ErrUnknownFormat = errors.New("unknown output format")

// ValidFormats returns a list of valid format names.
func ValidFormats() []Format {
	return []Format{FormatTerminal, FormatJSON, FormatJSONStream}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range ValidFormats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid formats: %v)", ErrUnknownFormat, s, ValidFormats())
}

// Renderer is a palette.Renderer that remembers its first output error.
type Renderer interface {
	palette.Renderer
	Err() error
}

// New creates the renderer for format writing to w.
func New(format Format, w io.Writer) (Renderer, error) {
	switch format {
	case FormatTerminal:
		return NewTerminal(w), nil
	case FormatJSON:
		return NewJSON(w, false), nil
	case FormatJSONStream:
		return NewJSON(w, true), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
