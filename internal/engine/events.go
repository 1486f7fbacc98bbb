// Package engine connects extraction engines to the palette pipeline.
//
// Engines publish cluster batches and error reports onto a Bus, tagged with
// the session they belong to. Payloads are validated here, at the boundary,
// so the pipeline only ever sees well-formed clusters.
package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/jmylchreest/huepick/internal/colour"
	"github.com/jmylchreest/huepick/pkg/plugin"
)

// Wire types are shared with out-of-tree engines.
type (
	Payload      = plugin.Payload
	PaletteEntry = plugin.PaletteEntry
	ErrorPayload = plugin.ErrorPayload
)

// SessionID identifies one extraction session.
type SessionID string

// NewSessionID returns a fresh random session identity.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// Short returns the first eight characters, for logs.
func (id SessionID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// DataEvent is a cluster batch for a session.
type DataEvent struct {
	Session SessionID
	Payload
}

// ErrorEvent is an engine failure report for a session.
type ErrorEvent struct {
	Session SessionID
	ErrorPayload
}

// Error implements the error interface.
func (e ErrorEvent) Error() string {
	return fmt.Sprintf("engine error (session %s): %s", e.Session.Short(), e.Msg)
}

var (
	// ErrMalformedEntry marks a single palette entry that was skipped.
	ErrMalformedEntry = errors.New("malformed palette entry")

	// ErrMalformedPayload marks a line that is neither a data nor an error event.
	ErrMalformedPayload = errors.New("malformed event payload")
)

// Clusters validates the payload and returns its usable clusters in order.
// Entries with channels outside [0,255], a missing size or a negative size
// are skipped and reported individually; the rest of the batch survives.
// A payload without sizes gives every cluster a weight of 1.
func (e DataEvent) Clusters() ([]colour.Cluster, []error) {
	clusters := make([]colour.Cluster, 0, len(e.Palette))
	var skipped []error

	if e.Sizes != nil && len(e.Sizes) != len(e.Palette) {
		skipped = append(skipped, fmt.Errorf("%w: %d sizes for %d colours", ErrMalformedEntry, len(e.Sizes), len(e.Palette)))
	}

	for i, entry := range e.Palette {
		rgb, ok := entryRGB(entry)
		if !ok {
			skipped = append(skipped, fmt.Errorf("%w: index %d: channel out of range (%d, %d, %d)", ErrMalformedEntry, i, entry.R, entry.G, entry.B))
			continue
		}

		size := 1.0
		if e.Sizes != nil {
			if i >= len(e.Sizes) {
				skipped = append(skipped, fmt.Errorf("%w: index %d: no size", ErrMalformedEntry, i))
				continue
			}
			size = e.Sizes[i]
			if size < 0 || math.IsNaN(size) {
				skipped = append(skipped, fmt.Errorf("%w: index %d: invalid size %v", ErrMalformedEntry, i, size))
				continue
			}
		}

		clusters = append(clusters, colour.Cluster{RGB: rgb, Size: size})
	}

	return clusters, skipped
}

// entryRGB converts a wire entry, rejecting channels outside [0,255].
func entryRGB(p PaletteEntry) (colour.RGB, bool) {
	for _, v := range [3]int{p.R, p.G, p.B} {
		if v < 0 || v > 255 {
			return colour.RGB{}, false
		}
	}
	return colour.RGB{R: uint8(p.R), G: uint8(p.G), B: uint8(p.B)}, true
}

// PayloadFromClusters builds a wire payload from typed clusters.
func PayloadFromClusters(clusters []colour.Cluster, final bool) Payload {
	p := Payload{
		Palette: make([]PaletteEntry, len(clusters)),
		Sizes:   make([]float64, len(clusters)),
		Final:   final,
	}
	for i, c := range clusters {
		p.Palette[i] = PaletteEntry{R: int(c.RGB.R), G: int(c.RGB.G), B: int(c.RGB.B)}
		p.Sizes[i] = c.Size
	}
	return p
}

// wireEvent is the union of both event shapes, used only for decoding.
type wireEvent struct {
	Palette *[]PaletteEntry `json:"palette"`
	Sizes   []float64       `json:"sizes"`
	Final   bool            `json:"final"`
	Msg     *string         `json:"msg"`
}

// DecodeEvent decodes one JSON event as produced by a json-stdio engine.
// Exactly one of the returned pointers is non-nil on success.
func DecodeEvent(line []byte) (*Payload, *ErrorPayload, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil, fmt.Errorf("%w: empty line", ErrMalformedPayload)
	}

	var w wireEvent
	if err := json.Unmarshal(line, &w); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch {
	case w.Msg != nil:
		return nil, &ErrorPayload{Msg: *w.Msg}, nil
	case w.Palette != nil:
		return &Payload{Palette: *w.Palette, Sizes: w.Sizes, Final: w.Final}, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: neither palette nor msg present", ErrMalformedPayload)
	}
}
