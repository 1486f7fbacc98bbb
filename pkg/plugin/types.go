// Package plugin provides the public API for huepick extraction engine plugins.
package plugin

// Request describes one extraction run.
type Request struct {
	ImagePath string `json:"image_path"`
	Count     int    `json:"count"`
	Seed      uint64 `json:"seed,omitempty"`
}

// PaletteEntry is one cluster colour as sent by an engine. Channels are
// plain integers on the wire so hosts can reject out-of-range values.
type PaletteEntry struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Payload is a data event: the engine's current best cluster set, an
// optional parallel slice of cluster sizes, and whether it is the last one.
type Payload struct {
	Palette []PaletteEntry `json:"palette"`
	Sizes   []float64      `json:"sizes,omitempty"`
	Final   bool           `json:"final"`
}

// ErrorPayload is an error event.
type ErrorPayload struct {
	Msg string `json:"msg"`
}

// NextResponse carries the events an RPC engine produced since the last poll.
type NextResponse struct {
	Events []Payload
	Done   bool
	Err    string
}
