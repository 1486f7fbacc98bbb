package render

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/jmylchreest/huepick/internal/palette"
)

// JSON writes views as JSON. By default only the final view is written,
// indented. In stream mode every view is written as one compact line.
type JSON struct {
	enc    *json.Encoder
	stream bool

	mu  sync.Mutex
	err error
}

// NewJSON creates a JSON renderer writing to w.
func NewJSON(w io.Writer, stream bool) *JSON {
	enc := json.NewEncoder(w)
	if !stream {
		enc.SetIndent("", "  ")
	}
	return &JSON{enc: enc, stream: stream}
}

// Render implements palette.Renderer.
func (j *JSON) Render(v palette.View) {
	if !v.Final && !j.stream {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return
	}
	j.err = j.enc.Encode(v)
}

// Err returns the first encoding or write error, if any.
func (j *JSON) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}
