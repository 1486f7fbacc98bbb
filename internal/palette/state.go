package palette

import (
	"fmt"

	"github.com/jmylchreest/huepick/internal/colour"
	"github.com/jmylchreest/huepick/internal/engine"
)

// State is the lifecycle state of the active session.
type State int

const (
	// StateIdle means no session is active.
	StateIdle State = iota

	// StateListening means a session started and no usable batch arrived yet.
	StateListening

	// StateAccumulating means at least one non-final batch arrived.
	StateAccumulating

	// StateFinalized means the final batch arrived and was reduced.
	StateFinalized
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateAccumulating:
		return "accumulating"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is a snapshot of one extraction life cycle.
type Session struct {
	ID engine.SessionID

	// Accumulated is the latest batch, classified, in arrival order.
	Accumulated []colour.ClassifiedColour

	// Final is set once the final batch has been received.
	Final bool

	// Batches counts the data events accepted so far.
	Batches int

	State State
}

// View is what the renderer is given. Colours are unranked while the session
// is loading and ranked once it is final.
type View struct {
	Session engine.SessionID          `json:"session,omitempty"`
	Colours []colour.ClassifiedColour `json:"colours"`
	Loading bool                      `json:"loading"`
	Final   bool                      `json:"final"`
	State   State                     `json:"state"`
}

// Renderer displays palette views. Render is called with the pipeline's lock
// held, in event order, so it must not call back into the Pipeline.
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(View)

// Render implements Renderer.
func (f RendererFunc) Render(v View) { f(v) }
