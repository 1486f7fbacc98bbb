package palette

import (
	"errors"
	"fmt"

	"github.com/jmylchreest/huepick/internal/engine"
)

var (
	// ErrStaleEvent is returned for an event that does not belong to the
	// active session, or arrives after that session was finalized.
	ErrStaleEvent = errors.New("stale event")

	// ErrMalformedEvent is returned when no entry of a non-empty data event
	// could be used.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrNoSession is returned when an operation needs an active session.
	ErrNoSession = errors.New("no active session")

	// ErrUnknownColour is returned by Select for a key that is not on display.
	ErrUnknownColour = errors.New("unknown colour")

	// ErrSuperseded is returned by Wait when a newer session replaced the one
	// being waited on.
	ErrSuperseded = errors.New("session superseded")

	// ErrNoFinal is returned by Wait when the engine stopped without sending
	// a final event or an error.
	ErrNoFinal = errors.New("engine stopped without a final palette")

	// ErrClosed is returned once the pipeline has been closed.
	ErrClosed = errors.New("pipeline closed")
)

// EngineError is an error event reported by the engine for a session.
type EngineError struct {
	Session engine.SessionID
	Msg     string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("engine error in session %s: %s", e.Session.Short(), e.Msg)
}
