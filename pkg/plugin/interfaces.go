// Package plugin provides the public API for huepick extraction engine plugins.
package plugin

import (
	"context"
)

// Engine is the interface that engine plugins must implement for go-plugin RPC.
type Engine interface {
	// Extract clusters the image described by req. It calls emit for every
	// improved cluster set and must send exactly one Payload with Final set,
	// last. Returning an error ends the run and is reported as an error event.
	Extract(ctx context.Context, req Request, emit func(Payload) error) error

	// GetMetadata returns plugin metadata.
	GetMetadata() PluginInfo
}
