// Package plugin provides the public API for huepick extraction engine plugins.
// External engines should import this package instead of internal packages.
package plugin

// PluginInfo contains metadata about an engine plugin. Plugins print it as
// JSON when invoked with --plugin-info.
type PluginInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
	PluginProtocol  string `json:"plugin_protocol"` // "json-stdio" or "go-plugin"
}
