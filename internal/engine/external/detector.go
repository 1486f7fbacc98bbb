package external

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/huepick/pkg/plugin"
)

// detectTimeout bounds the --plugin-info query.
const detectTimeout = 5 * time.Second

// DetectorResult contains information about a detected engine protocol.
type DetectorResult struct {
	// Type indicates which protocol the engine uses.
	Type plugin.PluginType

	// Info contains metadata from --plugin-info.
	Info plugin.PluginInfo
}

// Detect queries the executable at path with --plugin-info and works out
// which protocol it speaks. An empty plugin_protocol means json-stdio.
func Detect(ctx context.Context, runner ProcessRunner, path string) (*DetectorResult, error) {
	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	stdout, stderr, err := runner.Run(ctx, path, []string{"--plugin-info"}, nil)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return nil, fmt.Errorf("failed to query engine: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("failed to query engine: %w", err)
	}

	var info plugin.PluginInfo
	if err := json.Unmarshal(stdout, &info); err != nil {
		return nil, fmt.Errorf("failed to parse engine info: %w", err)
	}

	result := &DetectorResult{Info: info}
	switch plugin.PluginType(info.PluginProtocol) {
	case plugin.PluginTypeGoPlugin:
		result.Type = plugin.PluginTypeGoPlugin
	case plugin.PluginTypeJSON, "":
		result.Type = plugin.PluginTypeJSON
	default:
		return nil, fmt.Errorf("unknown plugin_protocol: %s", info.PluginProtocol)
	}

	if info.ProtocolVersion != "" {
		if _, err := IsCompatible(info.ProtocolVersion); err != nil {
			return nil, err
		}
	}

	return result, nil
}
