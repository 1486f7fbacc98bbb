// Package external runs extraction engines as separate executables.
//
// An engine executable describes itself with --plugin-info. Engines built
// against pkg/plugin speak HashiCorp go-plugin net/rpc; anything else reads a
// plugin.Request as JSON on stdin and writes one JSON event per line to
// stdout.
package external

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/huepick/internal/engine"
	"github.com/jmylchreest/huepick/pkg/plugin"
)

// Engine is an engine.Engine backed by an external executable.
type Engine struct {
	path         string
	protocolType plugin.PluginType
	info         plugin.PluginInfo
	seed         uint64
	logger       hclog.Logger
	runner       ProcessRunner
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The go-plugin client logs under a "plugin"
// sub-logger.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSeed passes a fixed seed to the engine.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithRunner replaces the process runner used for protocol detection.
func WithRunner(runner ProcessRunner) Option {
	return func(e *Engine) {
		e.runner = runner
	}
}

// New creates an Engine for the executable at path by detecting its protocol.
func New(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	e := &Engine{
		path:   path,
		logger: hclog.NewNullLogger(),
		runner: NewRealProcessRunner(),
	}
	for _, opt := range opts {
		opt(e)
	}

	result, err := Detect(ctx, e.runner, path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect engine protocol: %w", err)
	}
	e.protocolType = result.Type
	e.info = result.Info

	e.logger.Debug("detected external engine",
		"path", path,
		"name", e.Name(),
		"protocol", e.protocolType,
		"version", e.info.Version)

	return e, nil
}

// Name returns the name the engine reports, or the executable name.
func (e *Engine) Name() string {
	if e.info.Name != "" {
		return e.info.Name
	}
	return filepath.Base(e.path)
}

// Info returns the metadata reported by --plugin-info.
func (e *Engine) Info() plugin.PluginInfo {
	return e.info
}

// Protocol returns the detected protocol.
func (e *Engine) Protocol() plugin.PluginType {
	return e.protocolType
}

// Run implements engine.Engine. External engines load the image themselves,
// so job.Path must be set.
func (e *Engine) Run(ctx context.Context, job engine.Job, sink engine.Sink) error {
	if job.Path == "" {
		return fmt.Errorf("external engines need an image path")
	}
	req := plugin.Request{ImagePath: job.Path, Count: job.Count, Seed: e.seed}

	switch e.protocolType {
	case plugin.PluginTypeGoPlugin:
		return e.runGoPlugin(ctx, req, sink)
	case plugin.PluginTypeJSON:
		return e.runJSON(ctx, req, sink)
	default:
		return fmt.Errorf("unsupported protocol type: %s", e.protocolType)
	}
}

// --- Go-Plugin RPC ---

// jobClient is the part of plugin.EngineRPCClient that streaming needs.
type jobClient interface {
	Next(id string) (plugin.NextResponse, error)
	Cancel(id string) error
}

func (e *Engine) runGoPlugin(ctx context.Context, req plugin.Request, sink engine.Sink) error {
	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: plugin.Handshake,
		Plugins: map[string]goplugin.Plugin{
			plugin.PluginName: &plugin.EngineRPC{},
		},
		Cmd:              exec.Command(e.path),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           e.logger.Named("plugin"),
	})
	defer client.Kill()

	rpcClient, err := client.Client()
	if err != nil {
		return fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(plugin.PluginName)
	if err != nil {
		return fmt.Errorf("failed to dispense engine: %w", err)
	}
	rpcEngine, ok := raw.(*plugin.EngineRPCClient)
	if !ok {
		return fmt.Errorf("unexpected engine client type %T", raw)
	}

	id, err := rpcEngine.Start(req)
	if err != nil {
		return fmt.Errorf("failed to start extraction: %w", err)
	}

	return stream(ctx, rpcEngine, id, sink)
}

// stream polls a running job and forwards its events to sink until the
// job is done. Cancelling ctx cancels the remote job.
func stream(ctx context.Context, c jobClient, id string, sink engine.Sink) error {
	stop := context.AfterFunc(ctx, func() {
		_ = c.Cancel(id)
	})
	defer stop()

	final := false
	for {
		resp, err := c.Next(id)
		if err != nil {
			return fmt.Errorf("failed to poll engine: %w", err)
		}

		for _, p := range resp.Events {
			if final {
				break
			}
			if err := sink.Data(ctx, p); err != nil {
				return err
			}
			final = p.Final
		}

		if !resp.Done {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := resp.RunError(); err != nil {
			return err
		}
		if !final {
			return plugin.ErrNoFinal
		}
		return nil
	}
}
