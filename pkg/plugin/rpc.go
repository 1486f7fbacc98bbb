// Package plugin provides the public API for huepick extraction engine plugins.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"net/rpc"
	"strconv"
	"sync"

	"github.com/hashicorp/go-plugin"
)

// EngineRPC implements the go-plugin Plugin interface for engine plugins.
type EngineRPC struct {
	plugin.Plugin
	Impl Engine
}

// Server returns an RPC server for this plugin.
func (p *EngineRPC) Server(*plugin.MuxBroker) (any, error) {
	return NewEngineRPCServer(p.Impl), nil
}

// Client returns an RPC client for this plugin.
func (p *EngineRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &EngineRPCClient{client: c}, nil
}

// job buffers the events of one running extraction until the host polls.
type job struct {
	mu     sync.Mutex
	events []Payload
	done   bool
	err    string
	cancel context.CancelFunc
	notify chan struct{}
}

func (j *job) signal() {
	select {
	case j.notify <- struct{}{}:
	default:
	}
}

func (j *job) push(p Payload) {
	j.mu.Lock()
	j.events = append(j.events, p)
	j.mu.Unlock()
	j.signal()
}

func (j *job) finish(err error) {
	j.mu.Lock()
	j.done = true
	if err != nil {
		j.err = err.Error()
	}
	j.mu.Unlock()
	j.signal()
}

// drain blocks until at least one event is buffered or the run has ended.
func (j *job) drain() NextResponse {
	for {
		j.mu.Lock()
		if len(j.events) > 0 || j.done {
			resp := NextResponse{Events: j.events, Done: j.done, Err: j.err}
			j.events = nil
			j.mu.Unlock()
			return resp
		}
		j.mu.Unlock()
		<-j.notify
	}
}

// EngineRPCServer is the RPC server implementation for engine plugins.
// Extract runs in the background; the host collects its events with Next.
type EngineRPCServer struct {
	Impl Engine

	mu     sync.Mutex
	jobs   map[string]*job
	nextID int
}

// NewEngineRPCServer creates a server for impl.
func NewEngineRPCServer(impl Engine) *EngineRPCServer {
	return &EngineRPCServer{Impl: impl, jobs: make(map[string]*job)}
}

// Start implements the RPC method that begins an extraction and returns its job id.
func (s *EngineRPCServer) Start(req Request, resp *string) error {
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel, notify: make(chan struct{}, 1)}

	s.mu.Lock()
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.jobs[id] = j
	s.mu.Unlock()

	go func() {
		defer cancel()
		err := s.Impl.Extract(ctx, req, func(p Payload) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			j.push(p)
			return nil
		})
		j.finish(err)
	}()

	*resp = id
	return nil
}

// Next implements the RPC method that returns buffered events for a job.
// Once Done is reported the job is forgotten.
func (s *EngineRPCServer) Next(id string, resp *NextResponse) error {
	j, err := s.job(id)
	if err != nil {
		return err
	}

	*resp = j.drain()
	if resp.Done {
		s.mu.Lock()
		delete(s.jobs, id)
		s.mu.Unlock()
	}
	return nil
}

// Cancel implements the RPC method that stops a running job.
func (s *EngineRPCServer) Cancel(id string, resp *bool) error {
	j, err := s.job(id)
	if err != nil {
		return err
	}
	j.cancel()
	*resp = true
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *EngineRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

func (s *EngineRPCServer) job(id string) (*job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("unknown job: %s", id)
	}
	return j, nil
}

// EngineRPCClient is the RPC client implementation for engine plugins.
type EngineRPCClient struct {
	client *rpc.Client
}

// Start calls the remote Start method.
func (c *EngineRPCClient) Start(req Request) (string, error) {
	var id string
	err := c.client.Call("Plugin.Start", req, &id)
	return id, err
}

// Next calls the remote Next method. It blocks until the plugin has events
// or the run has ended.
func (c *EngineRPCClient) Next(id string) (NextResponse, error) {
	var resp NextResponse
	err := c.client.Call("Plugin.Next", id, &resp)
	return resp, err
}

// Cancel calls the remote Cancel method.
func (c *EngineRPCClient) Cancel(id string) error {
	var ok bool
	return c.client.Call("Plugin.Cancel", id, &ok)
}

// GetMetadata calls the remote GetMetadata method.
func (c *EngineRPCClient) GetMetadata() (PluginInfo, error) {
	var info PluginInfo
	err := c.client.Call("Plugin.GetMetadata", new(any), &info)
	return info, err
}

// RPCError represents an error returned from an RPC call.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}

// RunError converts the Err field of a NextResponse into an error.
func (r NextResponse) RunError() error {
	if r.Err == "" {
		return nil
	}
	return &RPCError{Message: r.Err}
}

// ErrNoFinal is reported when an engine returns without a final payload.
var ErrNoFinal = errors.New("engine finished without a final palette")
