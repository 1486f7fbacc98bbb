package plugin

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Mock implementations for testing.
type mockEngine struct {
	payloads   []Payload
	metadata   PluginInfo
	extractErr error
	block      bool
}

func (m *mockEngine) Extract(ctx context.Context, _ Request, emit func(Payload) error) error {
	for _, p := range m.payloads {
		if err := emit(p); err != nil {
			return err
		}
	}
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.extractErr
}

func (m *mockEngine) GetMetadata() PluginInfo {
	return m.metadata
}

// collect polls Next until the job reports Done.
func collect(t *testing.T, server *EngineRPCServer, id string) ([]Payload, NextResponse) {
	t.Helper()

	var events []Payload
	deadline := time.After(5 * time.Second)
	for {
		done := make(chan NextResponse, 1)
		errc := make(chan error, 1)
		go func() {
			var resp NextResponse
			if err := server.Next(id, &resp); err != nil {
				errc <- err
				return
			}
			done <- resp
		}()

		select {
		case resp := <-done:
			events = append(events, resp.Events...)
			if resp.Done {
				return events, resp
			}
		case err := <-errc:
			t.Fatalf("Next() error = %v", err)
		case <-deadline:
			t.Fatal("Next() did not finish in time")
		}
	}
}

// TestEngineRPC tests the engine plugin RPC wrapper.
func TestEngineRPC(t *testing.T) {
	mock := &mockEngine{
		metadata: PluginInfo{
			Name:            "test-engine",
			Version:         "1.0.0",
			ProtocolVersion: ProtocolVersion,
			Description:     "Test engine",
			PluginProtocol:  string(PluginTypeGoPlugin),
		},
	}

	rpc := &EngineRPC{Impl: mock}

	t.Run("Server", func(t *testing.T) {
		server, err := rpc.Server(nil)
		if err != nil {
			t.Fatalf("Server() error = %v", err)
		}
		rpcServer, ok := server.(*EngineRPCServer)
		if !ok {
			t.Fatal("Server() returned wrong type")
		}
		if rpcServer.Impl != mock {
			t.Fatal("Server() impl not set correctly")
		}
	})

	t.Run("Client", func(t *testing.T) {
		client, err := rpc.Client(nil, nil)
		if err != nil {
			t.Fatalf("Client() error = %v", err)
		}
		if _, ok := client.(*EngineRPCClient); !ok {
			t.Fatal("Client() returned wrong type")
		}
	})
}

// TestEngineRPCServer tests the RPC server methods.
func TestEngineRPCServer(t *testing.T) {
	t.Run("StreamsPayloads", func(t *testing.T) {
		mock := &mockEngine{
			payloads: []Payload{
				{Palette: []PaletteEntry{{R: 1, G: 2, B: 3}}},
				{Palette: []PaletteEntry{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}, Sizes: []float64{0.5, 0.5}, Final: true},
			},
		}
		server := NewEngineRPCServer(mock)

		var id string
		if err := server.Start(Request{ImagePath: "photo.png", Count: 2}, &id); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if id == "" {
			t.Fatal("Start() returned empty job id")
		}

		events, last := collect(t, server, id)
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
		if !events[1].Final {
			t.Error("last event is not final")
		}
		if err := last.RunError(); err != nil {
			t.Errorf("RunError() = %v, want nil", err)
		}

		// The job is forgotten once Done has been reported.
		var resp NextResponse
		if err := server.Next(id, &resp); err == nil {
			t.Error("Next() after Done should fail")
		}
	})

	t.Run("ReportsExtractError", func(t *testing.T) {
		server := NewEngineRPCServer(&mockEngine{extractErr: errors.New("boom")})

		var id string
		if err := server.Start(Request{}, &id); err != nil {
			t.Fatalf("Start() error = %v", err)
		}

		_, last := collect(t, server, id)
		var rpcErr *RPCError
		if !errors.As(last.RunError(), &rpcErr) {
			t.Fatalf("RunError() = %v, want *RPCError", last.RunError())
		}
		if rpcErr.Message != "boom" {
			t.Errorf("RPCError.Message = %q, want %q", rpcErr.Message, "boom")
		}
	})

	t.Run("Cancel", func(t *testing.T) {
		server := NewEngineRPCServer(&mockEngine{block: true})

		var id string
		if err := server.Start(Request{}, &id); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		var ok bool
		if err := server.Cancel(id, &ok); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if !ok {
			t.Error("Cancel() reply = false, want true")
		}

		_, last := collect(t, server, id)
		if last.Err == "" {
			t.Error("cancelled job reported no error")
		}
	})

	t.Run("UnknownJob", func(t *testing.T) {
		server := NewEngineRPCServer(&mockEngine{})
		var resp NextResponse
		if err := server.Next("missing", &resp); err == nil {
			t.Error("Next() with unknown id should fail")
		}
		var ok bool
		if err := server.Cancel("missing", &ok); err == nil {
			t.Error("Cancel() with unknown id should fail")
		}
	})

	t.Run("GetMetadata", func(t *testing.T) {
		server := NewEngineRPCServer(&mockEngine{metadata: PluginInfo{Name: "test"}})
		var resp PluginInfo
		if err := server.GetMetadata(nil, &resp); err != nil {
			t.Fatalf("GetMetadata() error = %v", err)
		}
		if resp.Name != "test" {
			t.Errorf("GetMetadata() name = %q, want %q", resp.Name, "test")
		}
	})
}

func TestRPCError(t *testing.T) {
	err := &RPCError{Message: "test error"}
	if err.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err.Error(), "test error")
	}
	if (NextResponse{}).RunError() != nil {
		t.Error("RunError() on empty response should be nil")
	}
}
