// Package palette turns a stream of engine cluster batches into a palette.
//
// A Pipeline owns at most one active session. Starting an extraction creates
// a session with a fresh identity, subscribes to the engine bus and runs the
// engine. Every data event is validated, classified and replaces the
// session's accumulated colours; the final event is reduced by rank fusion
// and handed to the Renderer. Events that carry another session's identity
// are dropped.
package palette

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/huepick/internal/colour"
	"github.com/jmylchreest/huepick/internal/engine"
)

// DefaultMaxColours is the number of colours kept after reduction.
const DefaultMaxColours = 5

// Pipeline accumulates engine events for the active session.
type Pipeline struct {
	bus        *engine.Bus
	renderer   Renderer
	logger     hclog.Logger
	maxColours int
	onSelect   func(colour.ClassifiedColour)
	buffer     int

	mu       sync.Mutex
	session  *session
	surfaced []colour.ClassifiedColour
	closed   bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMaxColours limits the final palette to n colours. n <= 0 keeps all.
func WithMaxColours(n int) Option {
	return func(p *Pipeline) {
		p.maxColours = n
	}
}

// WithSelectHandler sets the callback fired by Select.
func WithSelectHandler(fn func(colour.ClassifiedColour)) Option {
	return func(p *Pipeline) {
		p.onSelect = fn
	}
}

// WithBuffer sets the per-channel buffer of each session's subscription.
func WithBuffer(n int) Option {
	return func(p *Pipeline) {
		p.buffer = n
	}
}

// New creates a Pipeline reading from bus and rendering to renderer.
func New(bus *engine.Bus, renderer Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		bus:        bus,
		renderer:   renderer,
		logger:     hclog.NewNullLogger(),
		maxColours: DefaultMaxColours,
		buffer:     engine.DefaultBuffer,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.renderer == nil {
		p.renderer = RendererFunc(func(View) {})
	}
	return p
}

// session is the pipeline's private record of one extraction.
type session struct {
	Session

	sub    *engine.Subscription
	cancel context.CancelFunc

	// ended is closed once the engine's Run has returned and any error it
	// produced has been published.
	ended chan struct{}

	// settled is closed when the session is finalized, superseded, closed,
	// or its engine stopped without a final event. err says which.
	settled    chan struct{}
	settleOnce sync.Once
	err        error

	lastErr *EngineError
}

func (s *session) settle(err error) {
	s.settleOnce.Do(func() {
		s.err = err
		close(s.settled)
	})
}

// teardown stops the engine run and releases the subscription.
func (s *session) teardown(reason error) {
	s.cancel()
	s.sub.Release()
	s.settle(reason)
}

// Start supersedes any active session and begins extracting job with eng.
// The engine runs on its own goroutine under a context derived from ctx.
// If Run returns an error, it is published as an error event for the session.
func (p *Pipeline) Start(ctx context.Context, eng engine.Engine, job engine.Job) (engine.SessionID, error) {
	if eng == nil {
		return "", fmt.Errorf("engine cannot be nil")
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", ErrClosed
	}

	if prev := p.session; prev != nil {
		p.logger.Debug("superseding session", "session", prev.ID.Short(), "state", prev.State)
		prev.teardown(ErrSuperseded)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &session{
		Session: Session{ID: engine.NewSessionID(), State: StateListening},
		sub:     p.bus.Subscribe(p.buffer),
		cancel:  cancel,
		ended:   make(chan struct{}),
		settled: make(chan struct{}),
	}
	p.session = s
	p.surfaced = nil

	p.logger.Info("extraction started", "session", s.ID.Short(), "engine", eng.Name(), "clusters", job.Count)
	p.renderLocked()
	p.mu.Unlock()

	go p.consume(s)
	go p.run(runCtx, s, eng, job)

	return s.ID, nil
}

func (p *Pipeline) run(ctx context.Context, s *session, eng engine.Engine, job engine.Job) {
	defer close(s.ended)

	sink := p.bus.Sink(s.ID)
	err := eng.Run(ctx, job, sink)
	if err == nil || ctx.Err() != nil {
		return
	}
	if perr := sink.Error(ctx, err.Error()); perr != nil {
		p.logger.Debug("unable to publish engine error", "session", s.ID.Short(), "error", perr)
	}
}

// consume handles the session's events one at a time until the
// subscription is released.
func (p *Pipeline) consume(s *session) {
	sub := s.sub
	ended := s.ended
	for {
		select {
		case ev := <-sub.Data():
			p.dispatchData(ev)
		case ev := <-sub.Errors():
			p.dispatchError(ev)
		case <-ended:
			ended = nil
			p.drain(sub)
			p.engineStopped(s)
		case <-sub.Done():
			return
		}
	}
}

// drain handles whatever is already buffered. Publishing is synchronous, so
// once the engine has stopped everything it sent is buffered.
func (p *Pipeline) drain(sub *engine.Subscription) {
	for {
		select {
		case ev := <-sub.Data():
			p.dispatchData(ev)
		case ev := <-sub.Errors():
			p.dispatchError(ev)
		default:
			return
		}
	}
}

func (p *Pipeline) dispatchData(ev engine.DataEvent) {
	err := p.HandleData(ev)
	switch {
	case err == nil:
	case errors.Is(err, ErrStaleEvent):
		p.logger.Debug("dropping stale data event", "session", ev.Session.Short(), "final", ev.Final)
	default:
		p.logger.Warn("rejected data event", "session", ev.Session.Short(), "error", err)
	}
}

func (p *Pipeline) dispatchError(ev engine.ErrorEvent) {
	err := p.HandleError(ev)
	var engineErr *EngineError
	switch {
	case errors.As(err, &engineErr):
		p.logger.Error("engine error", "session", ev.Session.Short(), "msg", engineErr.Msg)
	case errors.Is(err, ErrStaleEvent):
		p.logger.Debug("dropping stale error event", "session", ev.Session.Short(), "msg", ev.Msg)
	}
}

// engineStopped settles a session whose engine returned without a final
// event. The session state is left as it is.
func (p *Pipeline) engineStopped(s *session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != s || s.Final {
		return
	}
	if s.lastErr != nil {
		s.settle(s.lastErr)
		return
	}
	p.logger.Warn("engine stopped without a final palette", "session", s.ID.Short())
	s.settle(ErrNoFinal)
}

// HandleData applies one data event. Stale events return ErrStaleEvent;
// a non-empty event with no usable entry returns ErrMalformedEvent. Neither
// changes any state. Individually malformed entries are skipped.
func (p *Pipeline) HandleData(ev engine.DataEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.session
	if s == nil || ev.Session != s.ID {
		return fmt.Errorf("%w: session %s", ErrStaleEvent, ev.Session.Short())
	}
	if s.Final {
		return fmt.Errorf("%w: session %s already finalized", ErrStaleEvent, ev.Session.Short())
	}

	clusters, skipped := ev.Clusters()
	for _, err := range skipped {
		p.logger.Warn("skipping palette entry", "session", s.ID.Short(), "error", err)
	}
	if len(clusters) == 0 && len(ev.Palette) > 0 {
		return fmt.Errorf("%w: all %d entries rejected", ErrMalformedEvent, len(ev.Palette))
	}

	s.Batches++
	classified := make([]colour.ClassifiedColour, len(clusters))
	for i, c := range clusters {
		classified[i] = colour.Classify(c, fmt.Sprintf("color-%d-%d", s.Batches, i))
	}
	s.Accumulated = classified

	if !ev.Final {
		s.State = StateAccumulating
		p.surfaced = classified
		p.logger.Debug("palette updated", "session", s.ID.Short(), "batch", s.Batches, "colours", len(classified))
		p.renderLocked()
		return nil
	}

	s.Final = true
	s.State = StateFinalized
	p.surfaced = Top(Reduce(classified), p.maxColours)
	p.logger.Info("palette finalized", "session", s.ID.Short(), "batches", s.Batches, "colours", len(p.surfaced))
	p.renderLocked()
	s.settle(nil)
	return nil
}

// HandleError applies one error event. For the active session it records
// and returns an *EngineError; state is unchanged either way.
func (p *Pipeline) HandleError(ev engine.ErrorEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.session
	if s == nil || ev.Session != s.ID {
		return fmt.Errorf("%w: session %s", ErrStaleEvent, ev.Session.Short())
	}

	s.lastErr = &EngineError{Session: ev.Session, Msg: ev.Msg}
	return s.lastErr
}

// View returns what is currently on display.
func (p *Pipeline) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

// State returns the state of the active session, or StateIdle.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return StateIdle
	}
	return p.session.State
}

// Session returns a snapshot of the active session.
func (p *Pipeline) Session() (Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return Session{}, false
	}
	snap := p.session.Session
	snap.Accumulated = slices.Clone(snap.Accumulated)
	return snap, true
}

// Wait blocks until the active session is finalized and returns the final
// view. It returns early with an error if the session's engine stopped
// without a final event, the session was superseded or ctx ends.
func (p *Pipeline) Wait(ctx context.Context) (View, error) {
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()
	if s == nil {
		return View{}, ErrNoSession
	}

	select {
	case <-s.settled:
		return p.View(), s.err
	case <-ctx.Done():
		return p.View(), ctx.Err()
	}
}

// Select looks up a colour on display by key and passes it to the select
// handler.
func (p *Pipeline) Select(key string) (colour.ClassifiedColour, error) {
	p.mu.Lock()
	idx := slices.IndexFunc(p.surfaced, func(c colour.ClassifiedColour) bool {
		return c.Key == key
	})
	var c colour.ClassifiedColour
	if idx >= 0 {
		c = p.surfaced[idx]
	}
	p.mu.Unlock()

	if idx < 0 {
		return colour.ClassifiedColour{}, fmt.Errorf("%w: %s", ErrUnknownColour, key)
	}
	if p.onSelect != nil {
		p.onSelect(c)
	}
	return c, nil
}

// Close stops the active session and releases its subscription. The
// pipeline cannot be started again. Safe to call more than once.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if s := p.session; s != nil {
		s.teardown(ErrClosed)
		p.logger.Debug("pipeline closed", "session", s.ID.Short())
	}
}

func (p *Pipeline) viewLocked() View {
	v := View{
		State:   StateIdle,
		Colours: slices.Clone(p.surfaced),
	}
	if v.Colours == nil {
		v.Colours = []colour.ClassifiedColour{}
	}
	if s := p.session; s != nil {
		v.Session = s.ID
		v.State = s.State
		v.Final = s.Final
		v.Loading = !s.Final
	}
	return v
}

func (p *Pipeline) renderLocked() {
	p.renderer.Render(p.viewLocked())
}
