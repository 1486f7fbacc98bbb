package engine

import (
	"context"
	"sync"
)

// DefaultBuffer is the per-channel buffer of a subscription.
const DefaultBuffer = 16

// Bus fans engine events out to subscribers. Publishing is synchronous so a
// single publisher's events reach each subscriber in the order sent.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscription is a scoped pair of listeners, one for data events and one
// for error events. Release drops both together.
type Subscription struct {
	bus  *Bus
	data chan DataEvent
	errs chan ErrorEvent
	done chan struct{}
	once sync.Once
}

// Subscribe registers a new data/error listener pair. buffer <= 0 uses
// DefaultBuffer.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	s := &Subscription{
		bus:  b,
		data: make(chan DataEvent, buffer),
		errs: make(chan ErrorEvent, buffer),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	return s
}

// Data returns the data event channel. It is never closed; select on Done.
func (s *Subscription) Data() <-chan DataEvent { return s.data }

// Errors returns the error event channel. It is never closed; select on Done.
func (s *Subscription) Errors() <-chan ErrorEvent { return s.errs }

// Done is closed once the subscription has been released.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Release unregisters both listeners. Publishers blocked on this
// subscription are released. Safe to call more than once.
func (s *Subscription) Release() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.done)
	})
}

// Subscribers reports how many subscriptions are registered.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) snapshot() []*Subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Subscription, 0, len(b.subs))
	for s := range b.subs {
		out = append(out, s)
	}
	return out
}

// PublishData delivers ev to every current subscriber. It blocks while a
// subscriber's buffer is full, until that subscriber is released or ctx ends.
func (b *Bus) PublishData(ctx context.Context, ev DataEvent) error {
	for _, s := range b.snapshot() {
		select {
		case s.data <- ev:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// PublishError delivers ev to every current subscriber.
func (b *Bus) PublishError(ctx context.Context, ev ErrorEvent) error {
	for _, s := range b.snapshot() {
		select {
		case s.errs <- ev:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Sink returns a Sink that tags everything it publishes with session.
func (b *Bus) Sink(session SessionID) Sink {
	return &busSink{bus: b, session: session}
}

type busSink struct {
	bus     *Bus
	session SessionID
}

func (s *busSink) Data(ctx context.Context, p Payload) error {
	return s.bus.PublishData(ctx, DataEvent{Session: s.session, Payload: p})
}

func (s *busSink) Error(ctx context.Context, msg string) error {
	return s.bus.PublishError(ctx, ErrorEvent{Session: s.session, ErrorPayload: ErrorPayload{Msg: msg}})
}
