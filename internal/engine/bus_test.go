package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(8)
	defer sub.Release()

	sink := bus.Sink("s1")
	ctx := context.Background()
	for i := range 3 {
		if err := sink.Data(ctx, Payload{Palette: []PaletteEntry{{R: i}}, Final: i == 2}); err != nil {
			t.Fatalf("Data() error = %v", err)
		}
	}

	for i := range 3 {
		ev := <-sub.Data()
		if ev.Session != "s1" {
			t.Errorf("event %d session = %q, want s1", i, ev.Session)
		}
		if ev.Palette[0].R != i {
			t.Errorf("event %d out of order: R = %d", i, ev.Palette[0].R)
		}
		if ev.Final != (i == 2) {
			t.Errorf("event %d Final = %v", i, ev.Final)
		}
	}
}

func TestBusErrorEvents(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)
	defer sub.Release()

	if err := bus.Sink("s1").Error(context.Background(), "boom"); err != nil {
		t.Fatalf("Error() error = %v", err)
	}

	select {
	case ev := <-sub.Errors():
		if ev.Session != "s1" || ev.Msg != "boom" {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("no error event delivered")
	}

	select {
	case ev := <-sub.Data():
		t.Errorf("unexpected data event %+v", ev)
	default:
	}
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	a, b := bus.Subscribe(1), bus.Subscribe(1)
	defer a.Release()
	defer b.Release()

	if got := bus.Subscribers(); got != 2 {
		t.Fatalf("Subscribers() = %d, want 2", got)
	}

	if err := bus.PublishData(context.Background(), DataEvent{Session: "s"}); err != nil {
		t.Fatalf("PublishData() error = %v", err)
	}
	for name, sub := range map[string]*Subscription{"a": a, "b": b} {
		select {
		case <-sub.Data():
		default:
			t.Errorf("subscriber %s received nothing", name)
		}
	}
}

func TestSubscriptionRelease(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)

	sub.Release()
	sub.Release()

	if got := bus.Subscribers(); got != 0 {
		t.Errorf("Subscribers() after Release = %d, want 0", got)
	}
	select {
	case <-sub.Done():
	default:
		t.Error("Done() not closed after Release")
	}

	// Nothing is delivered to a released subscription.
	if err := bus.PublishData(context.Background(), DataEvent{Session: "s"}); err != nil {
		t.Fatalf("PublishData() error = %v", err)
	}
	select {
	case ev := <-sub.Data():
		t.Errorf("released subscription received %+v", ev)
	default:
	}
}

func TestReleaseUnblocksPublisher(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)

	ctx := context.Background()
	if err := bus.PublishData(ctx, DataEvent{Session: "s"}); err != nil {
		t.Fatalf("PublishData() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- bus.PublishData(ctx, DataEvent{Session: "s"})
	}()

	select {
	case err := <-done:
		t.Fatalf("PublishData() returned %v with a full buffer", err)
	case <-time.After(20 * time.Millisecond):
	}

	sub.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("PublishData() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("PublishData() still blocked after Release")
	}
}

func TestPublishHonoursContext(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)
	defer sub.Release()

	if err := bus.PublishError(context.Background(), ErrorEvent{Session: "s"}); err != nil {
		t.Fatalf("PublishError() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := bus.PublishError(ctx, ErrorEvent{Session: "s"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("PublishError() error = %v, want context.Canceled", err)
	}
}
