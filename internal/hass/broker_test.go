package hass

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestBrokerResolveRoundTrip(t *testing.T) {
	b := newBroker()
	id, ch := b.register()

	payload := json.RawMessage(`{"ok":true}`)
	if !b.resolve(id, payload) {
		t.Fatal("resolve returned false for a registered id")
	}

	got, err := b.await(context.Background(), id, ch, time.Second)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("result: got %s", got)
	}
}

func TestBrokerIDsAreUnique(t *testing.T) {
	b := newBroker()
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id, _ := b.register()
		if seen[id] {
			t.Fatalf("correlation id %d issued twice", id)
		}
		seen[id] = true
	}
}

func TestBrokerReject(t *testing.T) {
	b := newBroker()
	id, ch := b.register()

	want := errors.New("service unavailable")
	b.reject(id, want)

	_, err := b.await(context.Background(), id, ch, time.Second)
	if !errors.Is(err, want) {
		t.Errorf("await error: got %v, want %v", err, want)
	}
}

func TestBrokerTimeoutRemovesPendingEntry(t *testing.T) {
	b := newBroker()
	id, ch := b.register()

	_, err := b.await(context.Background(), id, ch, 10*time.Millisecond)
	if !errors.Is(err, ErrCallTimeout) {
		t.Fatalf("await error: got %v, want ErrCallTimeout", err)
	}

	// A late response must find no waiter left behind.
	if b.resolve(id, json.RawMessage(`{}`)) {
		t.Error("late resolve found a pending entry after timeout")
	}
}

func TestBrokerContextCancellation(t *testing.T) {
	b := newBroker()
	id, ch := b.register()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.await(ctx, id, ch, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("await error: got %v, want context.Canceled", err)
	}
	if b.resolve(id, json.RawMessage(`{}`)) {
		t.Error("late resolve found a pending entry after cancellation")
	}
}

func TestBrokerFailAll(t *testing.T) {
	b := newBroker()

	type waiter struct {
		id int64
		ch chan callResult
	}
	var waiters []waiter
	for i := 0; i < 5; i++ {
		id, ch := b.register()
		waiters = append(waiters, waiter{id, ch})
	}

	b.failAll(ErrDisconnected)

	for _, w := range waiters {
		_, err := b.await(context.Background(), w.id, w.ch, time.Second)
		if !errors.Is(err, ErrDisconnected) {
			t.Errorf("id %d: got %v, want ErrDisconnected", w.id, err)
		}
	}
}

func TestBrokerUntrackedIDResolvesNothing(t *testing.T) {
	b := newBroker()
	id := b.nextCorrelationID()
	if b.resolve(id, json.RawMessage(`{}`)) {
		t.Error("resolve returned true for a fire-and-forget id")
	}
}
