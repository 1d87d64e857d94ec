package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// callResult carries the outcome of one correlated request. Exactly one of
// data or err is meaningful.
type callResult struct {
	data json.RawMessage
	err  error
}

// broker matches asynchronous platform responses to their originating
// requests. Every outbound command carries a monotonically increasing
// integer id; the platform echoes it back on the result message.
//
// Thread Safety: all methods are safe for concurrent use. Each pending
// channel is buffered with capacity 1 so the read loop never blocks on a
// caller that has already given up.
type broker struct {
	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan callResult
}

func newBroker() *broker {
	return &broker{pending: make(map[int64]chan callResult)}
}

// nextCorrelationID allocates an id for a request that expects no tracked
// response (fire-and-forget commands still need a unique id on the wire).
func (b *broker) nextCorrelationID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	return b.nextID
}

// register allocates a correlation id and a single-shot channel that will
// receive the matching response.
func (b *broker) register() (int64, chan callResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	ch := make(chan callResult, 1)
	b.pending[b.nextID] = ch
	return b.nextID, ch
}

// resolve delivers a successful result to the waiter for id. Returns false
// if no waiter is registered (already timed out, or a fire-and-forget id).
func (b *broker) resolve(id int64, data json.RawMessage) bool {
	return b.deliver(id, callResult{data: data})
}

// reject delivers a failure to the waiter for id.
func (b *broker) reject(id int64, err error) bool {
	return b.deliver(id, callResult{err: err})
}

func (b *broker) deliver(id int64, res callResult) bool {
	b.mu.Lock()
	ch, ok := b.pending[id]
	if ok {
		delete(b.pending, id)
	}
	b.mu.Unlock()
	if !ok {
		return false
	}
	ch <- res
	return true
}

// await blocks until the response for id arrives, the timeout elapses, or
// ctx is cancelled. On timeout or cancellation the pending entry is removed
// so a late response cannot leak the channel or pair with a reused waiter.
func (b *broker) await(ctx context.Context, id int64, ch chan callResult, timeout time.Duration) (json.RawMessage, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.data, nil
	case <-timer.C:
		b.abandon(id)
		return nil, fmt.Errorf("%w after %s (id %d)", ErrCallTimeout, timeout, id)
	case <-ctx.Done():
		b.abandon(id)
		return nil, ctx.Err()
	}
}

func (b *broker) abandon(id int64) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

// failAll rejects every in-flight call with err. Called when the connection
// drops so no caller waits out its full timeout against a dead socket.
func (b *broker) failAll(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.pending {
		ch <- callResult{err: err}
		delete(b.pending, id)
	}
}
