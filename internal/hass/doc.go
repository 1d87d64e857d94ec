// Package hass maintains the live session with the home-automation
// platform over its duplex WebSocket API.
//
// The package has three moving parts:
//
//   - Client owns the connection lifecycle: dial, token auth handshake,
//     bootstrap of the four registry snapshots (entity states, areas,
//     physical devices, entity registry), and a subscription to
//     state_changed events. A single read loop goroutine dispatches all
//     inbound traffic, so event ordering always matches arrival order.
//
//   - broker correlates request and response messages over the shared
//     socket using monotonically increasing integer ids. Side-band calls
//     (signed URLs, camera streams, platform config, history) block on the
//     broker with a bounded timeout; service calls are fire and forget.
//
//   - StateStore is the in-memory mirror the rest of the server reads.
//     Snapshots replace tables wholesale; events replace or delete single
//     entities and fan out to subscribers.
//
// When the connection drops, every in-flight call fails immediately with
// ErrDisconnected and the mirror is cleared so stale data is never served
// as live state. A clean peer close returns the client to idle; any other
// failure parks it in the failed state with a human-readable diagnosis.
package hass
