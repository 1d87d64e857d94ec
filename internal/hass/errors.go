package hass

import "errors"

var (
	// ErrNotConnected is returned when a call is made while the client has
	// no established session with the platform.
	ErrNotConnected = errors.New("hass: not connected")

	// ErrCallTimeout is returned when the platform does not answer a
	// request within the configured deadline.
	ErrCallTimeout = errors.New("hass: call timed out")

	// ErrDisconnected is delivered to all in-flight calls when the
	// connection drops before their responses arrive.
	ErrDisconnected = errors.New("hass: connection lost")

	// ErrAuthFailed is returned when the platform rejects the configured
	// access token during the handshake.
	ErrAuthFailed = errors.New("hass: authentication rejected")

	// ErrHandshake is returned when the connection is established but the
	// protocol handshake does not follow the expected sequence.
	ErrHandshake = errors.New("hass: protocol handshake failed")
)
