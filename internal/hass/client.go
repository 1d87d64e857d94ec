package hass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/config"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/logging"
)

// ConnState describes the client's connection lifecycle.
type ConnState string

const (
	// StateIdle means no session exists and none is being attempted.
	StateIdle ConnState = "idle"
	// StateConnecting means a dial or handshake is in progress.
	StateConnecting ConnState = "connecting"
	// StateConnected means the session is authenticated and live.
	StateConnected ConnState = "connected"
	// StateFailed means the last attempt ended in an error; Status carries
	// a human-readable diagnosis.
	StateFailed ConnState = "failed"
)

// Client maintains the duplex WebSocket session with the platform: it
// authenticates, loads the four bootstrap snapshots, subscribes to
// state_changed events, and routes correlated responses to their callers.
//
// Thread Safety: all exported methods are safe for concurrent use. A single
// read loop goroutine owns inbound dispatch, so event ordering matches
// arrival order. Writes are serialised by writeMu.
type Client struct {
	cfg    config.PlatformConfig
	logger *logging.Logger
	store  *StateStore
	broker *broker

	mu        sync.Mutex
	conn      *websocket.Conn
	state     ConnState
	statusMsg string
	loading   map[int64]string
	version   string

	writeMu sync.Mutex
}

// Status is a point-in-time view of the connection for the API layer.
type Status struct {
	State       ConnState `json:"state"`
	Message     string    `json:"message,omitempty"`
	Version     string    `json:"platform_version,omitempty"`
	Loading     bool      `json:"loading"`
	TokenExpiry string    `json:"token_expiry,omitempty"`
}

// NewClient creates a client. No connection is attempted until Connect.
func NewClient(cfg config.PlatformConfig, store *StateStore, logger *logging.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
		store:  store,
		broker: newBroker(),
		state:  StateIdle,
	}
}

// Store returns the in-memory mirror this client feeds.
func (c *Client) Store() *StateStore {
	return c.store
}

// Connect dials the platform, runs the auth handshake, and starts the read
// loop. Any prior session is torn down first. The dial and handshake are
// bounded by the configured handshake timeout.
func (c *Client) Connect(ctx context.Context) error {
	c.Disconnect()

	c.setState(StateConnecting, "")

	wsURL, err := websocketURL(c.cfg.BaseURL)
	if err != nil {
		c.setState(StateFailed, err.Error())
		return err
	}

	if info, err := InspectToken(c.cfg.AccessToken); err == nil && info.Expired(time.Now()) {
		c.logger.Warn("access token is past its expiry claim",
			"expires_at", info.ExpiresAt.Format(time.RFC3339))
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: time.Duration(c.cfg.HandshakeTimeout) * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		msg := diagnoseDialError(err, wsURL)
		c.setState(StateFailed, msg)
		return fmt.Errorf("hass: dial %s: %w", wsURL, err)
	}

	if err := c.authenticate(conn); err != nil {
		conn.Close()
		c.setState(StateFailed, diagnoseAuthError(err))
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateConnected
	c.statusMsg = ""
	c.loading = make(map[int64]string)
	c.mu.Unlock()

	c.logger.Info("platform session established", "url", wsURL, "version", c.version)

	if err := c.bootstrap(); err != nil {
		c.Disconnect()
		c.setState(StateFailed, "bootstrap failed: "+err.Error())
		return err
	}

	go c.readLoop(conn)
	return nil
}

// Disconnect closes the session if one exists and returns the client to
// idle. In-flight calls fail with ErrDisconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	if c.state == StateConnected || c.state == StateConnecting {
		c.state = StateIdle
		c.statusMsg = ""
	}
	c.mu.Unlock()

	if conn != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
		c.broker.failAll(ErrDisconnected)
		c.store.Clear()
	}
}

// setState replaces the connection state and diagnostic message.
func (c *Client) setState(state ConnState, msg string) {
	c.mu.Lock()
	c.state = state
	c.statusMsg = msg
	c.mu.Unlock()
}

// Status reports the connection state, diagnostic message, and whether the
// initial bootstrap load is still in flight.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Status{
		State:   c.state,
		Message: c.statusMsg,
		Version: c.version,
		Loading: len(c.loading) > 0,
	}
	if info, err := InspectToken(c.cfg.AccessToken); err == nil && !info.ExpiresAt.IsZero() {
		s.TokenExpiry = info.ExpiresAt.Format(time.RFC3339)
	}
	return s
}

// Connected reports whether a live, authenticated session exists.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateConnected
}

// authenticate runs the three-message auth exchange on a fresh socket:
// read auth_required, send the token, read auth_ok or auth_invalid.
func (c *Client) authenticate(conn *websocket.Conn) error {
	deadline := time.Now().Add(time.Duration(c.cfg.HandshakeTimeout) * time.Second)
	conn.SetReadDeadline(deadline)
	conn.SetWriteDeadline(deadline)
	defer conn.SetReadDeadline(time.Time{})
	defer conn.SetWriteDeadline(time.Time{})

	var hello serverMessage
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("%w: reading greeting: %v", ErrHandshake, err)
	}
	if hello.Type != msgTypeAuthRequired {
		return fmt.Errorf("%w: expected %s, got %s", ErrHandshake, msgTypeAuthRequired, hello.Type)
	}

	if err := conn.WriteJSON(authMessage{Type: msgTypeAuth, AccessToken: c.cfg.AccessToken}); err != nil {
		return fmt.Errorf("%w: sending credentials: %v", ErrHandshake, err)
	}

	var reply serverMessage
	if err := conn.ReadJSON(&reply); err != nil {
		return fmt.Errorf("%w: reading auth reply: %v", ErrHandshake, err)
	}
	switch reply.Type {
	case msgTypeAuthOK:
		c.mu.Lock()
		c.version = reply.HAVersion
		c.mu.Unlock()
		return nil
	case msgTypeAuthInvalid:
		return fmt.Errorf("%w: %s", ErrAuthFailed, reply.Message)
	default:
		return fmt.Errorf("%w: unexpected reply type %s", ErrHandshake, reply.Type)
	}
}

// bootstrap issues the four snapshot requests and the event subscription.
// Responses are matched back to their tables by correlation id in the read
// loop; the session counts as loading until all four have landed.
func (c *Client) bootstrap() error {
	for _, cmd := range []string{cmdGetStates, cmdListAreas, cmdListDevices, cmdListRegistry} {
		id := c.broker.nextCorrelationID()
		c.mu.Lock()
		c.loading[id] = cmd
		c.mu.Unlock()
		if err := c.writeJSON(commandMessage{ID: id, Type: cmd}); err != nil {
			return fmt.Errorf("hass: requesting %s: %w", cmd, err)
		}
	}

	subID := c.broker.nextCorrelationID()
	if err := c.writeJSON(subscribeEventsMessage{
		ID:        subID,
		Type:      cmdSubscribeEvents,
		EventType: eventStateChanged,
	}); err != nil {
		return fmt.Errorf("hass: subscribing to events: %w", err)
	}
	return nil
}

// readLoop owns all inbound traffic for one session. It exits when the
// socket errors or closes; a clean peer close returns the client to idle,
// anything else marks it failed.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			c.handleReadFailure(conn, err)
			return
		}

		switch msg.Type {
		case msgTypeResult:
			c.handleResult(&msg)
		case msgTypeEvent:
			c.handleEvent(&msg)
		default:
			c.logger.Debug("ignoring unexpected message type", "type", msg.Type, "id", msg.ID)
		}
	}
}

func (c *Client) handleReadFailure(conn *websocket.Conn, err error) {
	c.mu.Lock()
	stale := c.conn != conn
	if !stale {
		c.conn = nil
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.state = StateIdle
			c.statusMsg = ""
		} else {
			c.state = StateFailed
			c.statusMsg = "connection lost: " + err.Error()
		}
	}
	c.mu.Unlock()

	if stale {
		// Disconnect already tore this session down.
		return
	}

	c.logger.Warn("platform session ended", "error", err)
	conn.Close()
	c.broker.failAll(ErrDisconnected)
	c.store.Clear()
}

// handleResult routes a result message either to a bootstrap table install
// or to the broker's pending waiter for its correlation id.
func (c *Client) handleResult(msg *serverMessage) {
	c.mu.Lock()
	cmd, isBootstrap := c.loading[msg.ID]
	if isBootstrap {
		delete(c.loading, msg.ID)
	}
	remaining := len(c.loading)
	c.mu.Unlock()

	if isBootstrap {
		c.installSnapshot(cmd, msg)
		if remaining == 0 {
			c.logger.Info("initial platform load complete",
				"entities", len(c.store.Entities()),
				"areas", len(c.store.Areas()),
				"devices", len(c.store.Devices()))
		}
		return
	}

	if msg.Success != nil && !*msg.Success {
		err := fmt.Errorf("hass: platform error: %s", "unknown")
		if msg.Error != nil {
			err = fmt.Errorf("hass: platform error %s: %s", msg.Error.Code, msg.Error.Message)
		}
		if !c.broker.reject(msg.ID, err) {
			c.logger.Debug("platform rejected untracked command", "id", msg.ID, "error", err)
		}
		return
	}

	if !c.broker.resolve(msg.ID, msg.Result) {
		c.logger.Debug("result for untracked id", "id", msg.ID)
	}
}

func (c *Client) installSnapshot(cmd string, msg *serverMessage) {
	if msg.Success != nil && !*msg.Success {
		c.logger.Error("bootstrap request failed", "command", cmd, "id", msg.ID)
		return
	}
	switch cmd {
	case cmdGetStates:
		var entities []Entity
		if err := json.Unmarshal(msg.Result, &entities); err != nil {
			c.logger.Error("decoding entity snapshot", "error", err)
			return
		}
		c.store.InstallEntities(entities)
	case cmdListAreas:
		var areas []AreaRecord
		if err := json.Unmarshal(msg.Result, &areas); err != nil {
			c.logger.Error("decoding area registry", "error", err)
			return
		}
		c.store.InstallAreas(areas)
	case cmdListDevices:
		var devices []DeviceRecord
		if err := json.Unmarshal(msg.Result, &devices); err != nil {
			c.logger.Error("decoding device registry", "error", err)
			return
		}
		c.store.InstallDevices(devices)
	case cmdListRegistry:
		var entries []RegistryEntry
		if err := json.Unmarshal(msg.Result, &entries); err != nil {
			c.logger.Error("decoding entity registry", "error", err)
			return
		}
		c.store.InstallRegistry(entries)
	}
}

func (c *Client) handleEvent(msg *serverMessage) {
	var ev stateChangedEvent
	if err := json.Unmarshal(msg.Event, &ev); err != nil {
		c.logger.Debug("decoding event", "error", err)
		return
	}
	if ev.EventType != eventStateChanged {
		return
	}
	c.store.ApplyStateChanged(ev.Data.EntityID, ev.Data.NewState)
}

func (c *Client) writeJSON(v any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// websocketURL derives the platform's WebSocket endpoint from its base URL.
// http and https map to ws and wss; ws and wss pass through unchanged.
func websocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("hass: invalid base URL %q: %w", base, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("hass: unsupported scheme %q in base URL", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/websocket"
	return u.String(), nil
}

// diagnoseDialError maps common dial failures to actionable messages the
// dashboard surfaces verbatim.
func diagnoseDialError(err error, wsURL string) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "x509") || strings.Contains(msg, "tls"):
		return "TLS handshake failed; check the certificate or use ws:// for plain connections"
	case strings.Contains(msg, "connection refused"):
		return fmt.Sprintf("nothing is listening at %s; check the platform address and port", wsURL)
	case isTimeout(err):
		return "connection attempt timed out; check the address and network reachability"
	case strings.Contains(msg, "no such host"):
		return "host not found; check the platform address"
	default:
		return "connection failed: " + msg
	}
}

func diagnoseAuthError(err error) string {
	if errors.Is(err, ErrAuthFailed) {
		return "the platform rejected the access token; generate a new long-lived token"
	}
	return err.Error()
}

func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
