package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/egorcha174/fusion-new-sub001/internal/device"
	"github.com/egorcha174/fusion-new-sub001/internal/hass"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/logging"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/mqtt"
)

// commandQoS is the QoS level for the inbound command subscription.
const commandQoS = 1

// MQTTClient is the broker surface the bridge needs. Satisfied by
// *mqtt.Client; narrowed to an interface so tests can run without a broker.
type MQTTClient interface {
	// PublishRetained publishes a retained message at QoS 1.
	PublishRetained(topic string, payload []byte) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// IsConnected reports whether the broker session is up.
	IsConnected() bool
}

// ServiceCaller issues platform service calls. Satisfied by *hass.Client.
type ServiceCaller interface {
	CallService(domain, service, entityID string, data map[string]any) error
}

// Customizer supplies per-device overrides so republished payloads match
// what the dashboard renders. Satisfied by *dashboard.Manager.
type Customizer interface {
	Customizations() map[string]device.Customization
}

// Options holds the dependencies for creating a bridge.
type Options struct {
	MQTT     MQTTClient
	Platform ServiceCaller
	Store    *hass.StateStore
	Layout   Customizer
	Topics   mqtt.Topics
	Logger   *logging.Logger
}

// Bridge republishes mapped device state to MQTT and routes inbound
// command topics to the platform.
//
// Thread Safety: all methods are safe for concurrent use. State callbacks
// arrive on the platform client's read loop, so publishing stays
// non-blocking apart from the broker client's own buffered send.
type Bridge struct {
	mqtt     MQTTClient
	platform ServiceCaller
	store    *hass.StateStore
	layout   Customizer
	topics   mqtt.Topics
	logger   *logging.Logger

	// Last published payload per entity, for change suppression.
	cache   map[string]string
	cacheMu sync.Mutex
}

// commandPayload is the body expected on {prefix}/command/{entity_id}.
type commandPayload struct {
	Domain  string         `json:"domain"`
	Service string         `json:"service"`
	Data    map[string]any `json:"data,omitempty"`
}

// New creates a bridge. Call Start to begin mirroring.
func New(opts Options) (*Bridge, error) {
	if opts.MQTT == nil {
		return nil, fmt.Errorf("bridge: MQTT client is required")
	}
	if opts.Platform == nil {
		return nil, fmt.Errorf("bridge: platform client is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("bridge: state store is required")
	}
	return &Bridge{
		mqtt:     opts.MQTT,
		platform: opts.Platform,
		store:    opts.Store,
		layout:   opts.Layout,
		topics:   opts.Topics,
		logger:   opts.Logger,
		cache:    make(map[string]string),
	}, nil
}

// Start subscribes to the command topic and hooks the live state mirror.
// The state subscription lives for the process lifetime; the store has no
// unsubscribe, matching the bridge's always-on role once enabled.
func (b *Bridge) Start() error {
	if err := b.mqtt.Subscribe(b.topics.AllDeviceCommands(), commandQoS, b.handleCommand); err != nil {
		return fmt.Errorf("bridge: subscribing to commands: %w", err)
	}

	b.store.Subscribe(func(change hass.StateChange) {
		b.publishChange(change)
	})

	if b.logger != nil {
		b.logger.Info("MQTT republish bridge started",
			"state_topic", b.topics.DeviceState("+"),
			"command_topic", b.topics.AllDeviceCommands())
	}
	return nil
}

// publishChange maps one entity change and republishes it retained. A
// removed entity publishes an empty retained payload, which clears the
// topic on the broker.
func (b *Bridge) publishChange(change hass.StateChange) {
	topic := b.topics.DeviceState(change.EntityID)

	if change.NewState == nil {
		b.setCache(change.EntityID, "")
		if err := b.mqtt.PublishRetained(topic, nil); err != nil {
			b.logPublishError(change.EntityID, err)
		}
		return
	}

	var cust device.Customization
	if b.layout != nil {
		cust = b.layout.Customizations()[change.EntityID]
	}
	d := device.MapEntity(*change.NewState, cust, nil)
	if d == nil {
		return
	}

	payload, err := json.Marshal(d)
	if err != nil {
		b.logPublishError(change.EntityID, err)
		return
	}
	if !b.setCache(change.EntityID, string(payload)) {
		return
	}
	if err := b.mqtt.PublishRetained(topic, payload); err != nil {
		b.logPublishError(change.EntityID, err)
	}
}

// PublishSnapshot republishes every entity currently in the mirror. Called
// after the platform bootstrap completes so the broker holds a full
// retained picture, not just deltas since startup.
func (b *Bridge) PublishSnapshot() {
	for _, e := range b.store.Entities() {
		entity := e
		b.publishChange(hass.StateChange{EntityID: e.EntityID, NewState: &entity})
	}
}

// handleCommand translates one inbound command message into a platform
// service call. Malformed messages are dropped with a log line; a command
// topic is external input and never worth crashing over.
func (b *Bridge) handleCommand(topic string, payload []byte) error {
	entityID := entityIDFromTopic(topic)
	if entityID == "" {
		return fmt.Errorf("bridge: command topic %q has no entity id", topic)
	}

	var cmd commandPayload
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("bridge: invalid command payload on %s: %w", topic, err)
	}
	if cmd.Domain == "" || cmd.Service == "" {
		return fmt.Errorf("bridge: command on %s missing domain or service", topic)
	}

	if err := b.platform.CallService(cmd.Domain, cmd.Service, entityID, cmd.Data); err != nil {
		return fmt.Errorf("bridge: service call for %s: %w", entityID, err)
	}
	if b.logger != nil {
		b.logger.Debug("bridge command forwarded",
			"entity_id", entityID, "domain", cmd.Domain, "service", cmd.Service)
	}
	return nil
}

// setCache records the payload and reports whether it differs from the
// previous publication.
func (b *Bridge) setCache(entityID, payload string) bool {
	b.cacheMu.Lock()
	defer b.cacheMu.Unlock()
	if b.cache[entityID] == payload {
		return false
	}
	b.cache[entityID] = payload
	return true
}

func (b *Bridge) logPublishError(entityID string, err error) {
	if b.logger != nil {
		b.logger.Warn("bridge publish failed", "entity_id", entityID, "error", err)
	}
}

// entityIDFromTopic extracts the entity id from {prefix}/command/{entity_id}.
func entityIDFromTopic(topic string) string {
	idx := strings.LastIndex(topic, "/command/")
	if idx < 0 {
		return ""
	}
	id := topic[idx+len("/command/"):]
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
