package hass

import (
	"encoding/json"
	"time"
)

// Message type strings used by the platform WebSocket protocol.
const (
	msgTypeAuthRequired = "auth_required"
	msgTypeAuth         = "auth"
	msgTypeAuthOK       = "auth_ok"
	msgTypeAuthInvalid  = "auth_invalid"
	msgTypeResult       = "result"
	msgTypeEvent        = "event"
)

// Command type strings for client-issued requests.
const (
	cmdGetStates       = "get_states"
	cmdListAreas       = "config/area_registry/list"
	cmdListDevices     = "config/device_registry/list"
	cmdListRegistry    = "config/entity_registry/list"
	cmdSubscribeEvents = "subscribe_events"
	cmdCallService     = "call_service"
	cmdSignPath        = "auth/sign_path"
	cmdCameraStream    = "camera/stream"
	cmdGetConfig       = "get_config"
	cmdHistoryDuring   = "history/history_during_period"
)

// eventStateChanged is the only event type the client subscribes to.
const eventStateChanged = "state_changed"

// serverMessage is the envelope for every message received from the platform.
// Only the fields relevant to the message's Type are populated.
type serverMessage struct {
	ID        int64           `json:"id,omitempty"`
	Type      string          `json:"type"`
	Success   *bool           `json:"success,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *ResultError    `json:"error,omitempty"`
	Event     json.RawMessage `json:"event,omitempty"`
	Message   string          `json:"message,omitempty"`
	HAVersion string          `json:"ha_version,omitempty"`
}

// ResultError contains error details from a failed command.
type ResultError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// authMessage is sent by the client to authenticate.
// The auth exchange carries no correlation id.
type authMessage struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

// commandMessage is the envelope for client-issued requests. Extra holds
// command-specific fields flattened into the envelope on marshal.
type commandMessage struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// subscribeEventsMessage requests a stream of state_changed events.
type subscribeEventsMessage struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	EventType string `json:"event_type"`
}

// callServiceMessage invokes a platform service (fire and forget).
type callServiceMessage struct {
	ID          int64          `json:"id"`
	Type        string         `json:"type"`
	Domain      string         `json:"domain"`
	Service     string         `json:"service"`
	ServiceData map[string]any `json:"service_data,omitempty"`
	Target      *serviceTarget `json:"target,omitempty"`
}

// serviceTarget addresses a service call at specific entities.
type serviceTarget struct {
	EntityID string `json:"entity_id"`
}

// signPathMessage requests an authorised URL for a relative resource path.
type signPathMessage struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// cameraStreamMessage requests a live stream URL for a camera entity.
type cameraStreamMessage struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	EntityID string `json:"entity_id"`
}

// historyMessage requests state samples for entities over a time range.
// minimal_response and no_attributes keep the payload to condensed samples.
type historyMessage struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	EntityIDs       string `json:"entity_ids"`
	MinimalResponse bool   `json:"minimal_response"`
	NoAttributes    bool   `json:"no_attributes"`
}

// Entity is the raw platform record of one controllable or observable point.
// Entities are replaced wholesale on snapshot install, and individually
// replaced or deleted by state_changed events; never partially mutated.
type Entity struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged time.Time      `json:"last_changed"`
	LastUpdated time.Time      `json:"last_updated"`
}

// AreaRecord is an entry from the platform's area registry.
type AreaRecord struct {
	AreaID  string  `json:"area_id"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

// DeviceRecord is an entry from the platform's physical-device registry.
type DeviceRecord struct {
	ID           string  `json:"id"`
	AreaID       *string `json:"area_id"`
	Name         *string `json:"name"`
	NameByUser   *string `json:"name_by_user"`
	Manufacturer *string `json:"manufacturer"`
	Model        *string `json:"model"`
}

// DisplayName returns the best available name for the physical device.
func (d *DeviceRecord) DisplayName() string {
	if d.NameByUser != nil && *d.NameByUser != "" {
		return *d.NameByUser
	}
	if d.Name != nil && *d.Name != "" {
		return *d.Name
	}
	return d.ID
}

// RegistryEntry is an entry from the platform's entity registry, linking an
// entity to its physical device and (optionally) directly to an area.
type RegistryEntry struct {
	EntityID string  `json:"entity_id"`
	DeviceID *string `json:"device_id"`
	AreaID   *string `json:"area_id"`
	Platform string  `json:"platform"`
	HiddenBy *string `json:"hidden_by"`
}

// stateChangedEvent is the payload of a state_changed event message.
// NewState is nil when the entity was removed from the platform.
type stateChangedEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		EntityID string  `json:"entity_id"`
		NewState *Entity `json:"new_state"`
	} `json:"data"`
}

// PlatformInfo is the subset of the platform configuration the dashboard
// consumes (geographic coordinates for weather, naming, version).
type PlatformInfo struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Elevation    float64 `json:"elevation"`
	LocationName string  `json:"location_name"`
	Version      string  `json:"version"`
	TimeZone     string  `json:"time_zone"`
}

// HistorySample is one historical state observation for an entity.
type HistorySample struct {
	State string    `json:"state"`
	Time  time.Time `json:"time"`
}

// condensedSample is the wire shape of a minimal_response history row.
// lu is a Unix timestamp with fractional seconds.
type condensedSample struct {
	State       string  `json:"s"`
	LastUpdated float64 `json:"lu"`
}

// signPathResult is the result payload of an auth/sign_path call.
type signPathResult struct {
	Path string `json:"path"`
}

// cameraStreamResult is the result payload of a camera/stream call.
type cameraStreamResult struct {
	URL string `json:"url"`
}
