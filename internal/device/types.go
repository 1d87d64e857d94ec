package device

import "time"

// DeviceType is the closed classification a dashboard card renders by.
// Physical categories mirror platform domains; virtual categories are
// dashboard-only widgets with no backing platform entity.
type DeviceType string //nolint:revive // device.DeviceType is clearer than device.Type in calling code

// Physical device types.
const (
	TypeLight         DeviceType = "light"
	TypeDimmableLight DeviceType = "dimmable_light"
	TypeSwitch        DeviceType = "switch"
	TypeOutlet        DeviceType = "outlet"
	TypeSensor        DeviceType = "sensor"
	TypeBinarySensor  DeviceType = "binary_sensor"
	TypeClimate       DeviceType = "climate"
	TypeFan           DeviceType = "fan"
	TypeHumidifier    DeviceType = "humidifier"
	TypeCamera        DeviceType = "camera"
	TypeWeather       DeviceType = "weather"
	TypeScene         DeviceType = "scene"
	TypeAutomation    DeviceType = "automation"
	TypeScript        DeviceType = "script"
	TypeMediaPlayer   DeviceType = "media_player"
	TypeCover         DeviceType = "cover"
	TypeLock          DeviceType = "lock"
	TypeVacuum        DeviceType = "vacuum"
	TypeTV            DeviceType = "tv"
	TypeGameConsole   DeviceType = "game_console"
	TypeComputer      DeviceType = "computer"
	TypeSpeaker       DeviceType = "speaker"
	TypeUnknown       DeviceType = "unknown"
)

// Virtual widget types. These never originate from a platform entity;
// their ids live in the internal:: namespace.
const (
	TypeEventTimer    DeviceType = "event_timer"
	TypeCustomCard    DeviceType = "custom_card"
	TypeBatteryWidget DeviceType = "battery_widget"
)

// AllDeviceTypes returns every valid device type, physical then virtual.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{
		TypeLight, TypeDimmableLight, TypeSwitch, TypeOutlet,
		TypeSensor, TypeBinarySensor, TypeClimate, TypeFan, TypeHumidifier,
		TypeCamera, TypeWeather, TypeScene, TypeAutomation, TypeScript,
		TypeMediaPlayer, TypeCover, TypeLock, TypeVacuum,
		TypeTV, TypeGameConsole, TypeComputer, TypeSpeaker, TypeUnknown,
		TypeEventTimer, TypeCustomCard, TypeBatteryWidget,
	}
}

// Valid reports whether t is a known device type.
func (t DeviceType) Valid() bool {
	for _, known := range AllDeviceTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Virtual reports whether t is a dashboard-only widget type.
func (t DeviceType) Virtual() bool {
	switch t {
	case TypeEventTimer, TypeCustomCard, TypeBatteryWidget:
		return true
	default:
		return false
	}
}

// InternalPrefix marks entity ids of virtual widgets, e.g.
// "internal::event_timer_a1b2".
const InternalPrefix = "internal::"

// Device is the typed, customization-merged projection of one entity.
// Devices are rebuilt from the live entity table on every read; they carry
// no lifecycle of their own and are never persisted.
type Device struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Type   DeviceType `json:"type"`
	State  string     `json:"state"`
	Status string     `json:"status"`

	// Optional capability fields, populated per type.
	Brightness        *int           `json:"brightness,omitempty"`
	Temperature       *float64       `json:"temperature,omitempty"`
	TargetTemperature *float64       `json:"target_temperature,omitempty"`
	Humidity          *float64       `json:"humidity,omitempty"`
	HvacModes         []string       `json:"hvac_modes,omitempty"`
	HvacAction        string         `json:"hvac_action,omitempty"`
	FanSpeed          *int           `json:"fan_speed,omitempty"`
	BatteryLevel      *int           `json:"battery_level,omitempty"`
	MediaTitle        string         `json:"media_title,omitempty"`
	MediaArtist       string         `json:"media_artist,omitempty"`
	Forecast          []ForecastStep `json:"forecast,omitempty"`
	UnitOfMeasure     string         `json:"unit_of_measurement,omitempty"`
	DeviceClass       string         `json:"device_class,omitempty"`

	Icon       string `json:"icon,omitempty"`
	Hidden     bool   `json:"hidden"`
	TemplateID string `json:"template_id,omitempty"`

	LastChanged time.Time `json:"last_changed"`
	LastUpdated time.Time `json:"last_updated"`
}

// ForecastStep is one step of out-of-band weather forecast data attached
// to a weather device.
type ForecastStep struct {
	Datetime    string  `json:"datetime"`
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"`
	TempLow     float64 `json:"templow,omitempty"`
}

// Room is a derived grouping of devices by area. Rooms are recomputed on
// every aggregation pass and never persisted.
type Room struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Devices []Device `json:"devices"`
}

// NoAreaRoomID is the synthetic bucket for entities with no resolvable area.
const NoAreaRoomID = "_no_area"

// Domain returns the namespace segment of an entity id ("light" for
// "light.kitchen"). An id without a separator returns the whole id.
func Domain(entityID string) string {
	for i := 0; i < len(entityID); i++ {
		if entityID[i] == '.' {
			return entityID[:i]
		}
	}
	return entityID
}
