package device

import (
	"strconv"
	"strings"

	"github.com/egorcha174/fusion-new-sub001/internal/hass"
)

// lightKeywords reclassify a switch as a light when its name or id contains
// one of them. Checked lowercase against both the display name and the id;
// includes common Russian fixture words since localized names are frequent.
var lightKeywords = []string{
	"light", "lamp", "bulb", "chandelier",
	"свет", "лампа", "люстра", "бра", "торшер", "подсветка",
}

// applianceKeywords is the last-resort classification over name + id for
// domains with no unambiguous mapping.
var applianceKeywords = []struct {
	words []string
	typ   DeviceType
}{
	{[]string{"tv", "телевизор"}, TypeTV},
	{[]string{"playstation", "xbox", "nintendo", "game console", "приставка"}, TypeGameConsole},
	{[]string{"computer", "monitor", "pc", "компьютер", "монитор"}, TypeComputer},
	{[]string{"speaker", "колонка"}, TypeSpeaker},
	{[]string{"fan", "вентилятор"}, TypeFan},
}

// domainTypes maps domains with exactly one device type.
var domainTypes = map[string]DeviceType{
	"camera":        TypeCamera,
	"weather":       TypeWeather,
	"sensor":        TypeSensor,
	"binary_sensor": TypeBinarySensor,
	"climate":       TypeClimate,
	"fan":           TypeFan,
	"humidifier":    TypeHumidifier,
	"scene":         TypeScene,
	"automation":    TypeAutomation,
	"script":        TypeScript,
	"media_player":  TypeMediaPlayer,
	"cover":         TypeCover,
	"lock":          TypeLock,
	"vacuum":        TypeVacuum,
}

// MapEntity translates one raw entity plus its customization into a typed
// Device. Pure function: no side effects, deterministic for a fixed input.
//
// Returns nil only for a degenerate record (empty entity id). An entity
// that merely cannot be classified still maps, with TypeUnknown, so it
// stays visible on the dashboard.
//
// forecast carries out-of-band weather data for weather entities; it is
// ignored for every other type.
func MapEntity(e hass.Entity, cust Customization, forecast []ForecastStep) *Device {
	if e.EntityID == "" {
		return nil
	}

	d := &Device{
		ID:          e.EntityID,
		Name:        displayName(e),
		Type:        resolveType(e),
		State:       e.State,
		LastChanged: e.LastChanged,
		LastUpdated: e.LastUpdated,
	}

	extractCapabilities(e, d)
	if d.Type == TypeWeather {
		d.Forecast = forecast
	}
	d.Status = statusText(e, d)

	cust.apply(d)
	return d
}

// resolveType runs the classification cascade. Priority order, first match
// wins: internal namespace, exact-domain table, domain + attribute
// refinement, keyword fallback, plain-switch / unknown.
func resolveType(e hass.Entity) DeviceType {
	domain := Domain(e.EntityID)

	// 1. Virtual widgets live under the internal marker.
	if strings.HasPrefix(e.EntityID, InternalPrefix) {
		rest := strings.TrimPrefix(e.EntityID, InternalPrefix)
		switch {
		case strings.Contains(rest, "event_timer") || strings.Contains(rest, "timer"):
			return TypeEventTimer
		case strings.Contains(rest, "battery"):
			return TypeBatteryWidget
		case strings.Contains(rest, "custom"):
			return TypeCustomCard
		}
		return TypeUnknown
	}

	// 2. Domains with a single unambiguous type.
	if t, ok := domainTypes[domain]; ok {
		return t
	}

	haystack := strings.ToLower(displayName(e) + " " + e.EntityID)

	// 3. Domains needing attribute or keyword refinement.
	switch domain {
	case "light":
		if _, ok := e.Attributes["brightness"]; ok {
			return TypeDimmableLight
		}
		if modes, ok := e.Attributes["supported_color_modes"].([]any); ok {
			for _, m := range modes {
				if s, _ := m.(string); s != "onoff" && s != "" {
					return TypeDimmableLight
				}
			}
		}
		return TypeLight
	case "switch":
		if cls, _ := e.Attributes["device_class"].(string); cls == "outlet" {
			return TypeOutlet
		}
		for _, kw := range lightKeywords {
			if strings.Contains(haystack, kw) {
				return TypeLight
			}
		}
	}

	// 4. Appliance keyword fallback.
	for _, group := range applianceKeywords {
		for _, kw := range group.words {
			if strings.Contains(haystack, kw) {
				return group.typ
			}
		}
	}

	// 5. Never fail classification.
	if domain == "switch" {
		return TypeSwitch
	}
	return TypeUnknown
}

// displayName prefers the platform's friendly_name attribute, falling back
// to the object segment of the id with underscores expanded.
func displayName(e hass.Entity) string {
	if name, _ := e.Attributes["friendly_name"].(string); name != "" {
		return name
	}
	object := e.EntityID
	if i := strings.IndexByte(object, '.'); i >= 0 {
		object = object[i+1:]
	}
	object = strings.ReplaceAll(object, "_", " ")
	if object == "" {
		return e.EntityID
	}
	return strings.ToUpper(object[:1]) + object[1:]
}

// extractCapabilities copies type-relevant attributes into the device's
// optional capability fields. Attribute values arrive as JSON numbers
// (float64); integers are truncated, not rounded.
func extractCapabilities(e hass.Entity, d *Device) {
	if v, ok := numAttr(e, "brightness"); ok {
		b := int(v)
		d.Brightness = &b
	}
	if v, ok := numAttr(e, "current_temperature"); ok {
		d.Temperature = &v
	}
	if v, ok := numAttr(e, "temperature"); ok && Domain(e.EntityID) == "climate" {
		d.TargetTemperature = &v
	}
	if v, ok := numAttr(e, "current_humidity"); ok {
		d.Humidity = &v
	}
	if v, ok := numAttr(e, "humidity"); ok && d.Humidity == nil {
		d.Humidity = &v
	}
	if v, ok := numAttr(e, "battery_level"); ok {
		b := int(v)
		d.BatteryLevel = &b
	}
	if v, ok := numAttr(e, "percentage"); ok && Domain(e.EntityID) == "fan" {
		p := int(v)
		d.FanSpeed = &p
	}
	if modes, ok := e.Attributes["hvac_modes"].([]any); ok {
		for _, m := range modes {
			if s, _ := m.(string); s != "" {
				d.HvacModes = append(d.HvacModes, s)
			}
		}
	}
	d.HvacAction, _ = e.Attributes["hvac_action"].(string)
	d.MediaTitle, _ = e.Attributes["media_title"].(string)
	d.MediaArtist, _ = e.Attributes["media_artist"].(string)
	d.UnitOfMeasure, _ = e.Attributes["unit_of_measurement"].(string)
	d.DeviceClass, _ = e.Attributes["device_class"].(string)

	// A battery sensor's level is its state, not an attribute.
	if d.BatteryLevel == nil && d.DeviceClass == "battery" {
		if v, ok := parseNumber(e.State); ok {
			b := int(v)
			d.BatteryLevel = &b
		}
	}
}

func numAttr(e hass.Entity, key string) (float64, bool) {
	switch v := e.Attributes[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
