package device

import (
	"strings"

	"github.com/egorcha174/fusion-new-sub001/internal/hass"
)

// weatherConditions maps the platform's fixed condition vocabulary to
// display text.
var weatherConditions = map[string]string{
	"clear-night":     "Clear",
	"cloudy":          "Cloudy",
	"fog":             "Fog",
	"hail":            "Hail",
	"lightning":       "Lightning",
	"lightning-rainy": "Thunderstorm",
	"partlycloudy":    "Partly cloudy",
	"pouring":         "Pouring rain",
	"rainy":           "Rain",
	"snowy":           "Snow",
	"snowy-rainy":     "Sleet",
	"sunny":           "Sunny",
	"windy":           "Windy",
	"windy-variant":   "Windy",
	"exceptional":     "Exceptional",
}

// hvacActionText maps active hvac actions to display text. The action word
// ("heating") is preferred over the idle mode word ("heat") when present.
var hvacActionText = map[string]string{
	"heating":    "Heating",
	"cooling":    "Cooling",
	"drying":     "Drying",
	"fan":        "Fan",
	"idle":       "Idle",
	"off":        "Off",
	"preheating": "Preheating",
	"defrosting": "Defrosting",
}

// statusText derives the human-readable status line for a card. Rules are
// domain-specific; unavailable and unknown states win over everything.
func statusText(e hass.Entity, d *Device) string {
	switch e.State {
	case "unavailable":
		return "Unavailable"
	case "unknown":
		return "Unknown"
	}

	switch Domain(e.EntityID) {
	case "climate":
		if d.HvacAction != "" {
			if text, ok := hvacActionText[d.HvacAction]; ok {
				return text
			}
		}
		return capitalize(e.State)

	case "media_player":
		if e.State == "playing" {
			if d.MediaArtist != "" && d.MediaTitle != "" {
				return d.MediaArtist + " – " + d.MediaTitle
			}
			if d.MediaTitle != "" {
				return d.MediaTitle
			}
			return "Playing"
		}
		return capitalize(e.State)

	case "weather":
		if text, ok := weatherConditions[e.State]; ok {
			return text
		}
		return capitalize(e.State)

	case "automation":
		if e.State == "on" {
			return "Enabled"
		}
		return "Disabled"

	case "script", "scene":
		if e.State == "on" {
			return "Running"
		}
		return "Ready"

	case "sensor":
		// Raw state; numeric formatting is the renderer's concern.
		if d.UnitOfMeasure != "" {
			return e.State + " " + d.UnitOfMeasure
		}
		return e.State

	case "lock":
		if e.State == "locked" {
			return "Locked"
		}
		return "Unlocked"
	}

	switch e.State {
	case "on":
		return "On"
	case "off":
		return "Off"
	}
	return capitalize(e.State)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
