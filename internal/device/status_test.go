package device

import (
	"testing"

	"github.com/egorcha174/fusion-new-sub001/internal/hass"
)

func statusOf(t *testing.T, e hass.Entity) string {
	t.Helper()
	d := MapEntity(e, Customization{}, nil)
	if d == nil {
		t.Fatalf("entity %s did not map", e.EntityID)
	}
	return d.Status
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		name string
		e    hass.Entity
		want string
	}{
		{"unavailable wins", entity("light.a", "unavailable", nil), "Unavailable"},
		{"unknown wins", entity("sensor.a", "unknown", nil), "Unknown"},

		{"climate action over mode", entity("climate.a", "heat", map[string]any{"hvac_action": "heating"}), "Heating"},
		{"climate mode when idle-less", entity("climate.a", "heat", nil), "Heat"},

		{"media artist and title", entity("media_player.a", "playing", map[string]any{
			"media_artist": "Daft Punk", "media_title": "Voyager"}), "Daft Punk – Voyager"},
		{"media title only", entity("media_player.a", "playing", map[string]any{"media_title": "News"}), "News"},
		{"media generic playing", entity("media_player.a", "playing", nil), "Playing"},
		{"media paused", entity("media_player.a", "paused", nil), "Paused"},

		{"weather vocabulary", entity("weather.a", "partlycloudy", nil), "Partly cloudy"},
		{"weather unmapped condition", entity("weather.a", "meteor-shower", nil), "Meteor-shower"},

		{"automation enabled", entity("automation.a", "on", nil), "Enabled"},
		{"automation disabled", entity("automation.a", "off", nil), "Disabled"},
		{"script ready", entity("script.a", "off", nil), "Ready"},
		{"scene ready", entity("scene.a", "scening", nil), "Ready"},

		{"sensor passes state with unit", entity("sensor.a", "21.5", map[string]any{"unit_of_measurement": "°C"}), "21.5 °C"},
		{"sensor passes bare state", entity("sensor.a", "42", nil), "42"},

		{"generic on", entity("switch.pump", "on", nil), "On"},
		{"generic off", entity("switch.pump", "off", nil), "Off"},
		{"fallback capitalizes", entity("vacuum.a", "docked", nil), "Docked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusOf(t, tt.e); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
