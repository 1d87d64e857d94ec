package mqtt

import "testing"

func TestTopicsDefaultPrefix(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"device state", topics.DeviceState("light.kitchen"), "fusion/state/light.kitchen"},
		{"device command", topics.DeviceCommand("light.kitchen"), "fusion/command/light.kitchen"},
		{"command wildcard", topics.AllDeviceCommands(), "fusion/command/+"},
		{"system status", topics.SystemStatus(), "fusion/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestTopicsCustomPrefix(t *testing.T) {
	topics := Topics{Prefix: "home/dash"}

	if got, want := topics.DeviceState("switch.fan"), "home/dash/state/switch.fan"; got != want {
		t.Errorf("DeviceState: got %q, want %q", got, want)
	}
	if got, want := topics.SystemStatus(), "home/dash/system/status"; got != want {
		t.Errorf("SystemStatus: got %q, want %q", got, want)
	}
}
