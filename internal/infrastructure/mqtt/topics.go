package mqtt

import "fmt"

// defaultTopicPrefix is used when no prefix is configured.
const defaultTopicPrefix = "fusion"

// Topics provides builders for Fusion MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
// The republish bridge uses the flat scheme: {prefix}/{category}/{device_id}
//
//	topics := mqtt.Topics{Prefix: cfg.TopicPrefix}
//	stateTopic := topics.DeviceState("light.kitchen")
//	// Returns: "fusion/state/light.kitchen"
type Topics struct {
	// Prefix overrides the topic prefix. Empty means "fusion".
	Prefix string
}

// prefix returns the configured prefix or the default.
func (t Topics) prefix() string {
	if t.Prefix == "" {
		return defaultTopicPrefix
	}
	return t.Prefix
}

// DeviceState returns the topic for republished device state.
//
// Example: fusion/state/light.kitchen
func (t Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/state/%s", t.prefix(), deviceID)
}

// DeviceCommand returns the topic pattern the bridge subscribes to for
// inbound device commands.
//
// Example: fusion/command/light.kitchen (pattern: fusion/command/+)
func (t Topics) DeviceCommand(deviceID string) string {
	return fmt.Sprintf("%s/command/%s", t.prefix(), deviceID)
}

// AllDeviceCommands returns the wildcard subscription pattern covering all
// device command topics.
func (t Topics) AllDeviceCommands() string {
	return fmt.Sprintf("%s/command/+", t.prefix())
}

// SystemStatus returns the topic for the server's online/offline status.
// Used for the Last Will and Testament message.
//
// Example: fusion/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix())
}
