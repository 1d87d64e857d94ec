// Package mqtt provides the MQTT client for Fusion Server's optional
// state republish bridge.
//
// When the bridge is enabled, mapped device state is mirrored to retained
// MQTT topics so other consumers on the local network (displays, automations,
// loggers) can follow dashboard state without talking to the platform, and
// inbound command topics are translated into platform service calls.
//
//	Platform ↔ Fusion Server ↔ MQTT Broker ↔ local consumers
//
// The package wraps paho.mqtt.golang with connection management, automatic
// reconnection with exponential backoff, subscription restoration after
// reconnect, and Last Will and Testament for offline detection.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topics := mqtt.Topics{Prefix: cfg.MQTT.TopicPrefix}
//
//	// Publish retained device state
//	err = client.PublishRetained(topics.DeviceState("light.kitchen"), payload)
//
//	// Receive inbound commands
//	err = client.Subscribe(topics.AllDeviceCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        // translate to a platform service call
//	        return nil
//	    })
//
// Thread Safety: all methods are safe for concurrent use.
package mqtt
