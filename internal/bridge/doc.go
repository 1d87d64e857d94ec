// Package bridge mirrors mapped device state onto MQTT and translates
// inbound command topics into platform service calls.
//
// The bridge is optional. When enabled it republishes every device change
// as a retained message on {prefix}/state/{entity_id}, so local consumers
// (wall displays, automations, loggers) can follow dashboard state without
// holding their own platform session. Inbound messages on
// {prefix}/command/{entity_id} become fire-and-forget service calls.
//
//	Platform ↔ Fusion Server ↔ MQTT broker ↔ local consumers
//
// Payloads reuse the dashboard's mapped device model, not the platform's
// raw entity shape, so consumers see the same names, types, and status
// text as the dashboard itself.
package bridge
