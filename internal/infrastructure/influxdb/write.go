package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteEntityMetric records a single numeric reading for an entity.
//
// This is the primary method used by the telemetry recorder: every numeric
// state or attribute observed on the event stream is written here so local
// history charts do not need a platform round-trip for recent data.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - entityID: Platform entity id (e.g. "sensor.living_room_temperature")
//   - measurement: The value being recorded (e.g. "state", "brightness")
//   - value: The numeric value
//
// Example:
//
//	client.WriteEntityMetric("sensor.outdoor_temp", "state", 21.5)
//	client.WriteEntityMetric("light.kitchen", "brightness", 187)
func (c *Client) WriteEntityMetric(entityID string, measurement string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"entity_metrics",
		map[string]string{
			"entity_id":   entityID,
			"measurement": measurement,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteBatteryLevel records a battery percentage for an entity.
//
// Kept as a separate measurement so the low-battery widget can query
// battery series without scanning general entity metrics.
func (c *Client) WriteBatteryLevel(entityID string, percent float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"battery",
		map[string]string{
			"entity_id": entityID,
		},
		map[string]interface{}{
			"percent": percent,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordEntityState extracts the numeric signals from one observed entity
// state and writes them: a parseable numeric state becomes the "state"
// measurement, and the brightness and battery_level attributes are recorded
// when present. Non-numeric states are skipped silently; most entities
// (lights, switches) report words, not numbers.
func (c *Client) RecordEntityState(entityID, state string, attributes map[string]any) {
	if !c.IsConnected() {
		return
	}

	if v, err := strconv.ParseFloat(state, 64); err == nil {
		c.WriteEntityMetric(entityID, "state", v)
	}
	if v, ok := attributes["brightness"].(float64); ok {
		c.WriteEntityMetric(entityID, "brightness", v)
	}
	if v, ok := attributes["battery_level"].(float64); ok {
		c.WriteBatteryLevel(entityID, v)
	}
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Used when backfilling samples fetched from the platform's history API,
// where the timestamp is the original sample time rather than "now".
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
