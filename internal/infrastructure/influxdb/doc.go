// Package influxdb provides the local telemetry recorder for Fusion Server.
//
// When enabled, numeric entity states observed on the platform event stream
// are written to an InfluxDB v2 bucket so that history charts can be served
// locally without a platform round-trip for recent data. The platform's own
// history API remains the source for ranges older than local retention.
//
// Writes are non-blocking and batched by the influxdb-client-go write API;
// async write failures are delivered through the SetOnError callback.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteEntityMetric("sensor.outdoor_temp", "state", 21.5)
package influxdb
