package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteTemperature records a temperature reading from a mesh device.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: The mesh device identifier (e.g., "swift-falcon-a3f2")
//   - celsius: Temperature in degrees Celsius
//
// Example:
//
//	client.WriteTemperature("swift-falcon-a3f2", 21.5)
func (c *Client) WriteTemperature(deviceID string, celsius float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sensor",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"temperature_c": celsius,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteHumidity records a relative humidity reading from a mesh device.
//
// Parameters:
//   - deviceID: The mesh device identifier
//   - percent: Relative humidity in percent (0-100)
func (c *Client) WriteHumidity(deviceID string, percent float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sensor",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"humidity_pct": percent,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRelayState records a relay state observation from a mesh device.
//
// State is stored as an integer field (0 or 1) so it can be graphed and
// aggregated alongside the sensor measurements.
//
// Parameters:
//   - deviceID: The mesh device identifier
//   - on: The observed relay state
func (c *Client) WriteRelayState(deviceID string, on bool) {
	if !c.IsConnected() {
		return
	}

	state := 0
	if on {
		state = 1
	}

	point := write.NewPoint(
		"relay",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"state": state,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("bridge_stats",
//	    map[string]string{"gateway": "gateway-001"},
//	    map[string]interface{}{"devices": 12, "endpoints": 31})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
