// Package influxdb provides InfluxDB connectivity for the mesh bridge.
//
// It wraps the official influxdb-client-go v2 library with bridge-specific
// patterns for connection management, measurement writing, and health
// monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Temperature and humidity readings from mesh devices
//   - Relay state transitions
//   - Bridge registry statistics
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "meshbridge",
//	    Bucket: "telemetry",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Record sensor readings
//	client.WriteTemperature("swift-falcon-a3f2", 21.5)
//	client.WriteHumidity("swift-falcon-a3f2", 48.2)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead for high-frequency telemetry data.
package influxdb
