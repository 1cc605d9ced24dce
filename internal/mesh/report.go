package mesh

import (
	"encoding/json"
	"fmt"
)

// Report is one capability-tagged report from a mesh device.
//
// Every field except DeviceID is optional: nil means the device did not
// report that capability this wake cycle. An all-nil report is valid and
// simply announces the device's presence.
type Report struct {
	// DeviceID is the stable, human-readable device identifier
	// (e.g. "swift-falcon-a3f2").
	DeviceID string `json:"device_id"`

	// Temperature in degrees Celsius.
	Temperature *float64 `json:"temperature,omitempty"`

	// Humidity in percent relative humidity.
	Humidity *float64 `json:"humidity,omitempty"`

	// RelayState is the device's actual relay state at report time.
	RelayState *bool `json:"relay_state,omitempty"`
}

// DecodeReport parses a report payload received for the given device.
//
// The device ID comes from the transport layer (topic address), not the
// payload; a device_id inside the payload is ignored in favour of the
// transport's.
func DecodeReport(deviceID string, payload []byte) (Report, error) {
	if deviceID == "" {
		return Report{}, ErrMissingDeviceID
	}

	var r Report
	if err := json.Unmarshal(payload, &r); err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}

	r.DeviceID = deviceID
	return r, nil
}

// relayCommand is the wire form of a relay command to a device.
type relayCommand struct {
	RelayState bool `json:"relay_state"`
}
