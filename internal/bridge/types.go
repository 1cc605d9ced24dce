package bridge

import (
	"fmt"
	"strings"
	"time"

	"github.com/oakpine/meshbridge-core/internal/matter"
)

// Capability names one bridgeable function of a mesh device.
type Capability string

// Capabilities a mesh device can report.
const (
	CapabilityPlug        Capability = "plug"
	CapabilityTemperature Capability = "temperature"
	CapabilityHumidity    Capability = "humidity"
)

// capabilities lists all known capabilities in a stable order.
var capabilities = []Capability{
	CapabilityPlug,
	CapabilityTemperature,
	CapabilityHumidity,
}

// DeviceType returns the Matter device type exposed for this capability.
func (c Capability) DeviceType() matter.DeviceTypeID {
	switch c {
	case CapabilityPlug:
		return matter.DeviceTypeOnOffPlugInUnit
	case CapabilityTemperature:
		return matter.DeviceTypeTemperatureSensor
	case CapabilityHumidity:
		return matter.DeviceTypeHumiditySensor
	}
	return 0
}

// Cluster returns the cluster carrying this capability's primary attribute.
func (c Capability) Cluster() matter.ClusterID {
	switch c {
	case CapabilityPlug:
		return matter.ClusterOnOff
	case CapabilityTemperature:
		return matter.ClusterTemperatureMeasurement
	case CapabilityHumidity:
		return matter.ClusterRelativeHumidityMeasurement
	}
	return 0
}

// suffixLength is the fixed length of a device's persistence suffix.
const suffixLength = 4

// DeviceSuffix extracts the persistence suffix from a device identifier:
// the fixed 4-character tail after the last '-'.
//
// Returns ErrInvalidDeviceID if the identifier has no '-' or the tail is
// not exactly 4 characters.
func DeviceSuffix(deviceID string) (string, error) {
	idx := strings.LastIndex(deviceID, "-")
	if idx < 0 {
		return "", fmt.Errorf("%w: %q has no suffix separator", ErrInvalidDeviceID, deviceID)
	}
	suffix := deviceID[idx+1:]
	if len(suffix) != suffixLength {
		return "", fmt.Errorf("%w: %q suffix must be %d characters", ErrInvalidDeviceID, deviceID, suffixLength)
	}
	return suffix, nil
}

// PendingCommand is the single-slot command queue entry for one device.
// Newest intent wins; there is no history and no expiry.
type PendingCommand struct {
	RelayState bool
}

// LastKnown holds the sticky last-observed values for one device.
// A nil field means the capability has never been observed; once set a
// value is updated but never cleared.
type LastKnown struct {
	Temperature *float64
	Humidity    *float64
	Relay       *bool
}

// Device is the in-memory registry entry for one bridged mesh device.
//
// Endpoints maps each capability to its allocated endpoint identifier
// (absent or 0 = not yet created). Handles holds the live framework
// handles; the invariant is that a non-zero Endpoints entry has a
// matching live handle while the process runs.
type Device struct {
	ID     string
	Suffix string

	Endpoints map[Capability]matter.EndpointID
	Handles   map[Capability]*matter.Endpoint

	LastKnown LastKnown
	Pending   *PendingCommand

	// LastSeen is in-memory only; it resets on restart.
	LastSeen time.Time
}

// newDevice creates an empty in-memory device entry.
func newDevice(id, suffix string) *Device {
	return &Device{
		ID:        id,
		Suffix:    suffix,
		Endpoints: make(map[Capability]matter.EndpointID),
		Handles:   make(map[Capability]*matter.Endpoint),
	}
}

// Record is the persisted projection of a Device.
//
// Optional values carry explicit has_* flags so that "never observed"
// survives the round trip (a zero temperature is a real reading).
type Record struct {
	DeviceID string `json:"device_id"`

	PlugEndpointID        uint32 `json:"plug_endpoint_id"`
	TemperatureEndpointID uint32 `json:"temp_endpoint_id"`
	HumidityEndpointID    uint32 `json:"humidity_endpoint_id"`

	HasTemperature bool    `json:"has_temperature"`
	Temperature    float64 `json:"temperature"`

	HasHumidity bool    `json:"has_humidity"`
	Humidity    float64 `json:"humidity"`

	HasRelay   bool `json:"has_relay_state"`
	RelayState bool `json:"relay_state"`
}

// record builds the persisted projection of the device.
func (d *Device) record() *Record {
	r := &Record{
		DeviceID:              d.ID,
		PlugEndpointID:        uint32(d.Endpoints[CapabilityPlug]),
		TemperatureEndpointID: uint32(d.Endpoints[CapabilityTemperature]),
		HumidityEndpointID:    uint32(d.Endpoints[CapabilityHumidity]),
	}
	if d.LastKnown.Temperature != nil {
		r.HasTemperature = true
		r.Temperature = *d.LastKnown.Temperature
	}
	if d.LastKnown.Humidity != nil {
		r.HasHumidity = true
		r.Humidity = *d.LastKnown.Humidity
	}
	if d.LastKnown.Relay != nil {
		r.HasRelay = true
		r.RelayState = *d.LastKnown.Relay
	}
	return r
}

// deviceFromRecord rebuilds the in-memory entry from a persisted record.
// Endpoint handles are not attached here; Restore resumes them.
func deviceFromRecord(r *Record, suffix string) *Device {
	d := newDevice(r.DeviceID, suffix)
	if r.PlugEndpointID != 0 {
		d.Endpoints[CapabilityPlug] = matter.EndpointID(r.PlugEndpointID)
	}
	if r.TemperatureEndpointID != 0 {
		d.Endpoints[CapabilityTemperature] = matter.EndpointID(r.TemperatureEndpointID)
	}
	if r.HumidityEndpointID != 0 {
		d.Endpoints[CapabilityHumidity] = matter.EndpointID(r.HumidityEndpointID)
	}
	if r.HasTemperature {
		v := r.Temperature
		d.LastKnown.Temperature = &v
	}
	if r.HasHumidity {
		v := r.Humidity
		d.LastKnown.Humidity = &v
	}
	if r.HasRelay {
		v := r.RelayState
		d.LastKnown.Relay = &v
	}
	return d
}
