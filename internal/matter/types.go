package matter

// EndpointID identifies an endpoint on the bridge node.
// ID 0 is the root node endpoint and is never assigned to a bridged device.
type EndpointID uint32

// ClusterID identifies a cluster within an endpoint.
type ClusterID uint32

// AttributeID identifies an attribute within a cluster.
type AttributeID uint32

// DeviceTypeID identifies a Matter device type.
type DeviceTypeID uint32

// Matter cluster identifiers used by the bridge.
const (
	ClusterOnOff                       ClusterID = 0x0006
	ClusterTemperatureMeasurement      ClusterID = 0x0402
	ClusterRelativeHumidityMeasurement ClusterID = 0x0405
)

// Matter attribute identifiers used by the bridge.
const (
	// AttrOnOff is the OnOff cluster's OnOff attribute.
	AttrOnOff AttributeID = 0x0000

	// AttrMeasuredValue is the MeasuredValue attribute shared by the
	// temperature and humidity measurement clusters.
	AttrMeasuredValue AttributeID = 0x0000
)

// Matter device type identifiers used by the bridge.
const (
	DeviceTypeOnOffPlugInUnit   DeviceTypeID = 0x010A
	DeviceTypeTemperatureSensor DeviceTypeID = 0x0302
	DeviceTypeHumiditySensor    DeviceTypeID = 0x0307
)

// ValueKind discriminates the payload carried by an AttrValue.
type ValueKind int

const (
	// KindBool carries a plain boolean (OnOff).
	KindBool ValueKind = iota

	// KindInt16 carries a nullable signed 16-bit value (temperature).
	KindInt16

	// KindUint16 carries a nullable unsigned 16-bit value (humidity).
	KindUint16
)

// AttrValue is a typed attribute value in the framework's encoding.
//
// Nullable kinds use the Null flag; a null MeasuredValue means "no reading
// available". Bool values are never null.
type AttrValue struct {
	Kind   ValueKind
	Null   bool
	Bool   bool
	Int16  int16
	Uint16 uint16
}

// BoolValue returns a boolean attribute value.
func BoolValue(v bool) AttrValue {
	return AttrValue{Kind: KindBool, Bool: v}
}

// Int16Value returns a non-null signed 16-bit attribute value.
func Int16Value(v int16) AttrValue {
	return AttrValue{Kind: KindInt16, Int16: v}
}

// Uint16Value returns a non-null unsigned 16-bit attribute value.
func Uint16Value(v uint16) AttrValue {
	return AttrValue{Kind: KindUint16, Uint16: v}
}

// NullInt16 returns a null signed 16-bit attribute value.
func NullInt16() AttrValue {
	return AttrValue{Kind: KindInt16, Null: true}
}

// NullUint16 returns a null unsigned 16-bit attribute value.
func NullUint16() AttrValue {
	return AttrValue{Kind: KindUint16, Null: true}
}

// Scaling bounds for measurement conversion.
const (
	maxInt16  = 32767
	minInt16  = -32768
	maxUint16 = 65535
)

// TemperatureValue converts degrees Celsius to the TemperatureMeasurement
// cluster's encoding: signed centidegrees (21.50 °C → 2150).
// Out-of-range readings are clamped to the int16 range.
func TemperatureValue(celsius float64) AttrValue {
	scaled := celsius * 100
	switch {
	case scaled > maxInt16:
		scaled = maxInt16
	case scaled < minInt16:
		scaled = minInt16
	}
	return Int16Value(int16(scaled))
}

// HumidityValue converts percent relative humidity to the
// RelativeHumidityMeasurement cluster's encoding: unsigned hundredths of
// a percent (48.20 %RH → 4820). Readings are clamped to [0, 655.35].
func HumidityValue(percent float64) AttrValue {
	scaled := percent * 100
	switch {
	case scaled > maxUint16:
		scaled = maxUint16
	case scaled < 0:
		scaled = 0
	}
	return Uint16Value(uint16(scaled))
}

// Cluster describes one cluster on an endpoint.
//
// Init is the cluster's one-time activation hook. The framework runs these
// automatically for endpoints present at startup; dynamically created or
// resumed endpoints bypass that path, so the bridge replays Init itself
// after creation.
type Cluster struct {
	ID   ClusterID
	Init func() error
}

// Endpoint is a handle to a live endpoint in the framework's data model.
type Endpoint struct {
	ID         EndpointID
	DeviceType DeviceTypeID
	Label      string
	Clusters   []Cluster
}
