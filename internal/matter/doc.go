// Package matter defines the contract between the bridge core and the
// smart-home integration framework.
//
// The bridge does not talk to a Matter stack directly. It talks to a
// Provider: a narrow interface covering the five operations the bridge
// needs (create endpoint, resume endpoint, enable, set label, update
// attribute) plus registration of attribute-write notifications flowing
// the other way. The production Provider is implemented by the framework
// adapter; tests use a hand-rolled fake.
//
// # Value encoding
//
// Attribute values mirror the framework's wire encoding:
//   - Temperature: nullable int16, centidegrees Celsius (21.50 °C → 2150)
//   - Humidity: nullable uint16, hundredths of %RH (48.20 %RH → 4820)
//   - Relay: plain bool
//
// Cluster, attribute, and device type identifiers use Matter values
// throughout (OnOff 0x0006, TemperatureMeasurement 0x0402,
// RelativeHumidityMeasurement 0x0405).
package matter
