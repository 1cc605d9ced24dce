// Package mesh carries traffic between the bridge core and the mesh
// network's radio adapter.
//
// Battery-powered mesh devices wake, push a capability-tagged report, and
// sleep. The radio adapter relays those reports onto the MQTT uplink; this
// package decodes them and hands them to the bridge. In the other
// direction it publishes relay commands for the adapter to deliver on the
// device's next wake.
//
// Reports use tagged optional fields: a capability absent from a report is
// "not reported this time", which is different from a zero reading. The
// Report struct models this with pointer fields.
//
// The wire format of the mesh radio itself (framing, retries, dedup) is
// the adapter's problem, not this package's.
package mesh
