package mesh

// ReportHandler receives decoded device reports.
//
// Handlers are invoked from the transport's receive path and should return
// quickly; long-running work belongs on the caller's side.
type ReportHandler func(report Report)

// Transport moves reports and commands between the bridge and the mesh.
//
// Implementations must be safe for concurrent use.
type Transport interface {
	// Start begins delivering reports to the handler.
	Start(handler ReportHandler) error

	// SendRelayCommand hands a relay command to the uplink for delivery on
	// the device's next wake. Fire-and-forget beyond the uplink: there is
	// no acknowledgement from the device.
	SendRelayCommand(deviceID string, on bool) error

	// Close stops the transport.
	Close() error
}
