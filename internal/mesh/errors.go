package mesh

import "errors"

// Domain errors for the mesh package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, mesh.ErrMalformedReport) {
//	    // drop the report
//	}
var (
	// ErrMissingDeviceID is returned when a report arrives without a
	// device identifier.
	ErrMissingDeviceID = errors.New("mesh: missing device id")

	// ErrMalformedReport is returned when a report payload cannot be decoded.
	ErrMalformedReport = errors.New("mesh: malformed report")

	// ErrSendFailed is returned when a command cannot be handed to the uplink.
	ErrSendFailed = errors.New("mesh: send failed")

	// ErrNotStarted is returned when operations are attempted before Start.
	ErrNotStarted = errors.New("mesh: transport not started")
)
