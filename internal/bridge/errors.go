package bridge

import "errors"

// Domain errors for the bridge package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, bridge.ErrSuffixCollision) {
//	    // distinct devices share a persistence suffix
//	}
var (
	// ErrInvalidDeviceID is returned when a device identifier has no valid
	// persistence suffix (4 characters after the last '-').
	ErrInvalidDeviceID = errors.New("bridge: invalid device id")

	// ErrSuffixCollision is returned when two distinct device identifiers
	// map to the same persistence suffix. Never silently merged.
	ErrSuffixCollision = errors.New("bridge: device suffix collision")

	// ErrRecordNotFound is returned when a store key does not exist.
	ErrRecordNotFound = errors.New("bridge: record not found")

	// ErrUnknownEndpoint is returned when a command targets an endpoint
	// the registry does not own. Indicates a bookkeeping bug upstream.
	ErrUnknownEndpoint = errors.New("bridge: unknown endpoint")

	// ErrEndpointCreateFailed is returned when the framework rejects an
	// endpoint creation request.
	ErrEndpointCreateFailed = errors.New("bridge: endpoint create failed")
)
