package bridge

import (
	"context"
	"fmt"
)

// Store key layout.
const (
	// deviceKeyPrefix prefixes per-device record keys: dev-<suffix>.
	deviceKeyPrefix = "dev-"

	// counterKey is the key holding the endpoint identifier counter.
	counterKey = "global"
)

// deviceKey returns the store key for a device suffix.
func deviceKey(suffix string) string {
	return deviceKeyPrefix + suffix
}

// Store persists bridge state as keyed records.
//
// Implementations must detect suffix collisions: saving a record whose key
// already holds a record for a different device identifier is a hard
// error, never a silent merge.
type Store interface {
	// SaveDevice upserts a device record keyed by the given suffix.
	// Returns ErrSuffixCollision if the key holds a different device.
	SaveDevice(ctx context.Context, suffix string, record *Record) error

	// LoadDevice loads one device record by suffix.
	// Returns ErrRecordNotFound if no record exists.
	LoadDevice(ctx context.Context, suffix string) (*Record, error)

	// LoadAllDevices loads every device record in the bridge namespace.
	LoadAllDevices(ctx context.Context) (map[string]*Record, error)

	// SaveCounter durably stores the endpoint identifier counter.
	SaveCounter(ctx context.Context, next uint32) error

	// LoadCounter loads the endpoint identifier counter.
	// Returns ErrRecordNotFound if the counter has never been stored.
	LoadCounter(ctx context.Context) (uint32, error)

	// DeleteDevice removes one device record. Deleting a missing record
	// is not an error.
	DeleteDevice(ctx context.Context, suffix string) error

	// EraseAll removes every record in the bridge namespace, counter
	// included. State owned by other subsystems is untouched.
	EraseAll(ctx context.Context) error
}

// validateSuffix rejects suffixes that cannot form a store key.
func validateSuffix(suffix string) error {
	if len(suffix) != suffixLength {
		return fmt.Errorf("%w: suffix %q must be %d characters", ErrInvalidDeviceID, suffix, suffixLength)
	}
	return nil
}
