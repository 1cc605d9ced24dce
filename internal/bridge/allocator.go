package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/oakpine/meshbridge-core/internal/matter"
)

// firstEndpointID is the first identifier ever allocated.
// Endpoint 0 is reserved as "unassigned".
const firstEndpointID = 1

// Allocator hands out endpoint identifiers that are monotonic for the
// life of the installation and never reused.
//
// The in-memory counter is authoritative. Allocate commits next+1 before
// handing out an identifier; if the commit fails the identifier is still
// returned and the commit is retried on the next registry mutation, so
// monotonicity within a process lifetime is never violated. An
// uncommitted counter lost to a crash is the accepted durability gap.
//
// Not safe for concurrent use on its own; the Registry calls it under its
// lock.
type Allocator struct {
	store  Store
	next   matter.EndpointID
	dirty  bool
	logger Logger
}

// NewAllocator creates an allocator starting at the first identifier.
// Call Load to pick up a persisted counter.
func NewAllocator(store Store) *Allocator {
	return &Allocator{
		store:  store,
		next:   firstEndpointID,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the allocator.
func (a *Allocator) SetLogger(logger Logger) {
	a.logger = logger
}

// Load reads the persisted counter. A missing counter is a fresh
// installation and leaves the counter at the first identifier.
func (a *Allocator) Load(ctx context.Context) error {
	next, err := a.store.LoadCounter(ctx)
	if errors.Is(err, ErrRecordNotFound) {
		a.next = firstEndpointID
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading endpoint counter: %w", err)
	}

	a.next = matter.EndpointID(next)
	a.logger.Debug("endpoint counter loaded", "next", a.next)
	return nil
}

// Allocate returns the next endpoint identifier and commits the advanced
// counter. A failed commit is logged, marks the allocator dirty, and does
// not block the allocation.
func (a *Allocator) Allocate(ctx context.Context) matter.EndpointID {
	id := a.next
	a.next++

	if err := a.store.SaveCounter(ctx, uint32(a.next)); err != nil {
		a.dirty = true
		a.logger.Error("endpoint counter commit failed, will retry",
			"allocated", id,
			"next", a.next,
			"error", err,
		)
	} else {
		a.dirty = false
	}

	return id
}

// RetryPersist re-commits the counter if a previous commit failed.
func (a *Allocator) RetryPersist(ctx context.Context) {
	if !a.dirty {
		return
	}
	if err := a.store.SaveCounter(ctx, uint32(a.next)); err != nil {
		a.logger.Error("endpoint counter retry commit failed", "next", a.next, "error", err)
		return
	}
	a.dirty = false
	a.logger.Info("endpoint counter recovered", "next", a.next)
}

// Next returns the identifier the next allocation would produce.
func (a *Allocator) Next() matter.EndpointID {
	return a.next
}

// Reset returns the allocator to a fresh-installation state.
// Used only by EraseAll, which removes the persisted counter too.
func (a *Allocator) Reset() {
	a.next = firstEndpointID
	a.dirty = false
}
