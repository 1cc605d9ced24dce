package bridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oakpine/meshbridge-core/internal/matter"
	"github.com/oakpine/meshbridge-core/internal/mesh"
)

// Logger defines the logging interface used by the bridge package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// CommandSender delivers relay commands to the mesh.
// mesh.Transport satisfies this.
type CommandSender interface {
	SendRelayCommand(deviceID string, on bool) error
}

// Telemetry records accepted sensor observations.
// The influxdb client satisfies this; tests and disabled deployments use
// the noop default.
type Telemetry interface {
	WriteTemperature(deviceID string, celsius float64)
	WriteHumidity(deviceID string, percent float64)
	WriteRelayState(deviceID string, on bool)
}

// noopTelemetry is a telemetry sink that does nothing.
type noopTelemetry struct{}

func (noopTelemetry) WriteTemperature(string, float64) {}
func (noopTelemetry) WriteHumidity(string, float64)    {}
func (noopTelemetry) WriteRelayState(string, bool)     {}

// Stats is a point-in-time summary of the registry.
type Stats struct {
	Devices   int
	Endpoints map[Capability]int
	Pending   int
}

// Registry reconciles mesh reports with the bridged endpoint registry.
//
// One mutex guards the registry, the command queue, and the identifier
// counter for the full duration of every operation. Helpers that assume
// the lock is held are unexported and suffixed Locked; no re-acquisition
// ever happens under the lock.
//
// The mesh-origin flag is an atomic checked by HandleAttributeWrite
// before taking the lock, so frameworks that deliver write notifications
// synchronously from UpdateAttribute cannot deadlock the report path.
type Registry struct {
	mu sync.Mutex

	store     Store
	endpoints *endpointManager
	allocator *Allocator
	sender    CommandSender

	// devices by persistence suffix; byPlugEndpoint resolves command
	// targets back to their owning device.
	devices        map[string]*Device
	byPlugEndpoint map[matter.EndpointID]*Device

	updatingFromMesh atomic.Bool

	logger    Logger
	telemetry Telemetry
}

// NewRegistry creates a bridge registry.
//
// Parameters:
//   - store: Durable record store
//   - provider: Integration framework adapter
//   - sender: Mesh command uplink
//   - aggregator: Endpoint the bridge parents dynamic endpoints under
func NewRegistry(store Store, provider matter.Provider, sender CommandSender, aggregator matter.EndpointID) *Registry {
	return &Registry{
		store:          store,
		endpoints:      newEndpointManager(provider, aggregator),
		allocator:      NewAllocator(store),
		sender:         sender,
		devices:        make(map[string]*Device),
		byPlugEndpoint: make(map[matter.EndpointID]*Device),
		logger:         noopLogger{},
		telemetry:      noopTelemetry{},
	}
}

// SetLogger sets the logger for the registry and its internals.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
	r.allocator.SetLogger(logger)
	r.endpoints.logger = logger
}

// SetTelemetry sets the telemetry sink for accepted observations.
func (r *Registry) SetTelemetry(t Telemetry) {
	r.telemetry = t
}

// Restore rebuilds the in-memory registry from the store.
//
// Each stored non-zero capability endpoint is resumed with its original
// identifier. Resume failures are non-fatal: the capability is zeroed in
// memory and repaired by creation on the device's next report carrying
// it. The identifier counter is loaded unchanged; restoring never
// allocates.
func (r *Registry) Restore(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.allocator.Load(ctx); err != nil {
		return err
	}

	records, err := r.store.LoadAllDevices(ctx)
	if err != nil {
		return fmt.Errorf("loading device records: %w", err)
	}

	resumed, failed := 0, 0
	for suffix, record := range records {
		dev := deviceFromRecord(record, suffix)

		for _, capability := range capabilities {
			id, ok := dev.Endpoints[capability]
			if !ok || id == 0 {
				continue
			}

			handle, err := r.endpoints.resume(dev.ID, capability, id)
			if err != nil {
				r.logger.Warn("endpoint resume failed, will recreate on next report",
					"device_id", dev.ID,
					"capability", capability,
					"endpoint_id", id,
					"error", err,
				)
				delete(dev.Endpoints, capability)
				failed++
				continue
			}

			dev.Handles[capability] = handle
			if capability == CapabilityPlug {
				r.byPlugEndpoint[id] = dev
			}
			resumed++
		}

		r.devices[suffix] = dev
	}

	r.logger.Info("bridge state restored",
		"devices", len(r.devices),
		"endpoints_resumed", resumed,
		"endpoints_failed", failed,
		"next_endpoint_id", r.allocator.Next(),
	)
	return nil
}

// OnReport reconciles one device report.
//
// The full sequence runs under the registry lock: adopt or look up the
// device, create endpoints for newly seen capabilities, merge reported
// values, persist, then either deliver a pending command (suppressing the
// presumed-stale relay echo) or push all known values into the framework's
// attribute tree.
func (r *Registry) OnReport(ctx context.Context, report mesh.Report) error {
	suffix, err := DeviceSuffix(report.DeviceID)
	if err != nil {
		r.logger.Warn("dropping report with unkeyable device id",
			"device_id", report.DeviceID,
			"error", err,
		)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dev, err := r.adoptLocked(ctx, report.DeviceID, suffix)
	if err != nil {
		return err
	}
	dev.LastSeen = time.Now()

	r.ensureEndpointsLocked(ctx, dev, report)
	r.mergeLocked(dev, report)

	if err := r.store.SaveDevice(ctx, suffix, dev.record()); err != nil {
		r.logger.Warn("device record persist failed, in-memory state authoritative",
			"device_id", dev.ID,
			"error", err,
		)
	}
	r.allocator.RetryPersist(ctx)

	// Device is awake now: deliver pending intent if any. The relay value
	// in this report predates the command, so it is not pushed.
	suppressRelay := false
	if dev.Pending != nil {
		cmd := *dev.Pending
		dev.Pending = nil
		suppressRelay = true

		if err := r.sender.SendRelayCommand(dev.ID, cmd.RelayState); err != nil {
			r.logger.Error("pending command delivery failed",
				"device_id", dev.ID,
				"relay_state", cmd.RelayState,
				"error", err,
			)
		} else {
			r.logger.Info("pending command delivered",
				"device_id", dev.ID,
				"relay_state", cmd.RelayState,
			)
		}
	}

	r.pushStateLocked(dev, suppressRelay)
	return nil
}

// QueueCommand records controller intent for the device owning the given
// plug endpoint. Single slot: newest intent wins. Delivery happens on the
// device's next report.
func (r *Registry) QueueCommand(endpointID matter.EndpointID, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.byPlugEndpoint[endpointID]
	if !ok {
		r.logger.Warn("discarding command for unknown endpoint",
			"endpoint_id", endpointID,
			"relay_state", on,
		)
		return fmt.Errorf("%w: %d", ErrUnknownEndpoint, endpointID)
	}

	dev.Pending = &PendingCommand{RelayState: on}

	// Every mutating path retries an uncommitted identifier counter.
	r.allocator.RetryPersist(context.Background())

	r.logger.Debug("command queued",
		"device_id", dev.ID,
		"endpoint_id", endpointID,
		"relay_state", on,
	)
	return nil
}

// HandleAttributeWrite routes controller-origin OnOff writes on plug
// endpoints into the command queue. Writes made by the bridge's own
// state pushes are ignored via the mesh-origin flag, checked before the
// lock so synchronous notification delivery cannot deadlock.
//
// Satisfies matter.AttributeWriteHandler.
func (r *Registry) HandleAttributeWrite(id matter.EndpointID, cluster matter.ClusterID, attr matter.AttributeID, value matter.AttrValue) {
	if r.updatingFromMesh.Load() {
		return
	}
	if cluster != matter.ClusterOnOff || attr != matter.AttrOnOff || value.Kind != matter.KindBool {
		return
	}

	// Unknown endpoints are logged and discarded inside QueueCommand.
	_ = r.QueueCommand(id, value.Bool)
}

// EraseAll removes every record in the bridge namespace and clears the
// in-memory registry. The only path that destroys device records.
func (r *Registry) EraseAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.EraseAll(ctx); err != nil {
		return fmt.Errorf("erasing bridge state: %w", err)
	}

	count := len(r.devices)
	r.devices = make(map[string]*Device)
	r.byPlugEndpoint = make(map[matter.EndpointID]*Device)
	r.allocator.Reset()

	r.logger.Warn("bridge state erased", "devices_removed", count)
	return nil
}

// Stats returns a snapshot of registry contents.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{
		Devices:   len(r.devices),
		Endpoints: make(map[Capability]int),
	}
	for _, dev := range r.devices {
		for capability, id := range dev.Endpoints {
			if id != 0 {
				stats.Endpoints[capability]++
			}
		}
		if dev.Pending != nil {
			stats.Pending++
		}
	}
	return stats
}

// adoptLocked looks up or creates the device entry for a report.
// A suffix held by a different device identifier is a hard error.
func (r *Registry) adoptLocked(_ context.Context, deviceID, suffix string) (*Device, error) {
	dev, ok := r.devices[suffix]
	if !ok {
		dev = newDevice(deviceID, suffix)
		r.devices[suffix] = dev
		r.logger.Info("device adopted", "device_id", deviceID, "suffix", suffix)
		return dev, nil
	}

	if dev.ID != deviceID {
		r.logger.Error("device suffix collision",
			"suffix", suffix,
			"existing", dev.ID,
			"incoming", deviceID,
		)
		return nil, fmt.Errorf("%w: %q vs %q", ErrSuffixCollision, dev.ID, deviceID)
	}
	return dev, nil
}

// ensureEndpointsLocked creates endpoints for capabilities present in the
// report that have none yet. Creation failures are logged and retried on
// the next report carrying the capability; the allocated identifier is
// discarded, never reused.
func (r *Registry) ensureEndpointsLocked(ctx context.Context, dev *Device, report mesh.Report) {
	ensure := func(capability Capability) {
		if dev.Endpoints[capability] != 0 {
			return
		}

		id := r.allocator.Allocate(ctx)
		handle, err := r.endpoints.create(dev.ID, capability, id)
		if err != nil {
			r.logger.Error("endpoint creation failed, will retry on next report",
				"device_id", dev.ID,
				"capability", capability,
				"error", err,
			)
			return
		}

		dev.Endpoints[capability] = id
		dev.Handles[capability] = handle
		if capability == CapabilityPlug {
			r.byPlugEndpoint[id] = dev
		}
	}

	if report.RelayState != nil {
		ensure(CapabilityPlug)
	}
	if report.Temperature != nil {
		ensure(CapabilityTemperature)
	}
	if report.Humidity != nil {
		ensure(CapabilityHumidity)
	}
}

// mergeLocked folds reported values into the device's sticky last-known
// state and records telemetry for each present field.
func (r *Registry) mergeLocked(dev *Device, report mesh.Report) {
	if report.Temperature != nil {
		v := *report.Temperature
		dev.LastKnown.Temperature = &v
		r.telemetry.WriteTemperature(dev.ID, v)
	}
	if report.Humidity != nil {
		v := *report.Humidity
		dev.LastKnown.Humidity = &v
		r.telemetry.WriteHumidity(dev.ID, v)
	}
	if report.RelayState != nil {
		v := *report.RelayState
		dev.LastKnown.Relay = &v
		r.telemetry.WriteRelayState(dev.ID, v)
	}
}

// pushStateLocked pushes all known values into the framework's attribute
// tree with the mesh-origin flag set. The relay value is skipped while a
// command was just delivered in its place.
func (r *Registry) pushStateLocked(dev *Device, suppressRelay bool) {
	r.updatingFromMesh.Store(true)
	defer r.updatingFromMesh.Store(false)

	push := func(capability Capability, attr matter.AttributeID, value matter.AttrValue) {
		id := dev.Endpoints[capability]
		if id == 0 || dev.Handles[capability] == nil {
			return
		}
		if err := r.endpoints.provider.UpdateAttribute(id, capability.Cluster(), attr, value); err != nil {
			r.logger.Warn("attribute push failed",
				"device_id", dev.ID,
				"capability", capability,
				"endpoint_id", id,
				"error", err,
			)
		}
	}

	if !suppressRelay && dev.LastKnown.Relay != nil {
		push(CapabilityPlug, matter.AttrOnOff, matter.BoolValue(*dev.LastKnown.Relay))
	}
	if dev.LastKnown.Temperature != nil {
		push(CapabilityTemperature, matter.AttrMeasuredValue, matter.TemperatureValue(*dev.LastKnown.Temperature))
	}
	if dev.LastKnown.Humidity != nil {
		push(CapabilityHumidity, matter.AttrMeasuredValue, matter.HumidityValue(*dev.LastKnown.Humidity))
	}
}
