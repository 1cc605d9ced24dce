package matter

import (
	"fmt"
	"sync"
)

// MemoryProvider is an in-process Provider backed by a plain attribute
// tree. It stands in for a real integration framework SDK: the data
// model is held in memory and controller-origin writes are injected via
// WriteAttribute (wired to a management surface or a test).
//
// Safe for concurrent use.
type MemoryProvider struct {
	mu        sync.Mutex
	endpoints map[EndpointID]*memoryEndpoint
	handler   AttributeWriteHandler

	clusterFactory func(deviceType DeviceTypeID) []Cluster
}

type memoryEndpoint struct {
	ep      *Endpoint
	enabled bool
	attrs   map[attrKey]AttrValue
}

type attrKey struct {
	cluster ClusterID
	attr    AttributeID
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		endpoints: make(map[EndpointID]*memoryEndpoint),
	}
}

// SetClusterFactory installs a hook that builds the cluster list for
// newly created endpoints. Without one, endpoints carry the default
// cluster for their device type with a no-op init hook.
func (p *MemoryProvider) SetClusterFactory(f func(deviceType DeviceTypeID) []Cluster) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clusterFactory = f
}

// defaultClusters returns the primary cluster for a device type.
func defaultClusters(deviceType DeviceTypeID) []Cluster {
	var id ClusterID
	switch deviceType {
	case DeviceTypeOnOffPlugInUnit:
		id = ClusterOnOff
	case DeviceTypeTemperatureSensor:
		id = ClusterTemperatureMeasurement
	case DeviceTypeHumiditySensor:
		id = ClusterRelativeHumidityMeasurement
	default:
		return nil
	}
	return []Cluster{{ID: id}}
}

// CreateEndpoint implements Provider.
func (p *MemoryProvider) CreateEndpoint(_ EndpointID, deviceType DeviceTypeID, id EndpointID) (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.endpoints[id]; exists {
		return nil, fmt.Errorf("matter: endpoint %d already exists", id)
	}

	clusters := defaultClusters(deviceType)
	if p.clusterFactory != nil {
		clusters = p.clusterFactory(deviceType)
	}

	ep := &Endpoint{
		ID:         id,
		DeviceType: deviceType,
		Clusters:   clusters,
	}
	p.endpoints[id] = &memoryEndpoint{
		ep:    ep,
		attrs: make(map[attrKey]AttrValue),
	}
	return ep, nil
}

// ResumeEndpoint implements Provider. The in-memory model has no state
// of its own to recover, so resumption recreates the slot; the caller
// supplies values through subsequent UpdateAttribute calls.
func (p *MemoryProvider) ResumeEndpoint(id EndpointID) (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.endpoints[id]; ok {
		return existing.ep, nil
	}

	ep := &Endpoint{ID: id}
	p.endpoints[id] = &memoryEndpoint{
		ep:    ep,
		attrs: make(map[attrKey]AttrValue),
	}
	return ep, nil
}

// Enable implements Provider.
func (p *MemoryProvider) Enable(ep *Endpoint) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	slot, ok := p.endpoints[ep.ID]
	if !ok {
		return fmt.Errorf("matter: enabling unknown endpoint %d", ep.ID)
	}
	slot.enabled = true
	return nil
}

// SetLabel implements Provider.
func (p *MemoryProvider) SetLabel(ep *Endpoint, label string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	slot, ok := p.endpoints[ep.ID]
	if !ok {
		return fmt.Errorf("matter: labelling unknown endpoint %d", ep.ID)
	}
	slot.ep.Label = label
	return nil
}

// UpdateAttribute implements Provider. Updates never notify the write
// handler; only WriteAttribute models controller-origin writes.
func (p *MemoryProvider) UpdateAttribute(id EndpointID, cluster ClusterID, attr AttributeID, value AttrValue) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	slot, ok := p.endpoints[id]
	if !ok {
		return fmt.Errorf("matter: updating unknown endpoint %d", id)
	}
	slot.attrs[attrKey{cluster: cluster, attr: attr}] = value
	return nil
}

// SetAttributeWriteHandler implements Provider.
func (p *MemoryProvider) SetAttributeWriteHandler(handler AttributeWriteHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = handler
}

// WriteAttribute injects a controller-origin attribute write, storing
// the value and notifying the registered handler. This is the entry
// point a management surface (or a controller shim) uses to operate
// bridged devices.
func (p *MemoryProvider) WriteAttribute(id EndpointID, cluster ClusterID, attr AttributeID, value AttrValue) error {
	p.mu.Lock()
	slot, ok := p.endpoints[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("matter: writing unknown endpoint %d", id)
	}
	slot.attrs[attrKey{cluster: cluster, attr: attr}] = value
	handler := p.handler
	p.mu.Unlock()

	if handler != nil {
		handler(id, cluster, attr, value)
	}
	return nil
}

// ReadAttribute returns the current value of an attribute.
func (p *MemoryProvider) ReadAttribute(id EndpointID, cluster ClusterID, attr AttributeID) (AttrValue, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	slot, ok := p.endpoints[id]
	if !ok {
		return AttrValue{}, false
	}
	value, ok := slot.attrs[attrKey{cluster: cluster, attr: attr}]
	return value, ok
}

// EndpointSnapshot is a read-only view of one endpoint's state.
type EndpointSnapshot struct {
	ID         EndpointID
	DeviceType DeviceTypeID
	Label      string
	Enabled    bool
}

// Snapshot returns a view of all endpoints, keyed by ID.
func (p *MemoryProvider) Snapshot() map[EndpointID]EndpointSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[EndpointID]EndpointSnapshot, len(p.endpoints))
	for id, slot := range p.endpoints {
		out[id] = EndpointSnapshot{
			ID:         id,
			DeviceType: slot.ep.DeviceType,
			Label:      slot.ep.Label,
			Enabled:    slot.enabled,
		}
	}
	return out
}
