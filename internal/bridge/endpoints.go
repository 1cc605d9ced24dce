package bridge

import (
	"fmt"

	"github.com/oakpine/meshbridge-core/internal/matter"
)

// endpointManager drives the framework side of endpoint lifecycle.
//
// Dynamic endpoints bypass the framework's startup initialisation, so
// both creation and resumption finish with the same activation pass:
// enable the endpoint, replay each cluster's one-time init hook, set the
// label.
type endpointManager struct {
	provider   matter.Provider
	aggregator matter.EndpointID
	logger     Logger
}

func newEndpointManager(provider matter.Provider, aggregator matter.EndpointID) *endpointManager {
	return &endpointManager{
		provider:   provider,
		aggregator: aggregator,
		logger:     noopLogger{},
	}
}

// create materialises a fresh endpoint for one device capability under
// the bridge aggregator, using the already-allocated identifier.
func (m *endpointManager) create(deviceID string, capability Capability, id matter.EndpointID) (*matter.Endpoint, error) {
	ep, err := m.provider.CreateEndpoint(m.aggregator, capability.DeviceType(), id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrEndpointCreateFailed, deviceID, capability, err)
	}

	if err := m.activate(ep, deviceID, capability); err != nil {
		return nil, err
	}

	m.logger.Info("endpoint created",
		"device_id", deviceID,
		"capability", capability,
		"endpoint_id", id,
	)
	return ep, nil
}

// resume re-attaches to an endpoint stored in a previous process
// lifetime. Used only during startup reconstruction.
func (m *endpointManager) resume(deviceID string, capability Capability, id matter.EndpointID) (*matter.Endpoint, error) {
	ep, err := m.provider.ResumeEndpoint(id)
	if err != nil {
		return nil, fmt.Errorf("resuming endpoint %d for %s %s: %w", id, deviceID, capability, err)
	}

	if err := m.activate(ep, deviceID, capability); err != nil {
		return nil, err
	}

	m.logger.Info("endpoint resumed",
		"device_id", deviceID,
		"capability", capability,
		"endpoint_id", id,
	)
	return ep, nil
}

// activate enables the endpoint, replays cluster init hooks, and labels it.
func (m *endpointManager) activate(ep *matter.Endpoint, deviceID string, capability Capability) error {
	if err := m.provider.Enable(ep); err != nil {
		return fmt.Errorf("enabling endpoint %d: %w", ep.ID, err)
	}

	for _, cluster := range ep.Clusters {
		if cluster.Init == nil {
			continue
		}
		if err := cluster.Init(); err != nil {
			return fmt.Errorf("initialising cluster %#04x on endpoint %d: %w", uint32(cluster.ID), ep.ID, err)
		}
	}

	label := fmt.Sprintf("%s %s", deviceID, capability)
	if err := m.provider.SetLabel(ep, label); err != nil {
		// Label failure is cosmetic; the endpoint is functional.
		m.logger.Warn("setting endpoint label failed",
			"endpoint_id", ep.ID,
			"label", label,
			"error", err,
		)
	}

	return nil
}
