package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oakpine/meshbridge-core/internal/matter"
)

// mockStore is an in-memory Store for testing.
// It mirrors the SQLite store's collision semantics.
type mockStore struct {
	mu         sync.Mutex
	devices    map[string]*Record
	counter    uint32
	hasCounter bool

	failSaveDevice  bool
	failSaveCounter bool

	saveDeviceCalls  int
	saveCounterCalls int
}

func newMockStore() *mockStore {
	return &mockStore{
		devices: make(map[string]*Record),
	}
}

func (s *mockStore) SaveDevice(_ context.Context, suffix string, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveDeviceCalls++
	if s.failSaveDevice {
		return errors.New("mock: save device failed")
	}
	if existing, ok := s.devices[suffix]; ok && existing.DeviceID != record.DeviceID {
		return fmt.Errorf("%w: suffix %q held by %q", ErrSuffixCollision, suffix, existing.DeviceID)
	}

	clone := *record
	s.devices[suffix] = &clone
	return nil
}

func (s *mockStore) LoadDevice(_ context.Context, suffix string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.devices[suffix]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRecordNotFound, suffix)
	}
	clone := *record
	return &clone, nil
}

func (s *mockStore) LoadAllDevices(_ context.Context) (map[string]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*Record, len(s.devices))
	for suffix, record := range s.devices {
		clone := *record
		out[suffix] = &clone
	}
	return out, nil
}

func (s *mockStore) SaveCounter(_ context.Context, next uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveCounterCalls++
	if s.failSaveCounter {
		return errors.New("mock: save counter failed")
	}
	s.counter = next
	s.hasCounter = true
	return nil
}

func (s *mockStore) LoadCounter(_ context.Context) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCounter {
		return 0, fmt.Errorf("%w: counter", ErrRecordNotFound)
	}
	return s.counter, nil
}

func (s *mockStore) DeleteDevice(_ context.Context, suffix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.devices, suffix)
	return nil
}

func (s *mockStore) EraseAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = make(map[string]*Record)
	s.counter = 0
	s.hasCounter = false
	return nil
}

// attrUpdate records one UpdateAttribute call.
type attrUpdate struct {
	id      matter.EndpointID
	cluster matter.ClusterID
	attr    matter.AttributeID
	value   matter.AttrValue
}

// fakeProvider is a hand-rolled matter.Provider for testing.
type fakeProvider struct {
	mu sync.Mutex

	created []matter.EndpointID
	resumed []matter.EndpointID
	updates []attrUpdate
	labels  map[matter.EndpointID]string

	initCalls int

	failCreate    bool
	failResumeIDs map[matter.EndpointID]bool

	handler matter.AttributeWriteHandler

	// echoWrites makes UpdateAttribute synchronously re-deliver the value
	// to the registered write handler, imitating frameworks that notify
	// on every attribute change regardless of origin.
	echoWrites bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		labels:        make(map[matter.EndpointID]string),
		failResumeIDs: make(map[matter.EndpointID]bool),
	}
}

func (p *fakeProvider) newEndpoint(id matter.EndpointID, deviceType matter.DeviceTypeID) *matter.Endpoint {
	return &matter.Endpoint{
		ID:         id,
		DeviceType: deviceType,
		Clusters: []matter.Cluster{
			{
				ID: matter.ClusterOnOff,
				Init: func() error {
					p.mu.Lock()
					p.initCalls++
					p.mu.Unlock()
					return nil
				},
			},
		},
	}
}

func (p *fakeProvider) CreateEndpoint(_ matter.EndpointID, deviceType matter.DeviceTypeID, id matter.EndpointID) (*matter.Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failCreate {
		return nil, errors.New("fake: create refused")
	}
	p.created = append(p.created, id)
	return p.newEndpoint(id, deviceType), nil
}

func (p *fakeProvider) ResumeEndpoint(id matter.EndpointID) (*matter.Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failResumeIDs[id] {
		return nil, errors.New("fake: resume refused")
	}
	p.resumed = append(p.resumed, id)
	return p.newEndpoint(id, 0), nil
}

func (p *fakeProvider) Enable(*matter.Endpoint) error {
	return nil
}

func (p *fakeProvider) SetLabel(ep *matter.Endpoint, label string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.labels[ep.ID] = label
	return nil
}

func (p *fakeProvider) UpdateAttribute(id matter.EndpointID, cluster matter.ClusterID, attr matter.AttributeID, value matter.AttrValue) error {
	p.mu.Lock()
	p.updates = append(p.updates, attrUpdate{id: id, cluster: cluster, attr: attr, value: value})
	handler := p.handler
	echo := p.echoWrites
	p.mu.Unlock()

	if echo && handler != nil {
		handler(id, cluster, attr, value)
	}
	return nil
}

func (p *fakeProvider) SetAttributeWriteHandler(handler matter.AttributeWriteHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = handler
}

// updatesFor returns the recorded updates for one endpoint.
func (p *fakeProvider) updatesFor(id matter.EndpointID) []attrUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []attrUpdate
	for _, u := range p.updates {
		if u.id == id {
			out = append(out, u)
		}
	}
	return out
}

// relayCommand records one SendRelayCommand call.
type sentCommand struct {
	deviceID string
	on       bool
}

// fakeSender is a hand-rolled CommandSender for testing.
type fakeSender struct {
	mu       sync.Mutex
	sent     []sentCommand
	failSend bool
}

func (s *fakeSender) SendRelayCommand(deviceID string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSend {
		return errors.New("fake: send failed")
	}
	s.sent = append(s.sent, sentCommand{deviceID: deviceID, on: on})
	return nil
}

func (s *fakeSender) commands() []sentCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentCommand(nil), s.sent...)
}

// helpers for pointer-valued report fields.
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool       { return &v }
