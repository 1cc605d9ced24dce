package matter

// AttributeWriteHandler receives attribute writes originating from the
// framework's controller side (e.g. a phone app toggling a plug).
//
// Handlers may be invoked synchronously from within UpdateAttribute on
// some framework implementations, so they must not assume they run on a
// separate goroutine.
type AttributeWriteHandler func(id EndpointID, cluster ClusterID, attr AttributeID, value AttrValue)

// Provider is the bridge's view of the integration framework.
//
// Implementations must be safe for concurrent use; the bridge calls them
// under its own lock but the framework may deliver attribute-write
// notifications from its own threads at any time.
type Provider interface {
	// CreateEndpoint materialises a new dynamic endpoint of the given
	// device type under the aggregator, using the bridge-allocated ID.
	CreateEndpoint(aggregator EndpointID, deviceType DeviceTypeID, id EndpointID) (*Endpoint, error)

	// ResumeEndpoint re-attaches to an endpoint that existed in a previous
	// process lifetime, identified by its stored ID.
	ResumeEndpoint(id EndpointID) (*Endpoint, error)

	// Enable makes the endpoint visible to controllers.
	Enable(ep *Endpoint) error

	// SetLabel sets the endpoint's user-visible label.
	SetLabel(ep *Endpoint, label string) error

	// UpdateAttribute pushes a value into the framework's attribute tree.
	// Depending on the implementation this may synchronously invoke the
	// registered AttributeWriteHandler.
	UpdateAttribute(id EndpointID, cluster ClusterID, attr AttributeID, value AttrValue) error

	// SetAttributeWriteHandler registers the callback for controller-origin
	// attribute writes. Only one handler is supported; later calls replace
	// earlier ones.
	SetAttributeWriteHandler(handler AttributeWriteHandler)
}
