package matter

import "testing"

func TestMemoryProvider_CreateAndEnable(t *testing.T) {
	p := NewMemoryProvider()

	ep, err := p.CreateEndpoint(1, DeviceTypeOnOffPlugInUnit, 5)
	if err != nil {
		t.Fatalf("CreateEndpoint() error = %v", err)
	}
	if ep.ID != 5 || ep.DeviceType != DeviceTypeOnOffPlugInUnit {
		t.Errorf("endpoint = %+v", ep)
	}
	if len(ep.Clusters) != 1 || ep.Clusters[0].ID != ClusterOnOff {
		t.Errorf("clusters = %+v, want single OnOff", ep.Clusters)
	}

	if err := p.Enable(ep); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if err := p.SetLabel(ep, "swift-falcon-a3f2 plug"); err != nil {
		t.Fatalf("SetLabel() error = %v", err)
	}

	snap := p.Snapshot()[5]
	if !snap.Enabled || snap.Label != "swift-falcon-a3f2 plug" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestMemoryProvider_DuplicateCreateRejected(t *testing.T) {
	p := NewMemoryProvider()

	if _, err := p.CreateEndpoint(1, DeviceTypeTemperatureSensor, 5); err != nil {
		t.Fatalf("CreateEndpoint() error = %v", err)
	}
	if _, err := p.CreateEndpoint(1, DeviceTypeTemperatureSensor, 5); err == nil {
		t.Error("duplicate CreateEndpoint() should fail")
	}
}

func TestMemoryProvider_ResumeIsIdempotent(t *testing.T) {
	p := NewMemoryProvider()

	first, err := p.ResumeEndpoint(7)
	if err != nil {
		t.Fatalf("ResumeEndpoint() error = %v", err)
	}
	second, err := p.ResumeEndpoint(7)
	if err != nil {
		t.Fatalf("second ResumeEndpoint() error = %v", err)
	}
	if first != second {
		t.Error("resume should return the same endpoint handle")
	}
}

func TestMemoryProvider_UpdateDoesNotNotify(t *testing.T) {
	p := NewMemoryProvider()
	ep, _ := p.CreateEndpoint(1, DeviceTypeOnOffPlugInUnit, 5)
	_ = p.Enable(ep)

	notified := 0
	p.SetAttributeWriteHandler(func(EndpointID, ClusterID, AttributeID, AttrValue) {
		notified++
	})

	if err := p.UpdateAttribute(5, ClusterOnOff, AttrOnOff, BoolValue(true)); err != nil {
		t.Fatalf("UpdateAttribute() error = %v", err)
	}
	if notified != 0 {
		t.Error("UpdateAttribute() must not invoke the write handler")
	}

	value, ok := p.ReadAttribute(5, ClusterOnOff, AttrOnOff)
	if !ok || !value.Bool {
		t.Errorf("ReadAttribute() = %+v/%v, want true", value, ok)
	}
}

func TestMemoryProvider_WriteAttributeNotifies(t *testing.T) {
	p := NewMemoryProvider()
	ep, _ := p.CreateEndpoint(1, DeviceTypeOnOffPlugInUnit, 5)
	_ = p.Enable(ep)

	var gotID EndpointID
	var gotValue AttrValue
	p.SetAttributeWriteHandler(func(id EndpointID, _ ClusterID, _ AttributeID, value AttrValue) {
		gotID = id
		gotValue = value
	})

	if err := p.WriteAttribute(5, ClusterOnOff, AttrOnOff, BoolValue(true)); err != nil {
		t.Fatalf("WriteAttribute() error = %v", err)
	}
	if gotID != 5 || !gotValue.Bool {
		t.Errorf("handler got id=%d value=%+v", gotID, gotValue)
	}

	if err := p.WriteAttribute(99, ClusterOnOff, AttrOnOff, BoolValue(true)); err == nil {
		t.Error("WriteAttribute() to unknown endpoint should fail")
	}
}
