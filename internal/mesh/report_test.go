package mesh

import (
	"errors"
	"testing"
)

func TestDecodeReport(t *testing.T) {
	tests := []struct {
		name     string
		deviceID string
		payload  string
		wantErr  error
		check    func(t *testing.T, r Report)
	}{
		{
			name:     "full report",
			deviceID: "swift-falcon-a3f2",
			payload:  `{"temperature":21.5,"humidity":48.2,"relay_state":true}`,
			check: func(t *testing.T, r Report) {
				if r.DeviceID != "swift-falcon-a3f2" {
					t.Errorf("DeviceID = %q", r.DeviceID)
				}
				if r.Temperature == nil || *r.Temperature != 21.5 {
					t.Errorf("Temperature = %v, want 21.5", r.Temperature)
				}
				if r.Humidity == nil || *r.Humidity != 48.2 {
					t.Errorf("Humidity = %v, want 48.2", r.Humidity)
				}
				if r.RelayState == nil || !*r.RelayState {
					t.Errorf("RelayState = %v, want true", r.RelayState)
				}
			},
		},
		{
			name:     "temperature only",
			deviceID: "swift-falcon-a3f2",
			payload:  `{"temperature":-3.25}`,
			check: func(t *testing.T, r Report) {
				if r.Temperature == nil || *r.Temperature != -3.25 {
					t.Errorf("Temperature = %v, want -3.25", r.Temperature)
				}
				if r.Humidity != nil {
					t.Error("Humidity should be absent")
				}
				if r.RelayState != nil {
					t.Error("RelayState should be absent")
				}
			},
		},
		{
			name:     "empty report is valid",
			deviceID: "quiet-owl-0b1c",
			payload:  `{}`,
			check: func(t *testing.T, r Report) {
				if r.Temperature != nil || r.Humidity != nil || r.RelayState != nil {
					t.Error("all capability fields should be absent")
				}
			},
		},
		{
			name:     "payload device_id is ignored",
			deviceID: "topic-device-1234",
			payload:  `{"device_id":"spoofed-device-ffff","relay_state":false}`,
			check: func(t *testing.T, r Report) {
				if r.DeviceID != "topic-device-1234" {
					t.Errorf("DeviceID = %q, want topic-device-1234", r.DeviceID)
				}
			},
		},
		{
			name:     "relay false is present not absent",
			deviceID: "swift-falcon-a3f2",
			payload:  `{"relay_state":false}`,
			check: func(t *testing.T, r Report) {
				if r.RelayState == nil {
					t.Fatal("RelayState should be present")
				}
				if *r.RelayState {
					t.Error("RelayState = true, want false")
				}
			},
		},
		{
			name:     "missing device id",
			deviceID: "",
			payload:  `{}`,
			wantErr:  ErrMissingDeviceID,
		},
		{
			name:     "malformed json",
			deviceID: "swift-falcon-a3f2",
			payload:  `{"temperature":`,
			wantErr:  ErrMalformedReport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeReport(tt.deviceID, []byte(tt.payload))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeReport() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeReport() error = %v", err)
			}
			tt.check(t, r)
		})
	}
}

func TestDeviceIDFromTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"meshbridge/report/thread/swift-falcon-a3f2", "swift-falcon-a3f2"},
		{"meshbridge/report/thread/", ""},
		{"no-separator", ""},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if got := deviceIDFromTopic(tt.topic); got != tt.want {
				t.Errorf("deviceIDFromTopic(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}
