package mesh

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/oakpine/meshbridge-core/internal/infrastructure/mqtt"
)

// DefaultProtocol is the mesh carrier protocol segment used in topics.
const DefaultProtocol = "thread"

// Logger defines the logging interface used by the transport.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MQTTTransport is the MQTT-backed mesh transport.
//
// The radio adapter publishes device reports to
// meshbridge/report/<protocol>/<device_id> and consumes commands from
// meshbridge/command/<protocol>/<device_id>.
type MQTTTransport struct {
	client   *mqtt.Client
	protocol string
	qos      byte
	logger   Logger

	mu      sync.Mutex
	started bool
}

// NewMQTTTransport creates a transport on an already-connected MQTT client.
func NewMQTTTransport(client *mqtt.Client, qos byte) *MQTTTransport {
	return &MQTTTransport{
		client:   client,
		protocol: DefaultProtocol,
		qos:      qos,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the transport.
func (t *MQTTTransport) SetLogger(logger Logger) {
	t.logger = logger
}

// Start subscribes to the report topic and begins delivering decoded
// reports to the handler. Reports that fail to decode are logged and
// dropped.
func (t *MQTTTransport) Start(handler ReportHandler) error {
	if handler == nil {
		return fmt.Errorf("%w: nil handler", ErrNotStarted)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	topic := mqtt.Topics{}.AllMeshReports(t.protocol)
	err := t.client.Subscribe(topic, t.qos, func(topic string, payload []byte) error {
		deviceID := deviceIDFromTopic(topic)

		report, err := DecodeReport(deviceID, payload)
		if err != nil {
			t.logger.Warn("dropping undecodable report",
				"topic", topic,
				"error", err,
			)
			return err
		}

		t.logger.Debug("report received",
			"device_id", report.DeviceID,
			"has_temperature", report.Temperature != nil,
			"has_humidity", report.Humidity != nil,
			"has_relay", report.RelayState != nil,
		)

		handler(report)
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribing to reports: %w", err)
	}

	t.started = true
	return nil
}

// SendRelayCommand publishes a relay command for the device.
func (t *MQTTTransport) SendRelayCommand(deviceID string, on bool) error {
	payload, err := json.Marshal(relayCommand{RelayState: on})
	if err != nil {
		return fmt.Errorf("%w: encoding command: %w", ErrSendFailed, err)
	}

	topic := mqtt.Topics{}.MeshCommand(t.protocol, deviceID)
	if err := t.client.Publish(topic, payload, t.qos, false); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	t.logger.Debug("relay command sent", "device_id", deviceID, "on", on)
	return nil
}

// Close unsubscribes from the report topic.
func (t *MQTTTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return nil
	}
	t.started = false

	topic := mqtt.Topics{}.AllMeshReports(t.protocol)
	if err := t.client.Unsubscribe(topic); err != nil {
		return fmt.Errorf("unsubscribing from reports: %w", err)
	}
	return nil
}

// deviceIDFromTopic extracts the device ID from a report topic.
// Topic form: meshbridge/report/<protocol>/<device_id>
func deviceIDFromTopic(topic string) string {
	idx := strings.LastIndex(topic, "/")
	if idx < 0 || idx == len(topic)-1 {
		return ""
	}
	return topic[idx+1:]
}
