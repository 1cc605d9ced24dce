package mqtt

import "fmt"

// Topic prefixes for the mesh bridge MQTT namespace.
//
// All mesh topics use the flat scheme: meshbridge/{category}/{protocol}/{device_id}
// where protocol names the mesh carrier (currently "thread").
const (
	// TopicPrefixMesh is the base for all mesh traffic topics.
	TopicPrefixMesh = "meshbridge"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "meshbridge/system"
)

// Topics provides builders for mesh bridge MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	reportTopic := topics.MeshReport("thread", "swift-falcon-a3f2")
//	// Returns: "meshbridge/report/thread/swift-falcon-a3f2"
type Topics struct{}

// MeshReport returns the topic a mesh device publishes sensor reports on.
//
// Example: meshbridge/report/thread/swift-falcon-a3f2
func (Topics) MeshReport(protocol, deviceID string) string {
	return fmt.Sprintf("%s/report/%s/%s", TopicPrefixMesh, protocol, deviceID)
}

// MeshCommand returns the topic for commands addressed to a mesh device.
//
// Example: meshbridge/command/thread/swift-falcon-a3f2
func (Topics) MeshCommand(protocol, deviceID string) string {
	return fmt.Sprintf("%s/command/%s/%s", TopicPrefixMesh, protocol, deviceID)
}

// MeshHealth returns the topic for mesh carrier health status.
//
// Example: meshbridge/health/thread
func (Topics) MeshHealth(protocol string) string {
	return fmt.Sprintf("%s/health/%s", TopicPrefixMesh, protocol)
}

// SystemStatus returns the bridge process status topic.
//
// Example: meshbridge/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllMeshReports returns a pattern matching all device reports for a protocol.
//
// Pattern: meshbridge/report/thread/+
func (Topics) AllMeshReports(protocol string) string {
	return fmt.Sprintf("%s/report/%s/+", TopicPrefixMesh, protocol)
}

// AllMeshCommands returns a pattern matching all device commands for a protocol.
//
// Pattern: meshbridge/command/thread/+
func (Topics) AllMeshCommands(protocol string) string {
	return fmt.Sprintf("%s/command/%s/+", TopicPrefixMesh, protocol)
}

// AllTopics returns a pattern matching the entire mesh bridge namespace.
// Use with caution - this receives ALL traffic.
//
// Pattern: meshbridge/#
func (Topics) AllTopics() string {
	return "meshbridge/#"
}
