// Package bridge is the state manager at the heart of the mesh bridge.
//
// It reconciles capability-tagged reports from battery-powered mesh
// devices with a durable registry of bridged endpoints exposed to the
// smart-home integration framework.
//
// # Architecture
//
//	                 ┌─────────────────────────────────────┐
//	 mesh reports ──▶│              Registry               │──▶ framework
//	                 │                                     │    attributes
//	 framework   ──▶ │  ┌─────────┐ ┌─────────┐ ┌───────┐  │
//	 writes          │  │allocator│ │endpoints│ │pending│  │──▶ relay
//	                 │  └────┬────┘ └─────────┘ └───────┘  │    commands
//	                 └───────┼───────────────────────────┬─┘
//	                         ▼                           ▼
//	                    device store (SQLite)       last_seen/stats
//
// Two writers feed the registry: the mesh pushes sensor truth, the
// framework's controller pushes command intent. A single mutex serialises
// both paths end to end, and a mesh-origin flag prevents the bridge's own
// attribute pushes from echoing back as queued commands.
//
// # Durability
//
// Endpoint identifiers are allocated from a monotonic counter persisted
// ahead of use, so identifiers survive power loss and are never reused.
// Device records persist after every accepted report; on restart the
// registry resumes each stored endpoint with its original identifier.
//
// # Command queueing
//
// Commands cannot be delivered to a sleeping device. Each device has a
// single-slot pending command (newest intent wins) delivered on the
// device's next report. While a command is pending, the relay value in an
// incoming report is presumed stale and is not pushed to the framework;
// the command is delivered instead.
package bridge
