// Mesh Bridge Core - Gateway bridge state manager
//
// This is the main entry point for the mesh bridge daemon. It connects
// battery-powered mesh devices (temperature, humidity, relay) to a
// smart-home integration framework:
//   - Reports arrive over MQTT from the mesh radio adapter
//   - Each device capability is surfaced as a dynamically-created endpoint
//   - Controller relay commands queue until the sleepy device next wakes
//   - Device records survive restarts in SQLite
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/oakpine/meshbridge-core/migrations"

	"github.com/oakpine/meshbridge-core/internal/bridge"
	"github.com/oakpine/meshbridge-core/internal/infrastructure/config"
	"github.com/oakpine/meshbridge-core/internal/infrastructure/database"
	"github.com/oakpine/meshbridge-core/internal/infrastructure/influxdb"
	"github.com/oakpine/meshbridge-core/internal/infrastructure/logging"
	"github.com/oakpine/meshbridge-core/internal/infrastructure/mqtt"
	"github.com/oakpine/meshbridge-core/internal/matter"
	"github.com/oakpine/meshbridge-core/internal/mesh"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting mesh bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional telemetry sink)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Integration framework data model. The in-memory provider stands in
	// for a commissioned framework SDK; commissioning itself is out of
	// scope for the bridge core.
	provider := matter.NewMemoryProvider()

	// Mesh transport over MQTT
	transport := mesh.NewMQTTTransport(mqttClient, byte(cfg.MQTT.QoS))
	transport.SetLogger(log)
	defer func() {
		log.Info("stopping mesh transport")
		if closeErr := transport.Close(); closeErr != nil {
			log.Error("error closing mesh transport", "error", closeErr)
		}
	}()

	// Bridge registry: the reconciliation core
	store := bridge.NewSQLiteStore(db)
	registry := bridge.NewRegistry(store, provider, transport, matter.EndpointID(cfg.Matter.AggregatorEndpointID))
	registry.SetLogger(log)
	if influxClient != nil {
		registry.SetTelemetry(influxClient)
	}
	provider.SetAttributeWriteHandler(registry.HandleAttributeWrite)

	// Rebuild bridged endpoints from persisted records before any report
	// can arrive.
	if restoreErr := registry.Restore(ctx); restoreErr != nil {
		return fmt.Errorf("restoring bridge state: %w", restoreErr)
	}
	stats := registry.Stats()
	log.Info("bridge registry restored",
		"devices", stats.Devices,
		"pending_commands", stats.Pending,
	)

	// Start consuming mesh reports
	if startErr := transport.Start(func(report mesh.Report) {
		if reportErr := registry.OnReport(ctx, report); reportErr != nil {
			log.Warn("report rejected",
				"device_id", report.DeviceID,
				"error", reportErr,
			)
		}
	}); startErr != nil {
		return fmt.Errorf("starting mesh transport: %w", startErr)
	}
	log.Info("mesh transport started")

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. Mesh transport
	// 2. InfluxDB (if enabled)
	// 3. MQTT
	// 4. Database

	log.Info("mesh bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses MESHBRIDGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MESHBRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
