package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/oakpine/meshbridge-core/internal/infrastructure/database"
	_ "github.com/oakpine/meshbridge-core/migrations" // registers embedded migrations
)

// openTestStore creates a migrated temporary database with a SQLiteStore.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "bridge.db")
	db, err := database.Open(database.Config{
		Path:        dbPath,
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return NewSQLiteStore(db)
}

func testRecord(deviceID string) *Record {
	return &Record{
		DeviceID:              deviceID,
		PlugEndpointID:        11,
		TemperatureEndpointID: 12,
		HasTemperature:        true,
		Temperature:           21.5,
		HasRelay:              true,
		RelayState:            true,
	}
}

func TestSQLiteStore_SaveLoadDevice(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := testRecord("swift-falcon-a3f2")
	if err := store.SaveDevice(ctx, "a3f2", record); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}

	loaded, err := store.LoadDevice(ctx, "a3f2")
	if err != nil {
		t.Fatalf("LoadDevice() error = %v", err)
	}

	if loaded.DeviceID != "swift-falcon-a3f2" {
		t.Errorf("DeviceID = %q", loaded.DeviceID)
	}
	if loaded.PlugEndpointID != 11 || loaded.TemperatureEndpointID != 12 {
		t.Errorf("endpoint IDs = %d/%d, want 11/12", loaded.PlugEndpointID, loaded.TemperatureEndpointID)
	}
	if !loaded.HasTemperature || loaded.Temperature != 21.5 {
		t.Errorf("temperature = %v/%v, want true/21.5", loaded.HasTemperature, loaded.Temperature)
	}
	if loaded.HasHumidity {
		t.Error("HasHumidity = true for never-observed humidity")
	}
	if !loaded.HasRelay || !loaded.RelayState {
		t.Errorf("relay = %v/%v, want true/true", loaded.HasRelay, loaded.RelayState)
	}
}

func TestSQLiteStore_SaveDevice_Upsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := testRecord("swift-falcon-a3f2")
	if err := store.SaveDevice(ctx, "a3f2", record); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}

	record.Temperature = 22.0
	if err := store.SaveDevice(ctx, "a3f2", record); err != nil {
		t.Fatalf("second SaveDevice() error = %v", err)
	}

	loaded, err := store.LoadDevice(ctx, "a3f2")
	if err != nil {
		t.Fatalf("LoadDevice() error = %v", err)
	}
	if loaded.Temperature != 22.0 {
		t.Errorf("Temperature = %v, want 22.0", loaded.Temperature)
	}
}

func TestSQLiteStore_SuffixCollision(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveDevice(ctx, "a3f2", testRecord("swift-falcon-a3f2")); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}

	// Different device, same suffix: hard error, no silent merge.
	err := store.SaveDevice(ctx, "a3f2", testRecord("lazy-heron-a3f2"))
	if !errors.Is(err, ErrSuffixCollision) {
		t.Fatalf("SaveDevice() error = %v, want ErrSuffixCollision", err)
	}

	loaded, err := store.LoadDevice(ctx, "a3f2")
	if err != nil {
		t.Fatalf("LoadDevice() error = %v", err)
	}
	if loaded.DeviceID != "swift-falcon-a3f2" {
		t.Errorf("DeviceID = %q, original record should be untouched", loaded.DeviceID)
	}
}

func TestSQLiteStore_LoadDevice_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.LoadDevice(context.Background(), "ffff")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("LoadDevice() error = %v, want ErrRecordNotFound", err)
	}
}

func TestSQLiteStore_InvalidSuffix(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveDevice(ctx, "toolong", testRecord("x-toolong")); !errors.Is(err, ErrInvalidDeviceID) {
		t.Errorf("SaveDevice(long suffix) error = %v, want ErrInvalidDeviceID", err)
	}
	if _, err := store.LoadDevice(ctx, "ab"); !errors.Is(err, ErrInvalidDeviceID) {
		t.Errorf("LoadDevice(short suffix) error = %v, want ErrInvalidDeviceID", err)
	}
}

func TestSQLiteStore_LoadAllDevices(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveDevice(ctx, "a3f2", testRecord("swift-falcon-a3f2")); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}
	if err := store.SaveDevice(ctx, "0b1c", testRecord("quiet-owl-0b1c")); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}
	// The counter row must not surface as a device.
	if err := store.SaveCounter(ctx, 42); err != nil {
		t.Fatalf("SaveCounter() error = %v", err)
	}

	records, err := store.LoadAllDevices(ctx)
	if err != nil {
		t.Fatalf("LoadAllDevices() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records["a3f2"].DeviceID != "swift-falcon-a3f2" {
		t.Errorf("records[a3f2].DeviceID = %q", records["a3f2"].DeviceID)
	}
	if records["0b1c"].DeviceID != "quiet-owl-0b1c" {
		t.Errorf("records[0b1c].DeviceID = %q", records["0b1c"].DeviceID)
	}
}

func TestSQLiteStore_Counter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Fresh store: counter absent.
	if _, err := store.LoadCounter(ctx); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("LoadCounter() error = %v, want ErrRecordNotFound", err)
	}

	if err := store.SaveCounter(ctx, 17); err != nil {
		t.Fatalf("SaveCounter() error = %v", err)
	}

	next, err := store.LoadCounter(ctx)
	if err != nil {
		t.Fatalf("LoadCounter() error = %v", err)
	}
	if next != 17 {
		t.Errorf("LoadCounter() = %d, want 17", next)
	}
}

// TestSQLiteStore_PersistedLayout pins the stored JSON field names.
// External tooling reads bridge_store rows by these names; renaming a
// field is a breaking change to the persisted interface.
func TestSQLiteStore_PersistedLayout(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveDevice(ctx, "a3f2", testRecord("swift-falcon-a3f2")); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}
	if err := store.SaveCounter(ctx, 7); err != nil {
		t.Fatalf("SaveCounter() error = %v", err)
	}

	var value string
	err := store.db.QueryRowContext(ctx,
		"SELECT value FROM bridge_store WHERE key = ?", "dev-a3f2",
	).Scan(&value)
	if err != nil {
		t.Fatalf("reading device row: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		t.Fatalf("device row is not JSON: %v", err)
	}
	for _, name := range []string{
		"device_id",
		"plug_endpoint_id", "temp_endpoint_id", "humidity_endpoint_id",
		"has_temperature", "temperature",
		"has_humidity", "humidity",
		"has_relay_state", "relay_state",
	} {
		if _, ok := fields[name]; !ok {
			t.Errorf("device record missing field %q", name)
		}
	}

	err = store.db.QueryRowContext(ctx,
		"SELECT value FROM bridge_store WHERE key = ?", "global",
	).Scan(&value)
	if err != nil {
		t.Fatalf("reading counter row: %v", err)
	}

	var counter map[string]any
	if err := json.Unmarshal([]byte(value), &counter); err != nil {
		t.Fatalf("counter row is not JSON: %v", err)
	}
	if got, ok := counter["next_endpoint_id"]; !ok || got != float64(7) {
		t.Errorf("counter row = %q, want next_endpoint_id 7", value)
	}
}

func TestSQLiteStore_DeleteDevice(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveDevice(ctx, "a3f2", testRecord("swift-falcon-a3f2")); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}

	if err := store.DeleteDevice(ctx, "a3f2"); err != nil {
		t.Fatalf("DeleteDevice() error = %v", err)
	}

	if _, err := store.LoadDevice(ctx, "a3f2"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("LoadDevice() after delete error = %v, want ErrRecordNotFound", err)
	}

	// Deleting a missing record is not an error.
	if err := store.DeleteDevice(ctx, "a3f2"); err != nil {
		t.Errorf("DeleteDevice() of missing record error = %v", err)
	}
}

func TestSQLiteStore_EraseAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveDevice(ctx, "a3f2", testRecord("swift-falcon-a3f2")); err != nil {
		t.Fatalf("SaveDevice() error = %v", err)
	}
	if err := store.SaveCounter(ctx, 9); err != nil {
		t.Fatalf("SaveCounter() error = %v", err)
	}

	if err := store.EraseAll(ctx); err != nil {
		t.Fatalf("EraseAll() error = %v", err)
	}

	records, err := store.LoadAllDevices(ctx)
	if err != nil {
		t.Fatalf("LoadAllDevices() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d after EraseAll, want 0", len(records))
	}

	if _, err := store.LoadCounter(ctx); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("LoadCounter() after EraseAll error = %v, want ErrRecordNotFound", err)
	}
}
