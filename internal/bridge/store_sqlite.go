package bridge

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oakpine/meshbridge-core/internal/infrastructure/database"
)

// SQLiteStore persists bridge records in the bridge_store table.
//
// The table is a key/value namespace: one row per device record plus one
// row for the identifier counter. Values are JSON documents.
type SQLiteStore struct {
	db *database.DB
}

// NewSQLiteStore creates a store backed by the given database.
// The bridge_store table must exist (created by migrations).
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// SaveDevice upserts a device record keyed by suffix.
//
// A key already holding a record for a different device identifier is a
// suffix collision and the save is rejected.
func (s *SQLiteStore) SaveDevice(ctx context.Context, suffix string, record *Record) error {
	if err := validateSuffix(suffix); err != nil {
		return err
	}

	existing, err := s.LoadDevice(ctx, suffix)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.DeviceID != record.DeviceID {
		return fmt.Errorf("%w: suffix %q held by %q, refusing save for %q",
			ErrSuffixCollision, suffix, existing.DeviceID, record.DeviceID)
	}

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding device record: %w", err)
	}

	return s.put(ctx, deviceKey(suffix), string(value))
}

// LoadDevice loads one device record by suffix.
func (s *SQLiteStore) LoadDevice(ctx context.Context, suffix string) (*Record, error) {
	if err := validateSuffix(suffix); err != nil {
		return nil, err
	}

	value, err := s.get(ctx, deviceKey(suffix))
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, fmt.Errorf("decoding device record %q: %w", suffix, err)
	}
	return &record, nil
}

// LoadAllDevices loads every device record, keyed by suffix.
func (s *SQLiteStore) LoadAllDevices(ctx context.Context) (map[string]*Record, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		"SELECT key, value FROM bridge_store WHERE key LIKE ?",
		deviceKeyPrefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("querying device records: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*Record)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning device record: %w", err)
		}

		suffix := strings.TrimPrefix(key, deviceKeyPrefix)

		var record Record
		if err := json.Unmarshal([]byte(value), &record); err != nil {
			return nil, fmt.Errorf("decoding device record %q: %w", suffix, err)
		}
		records[suffix] = &record
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device records: %w", err)
	}
	return records, nil
}

// counterRecord is the persisted form of the identifier counter.
// Stored as a JSON document like every other bridge_store value.
type counterRecord struct {
	NextEndpointID uint32 `json:"next_endpoint_id"`
}

// SaveCounter durably stores the endpoint identifier counter.
func (s *SQLiteStore) SaveCounter(ctx context.Context, next uint32) error {
	value, err := json.Marshal(counterRecord{NextEndpointID: next})
	if err != nil {
		return fmt.Errorf("encoding counter: %w", err)
	}
	return s.put(ctx, counterKey, string(value))
}

// LoadCounter loads the endpoint identifier counter.
func (s *SQLiteStore) LoadCounter(ctx context.Context) (uint32, error) {
	value, err := s.get(ctx, counterKey)
	if err != nil {
		return 0, err
	}

	var record counterRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return 0, fmt.Errorf("decoding counter: %w", err)
	}
	return record.NextEndpointID, nil
}

// DeleteDevice removes one device record.
func (s *SQLiteStore) DeleteDevice(ctx context.Context, suffix string) error {
	if err := validateSuffix(suffix); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM bridge_store WHERE key = ?",
		deviceKey(suffix),
	)
	if err != nil {
		return fmt.Errorf("deleting device record %q: %w", suffix, err)
	}
	return nil
}

// EraseAll removes every record in the bridge namespace.
func (s *SQLiteStore) EraseAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM bridge_store"); err != nil {
		return fmt.Errorf("erasing bridge store: %w", err)
	}
	return nil
}

// put upserts a key/value pair.
func (s *SQLiteStore) put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bridge_store (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// get reads one value by key.
func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM bridge_store WHERE key = ?",
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %q", ErrRecordNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", key, err)
	}
	return value, nil
}
