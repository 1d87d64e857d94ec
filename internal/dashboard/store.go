package dashboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Settings-store keys. Each dashboard object class lives under its own
// namespaced key in the flat `settings` table, as one JSON blob.
const (
	keyTabs           = "dashboard.tabs"
	keyActiveTab      = "dashboard.active_tab"
	keyCustomizations = "dashboard.customizations"
	keyTemplates      = "dashboard.templates"
)

// Store defines the flat key-value persistence operations the dashboard
// needs. Values are JSON blobs; keys are dot-namespaced.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
}

// ErrKeyNotFound is returned by Get for a key with no stored value.
var ErrKeyNotFound = errors.New("dashboard: settings key not found")

// SQLiteStore implements Store on the settings table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed settings store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get reads one value. Returns ErrKeyNotFound when the key is absent.
func (s *SQLiteStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	const query = `SELECT value FROM settings WHERE key = ?`
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Put writes one value, replacing any previous one.
func (s *SQLiteStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	const query = `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// Delete removes one key. Deleting an absent key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM settings WHERE key = ?`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}
