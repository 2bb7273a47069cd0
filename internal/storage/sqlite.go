package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hrcadm/sleeptracker/internal"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStorage stores the snapshot as a JSON payload in a key/value state table.
type SQLiteStorage struct {
	db     *sql.DB
	path   string
	logger internal.Logger
}

func NewSQLiteStorage(ctx context.Context, path string, logger internal.Logger) (*SQLiteStorage, error) {
	if path == "" {
		path = "data/sleeptracker.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("storage: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Errorf("failed to open sqlite: %v", err)
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	// one connection keeps writes serialized on the single file
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: create state table: %w", err)
	}
	return &SQLiteStorage{db: db, path: path, logger: logger}, nil
}

func (s *SQLiteStorage) Load(ctx context.Context) (*internal.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE key = ?`, StorageKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Errorf("failed to query state: %v", err)
		return nil, fmt.Errorf("storage: select state: %w", err)
	}
	var snap internal.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *SQLiteStorage) Save(ctx context.Context, snap *internal.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage: encode snapshot: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO state(key, payload, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		StorageKey, data); err != nil {
		s.logger.Errorf("failed to upsert state: %v", err)
		return fmt.Errorf("storage: upsert state: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Path() string { return s.path }

func (s *SQLiteStorage) Close() error { return s.db.Close() }

var _ SnapshotRepository = (*SQLiteStorage)(nil)
