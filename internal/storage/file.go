package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hrcadm/sleeptracker/internal"
)

// FileStorage keeps the snapshot in a single JSON file, rewritten atomically.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	logger internal.Logger
}

func NewFileStorage(path string, logger internal.Logger) (*FileStorage, error) {
	if path == "" {
		return nil, errors.New("storage: file path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Errorf("storage: failed to create data dir: %v", err)
		return nil, fmt.Errorf("storage: create dirs: %w", err)
	}
	return &FileStorage{path: path, logger: logger}, nil
}

func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Load(ctx context.Context) (*internal.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var snap internal.Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		s.logger.Errorf("storage: failed to decode %s: %v", s.path, err)
		return nil, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *FileStorage) Save(ctx context.Context, snap *internal.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := atomicWriteFileJSON(s.path, snap); err != nil {
		s.logger.Errorf("storage: error saving snapshot: %v", err)
		return fmt.Errorf("storage: write snapshot: %w", err)
	}
	return nil
}

func (s *FileStorage) Close() error { return nil }

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

var _ SnapshotRepository = (*FileStorage)(nil)
