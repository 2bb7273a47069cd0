package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hrcadm/sleeptracker/internal"
)

// MemoryStorage holds the encoded snapshot in process memory. Saves can be made
// to fail on demand, which tests use to exercise persistence errors.
type MemoryStorage struct {
	mu      sync.Mutex
	payload []byte
	saves   int
	failErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(ctx context.Context) (*internal.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return nil, nil
	}
	var snap internal.Snapshot
	if err := json.Unmarshal(m.payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (m *MemoryStorage) Save(ctx context.Context, snap *internal.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.payload = data
	m.saves++
	return nil
}

// FailWith makes every following Save return err. A nil err restores normal saves.
func (m *MemoryStorage) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Saves reports how many snapshots were written successfully.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryStorage) Close() error { return nil }

var _ SnapshotRepository = (*MemoryStorage)(nil)
