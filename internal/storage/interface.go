package storage

import (
	"context"
	"errors"

	"github.com/hrcadm/sleeptracker/internal"
)

// StorageKey names the single persisted blob in every backend.
const StorageKey = "sleep-storage"

var ErrUnknownBackend = errors.New("storage: unknown backend")

// SnapshotRepository persists the whole tracker state as one blob.
// Load returns a nil snapshot and no error when nothing has been saved yet.
type SnapshotRepository interface {
	Load(ctx context.Context) (*internal.Snapshot, error)
	Save(ctx context.Context, snap *internal.Snapshot) error
	Close() error
}
