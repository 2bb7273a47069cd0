package storage

import (
	"context"
	"fmt"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/config"
)

// Open builds the snapshot repository selected by cfg.DBType.
func Open(ctx context.Context, cfg *config.Config, logger internal.Logger) (SnapshotRepository, error) {
	logger = logger.With("backend", cfg.DBType)
	var (
		repo SnapshotRepository
		err  error
	)
	switch cfg.DBType {
	case "file":
		repo, err = NewFileStorage(cfg.FileSleep, logger)
	case "sqlite":
		repo, err = NewSQLiteStorage(ctx, cfg.SQLitePath, logger)
	case "postgres":
		repo, err = NewPostgresStorage(ctx, cfg.DBDSN, logger)
	case "s3":
		repo, err = NewS3Storage(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
			Prefix:          cfg.S3.Prefix,
		}, logger)
	case "memory":
		repo = NewMemoryStorage()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.DBType)
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}
