package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hrcadm/sleeptracker/internal"
)

// S3Config holds the settings for an S3-compatible bucket (AWS S3 or MinIO).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. a MinIO url
	AccessKeyID     string // optional, falls back to the default credentials chain
	SecretAccessKey string
	PathStyle       bool
	Prefix          string // optional key prefix
}

// objectAPI is the part of *s3.Client the storage uses.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage keeps the snapshot as a single JSON object.
type S3Storage struct {
	client objectAPI
	bucket string
	key    string
	logger internal.Logger
}

func NewS3Storage(ctx context.Context, cfg S3Config, logger internal.Logger) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		logger.Errorf("failed to load aws config: %v", err)
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Storage(client, cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3Storage(client objectAPI, bucket, prefix string, logger internal.Logger) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: bucket,
		key:    prefix + StorageKey + ".json",
		logger: logger,
	}
}

func (s *S3Storage) Load(ctx context.Context) (*internal.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		s.logger.Errorf("failed to get s3://%s/%s: %v", s.bucket, s.key, err)
		return nil, fmt.Errorf("storage: get object: %w", err)
	}
	defer out.Body.Close()

	var snap internal.Snapshot
	if err := json.NewDecoder(out.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *S3Storage) Save(ctx context.Context, snap *internal.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage: encode snapshot: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Errorf("failed to put s3://%s/%s: %v", s.bucket, s.key, err)
		return fmt.Errorf("storage: put object: %w", err)
	}
	return nil
}

func (s *S3Storage) Close() error { return nil }

var _ SnapshotRepository = (*S3Storage)(nil)
