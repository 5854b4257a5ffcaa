package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"letrario/internal/config"
)

// Storage wraps the S3-compatible object store holding work and chapter
// files. The API never streams file bytes itself; readers get short-lived
// presigned URLs.
type Storage struct {
	client         *minio.Client
	worksBucket    string
	chaptersBucket string
}

// New creates a MinIO client from the Config.
func New(cfg *config.Config) (*Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{
		client:         client,
		worksBucket:    cfg.WorksBucket,
		chaptersBucket: cfg.ChaptersBucket,
	}, nil
}

// PresignURL returns a signed GET URL for an object in the named bucket.
// The object key is expected in canonical bucket-relative form.
func (s *Storage) PresignURL(ctx context.Context, bucket, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, objectKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, objectKey, err)
	}
	return u.String(), nil
}

// ChaptersBucket is the default bucket for chapter PDFs, used when an
// activity row carried no bucket of its own.
func (s *Storage) ChaptersBucket() string {
	return s.chaptersBucket
}

// WorksBucket is the default bucket for standalone work files.
func (s *Storage) WorksBucket() string {
	return s.worksBucket
}
