// Package storage archives uploaded import files in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/josh-kwaku/loan-servicing/internal/config"
)

type Archive struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// NewArchive returns nil without error when no endpoint is configured.
func NewArchive(ctx context.Context, cfg config.S3Config) (*Archive, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage.NewArchive: %w", err)
	}

	a := &Archive{client: client, bucket: cfg.Bucket, now: time.Now}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("storage.NewArchive: %w", err)
	}
	return a, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// Store uploads r under imports/<user>/<kind>/<unixnano>-<name> and returns the
// s3:// location. size may be -1 when unknown. A nil Archive stores nothing.
func (a *Archive) Store(ctx context.Context, userID uuid.UUID, kind, filename, contentType string, r io.Reader, size int64) (string, error) {
	if a == nil {
		return "", nil
	}
	key := ObjectKey(userID, kind, filename, a.now())

	if size <= 0 {
		size = -1
	}
	_, err := a.client.PutObject(ctx, a.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("Archive.Store: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

func ObjectKey(userID uuid.UUID, kind, filename string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return fmt.Sprintf("imports/%s/%s/%d-%s", userID, kind, at.UnixNano(), name)
}
