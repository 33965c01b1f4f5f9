// Package minio provides a MinIO implementation of filestore.Store.
//
// Usage:
//
//	store, err := minio.New(cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	if err := store.Ping(ctx); err != nil { ... }
//	buckets, err := store.ListBuckets(ctx)
package minio

import (
	"context"
	"crypto/tls"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/filestore"
)

// Driver is a MinIO implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
}

var _ filestore.Store = (*Driver)(nil)

// New builds a MinIO client from cfg. Construction is offline: the
// first network round-trip happens on Ping or the first operation, so
// callers that need the credentials confirmed (the login flow) call
// Ping explicitly.
func New(cfg *filestore.Config) (*Driver, error) {
	opts := &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.UseSSL && cfg.InsecureSkipVerify {
		opts.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	client, err := miniogo.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	return &Driver{client: client}, nil
}

// --- filestore.Store implementation ---

// Ping verifies the MinIO server is reachable and the credentials are
// accepted by listing buckets.
func (d *Driver) Ping(ctx context.Context) error {
	if _, err := d.client.ListBuckets(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close is a no-op for MinIO — the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// ListBuckets returns all buckets accessible with the configured credentials.
func (d *Driver) ListBuckets(ctx context.Context) ([]filestore.BucketInfo, error) {
	raw, err := d.client.ListBuckets(ctx)
	if err != nil {
		return nil, mapError(err, "failed to list buckets")
	}

	buckets := make([]filestore.BucketInfo, len(raw))
	for i, b := range raw {
		buckets[i] = filestore.BucketInfo{
			Name:      b.Name,
			CreatedAt: b.CreationDate,
		}
	}
	return buckets, nil
}

// CountObjects walks the bucket recursively and counts its objects.
func (d *Driver) CountObjects(ctx context.Context, bucket string) (int, error) {
	count := 0
	for obj := range d.client.ListObjects(ctx, bucket, miniogo.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return 0, mapError(obj.Err, "failed to count objects")
		}
		count++
	}
	return count, nil
}

// MakeBucket creates bucket in region.
func (d *Driver) MakeBucket(ctx context.Context, bucket, region string) error {
	err := d.client.MakeBucket(ctx, bucket, miniogo.MakeBucketOptions{Region: region})
	if err != nil {
		return mapError(err, "failed to create bucket")
	}
	return nil
}

// RemoveBucket deletes bucket.
func (d *Driver) RemoveBucket(ctx context.Context, bucket string) error {
	if err := d.client.RemoveBucket(ctx, bucket); err != nil {
		return mapError(err, "failed to remove bucket")
	}
	return nil
}
