// Package filestore defines the interface for the object storage
// backend the console administers.
//
// Callers depend only on this package — never on a specific provider
// package. The MinIO provider lives in the minio subpackage.
//
// Usage:
//
//	cfg := filestore.ConfigFromProfile(profile, accessKey, secretKey)
//	store, err := minio.New(cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	if err := store.Ping(ctx); err != nil { ... } // credential check
//	buckets, err := store.ListBuckets(ctx)
package filestore

import (
	"context"
	"time"
)

// Store is the single interface all object storage providers must
// implement. Scoped to the operations the console's bucket screens use.
type Store interface {
	// Ping performs one cheap authenticated call (listing buckets) and
	// therefore doubles as the credential check at login.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// ListBuckets returns all buckets accessible with the configured credentials.
	ListBuckets(ctx context.Context) ([]BucketInfo, error)

	// CountObjects returns the number of objects stored in bucket.
	CountObjects(ctx context.Context, bucket string) (int, error)

	// MakeBucket creates bucket in the given region.
	MakeBucket(ctx context.Context, bucket, region string) error

	// RemoveBucket deletes bucket. The backend rejects non-empty buckets.
	RemoveBucket(ctx context.Context, bucket string) error
}

// BucketInfo describes a storage bucket.
type BucketInfo struct {
	// Name is the bucket name.
	Name string

	// CreatedAt is when the bucket was created.
	// May be zero if the backend does not expose creation time.
	CreatedAt time.Time
}
