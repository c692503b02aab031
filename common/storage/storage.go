package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// StorageService defines the interface for storage operations
type StorageService interface {
	// StreamUpload uploads a file from a reader and returns the object name
	StreamUpload(ctx context.Context, bucket, objectName string, reader io.Reader, contentType string) (string, error)

	// GetSignedURL gets a time-limited GET URL for an object
	GetSignedURL(ctx context.Context, bucket, objectName string, expires time.Duration) (string, error)
}

// BucketStore binds a StorageService to one bucket and object prefix.
type BucketStore struct {
	svc    StorageService
	bucket string
	prefix string
	ttl    time.Duration
}

func NewBucketStore(svc StorageService, bucket, prefix string, ttl time.Duration) *BucketStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &BucketStore{
		svc:    svc,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		ttl:    ttl,
	}
}

// Upload stores r under the configured prefix.
func (b *BucketStore) Upload(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error) {
	return b.svc.StreamUpload(ctx, b.bucket, b.objectPath(objectName), r, contentType)
}

// SignedURL signs an object returned by Upload.
func (b *BucketStore) SignedURL(ctx context.Context, objectName string) (string, error) {
	return b.svc.GetSignedURL(ctx, b.bucket, objectName, b.ttl)
}

func (b *BucketStore) objectPath(objectName string) string {
	if b.prefix == "" {
		return objectName
	}
	return path.Join(b.prefix, objectName)
}
