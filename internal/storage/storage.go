package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/config"
)

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendNone  = ""
	BackendMinio = "minio"
	BackendGCS   = "gcs"
)

const jsonContentType = "application/json"

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API.
type Storage struct {
	backend ObjectStorage
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// Open selects the backend named by cfg.StorageBackend and makes sure its bucket exists.
// It returns nil, nil when no backend is configured.
func Open(ctx context.Context, cfg config.Config) (*Storage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.StorageBackend)) {
	case BackendNone:
		return nil, nil
	case BackendMinio:
		backend, err = NewMinioClient(cfg.Minio)
	case BackendGCS:
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}
	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", backend.Bucket(), err)
	}
	return NewStorage(backend), nil
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// PutJSON uploads an already encoded JSON document.
func (s *Storage) PutJSON(ctx context.Context, key string, data []byte) error {
	return s.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), jsonContentType)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}
