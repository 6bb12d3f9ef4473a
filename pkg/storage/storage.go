// Package storage provides blob storage for uploaded receipt files with local
// filesystem and S3 implementations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/FACorreiaa/smart-finance-receipts/pkg/config"
)

// ErrNotFound is returned when no object exists for a key.
var ErrNotFound = errors.New("storage: object not found")

// ObjectInfo contains metadata about a stored object
type ObjectInfo struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// Storage defines the blob operations the receipt pipeline needs.
type Storage interface {
	// Put stores r under key, replacing any existing object.
	Put(ctx context.Context, key, contentType string, r io.Reader) (*ObjectInfo, error)

	// Get opens the object stored under key. Callers close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

// StorageType identifies the storage backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// New creates a Storage implementation based on configuration
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch StorageType(cfg.Type) {
	case StorageTypeS3:
		return NewS3Storage(ctx, cfg)
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// ReadAll fetches the full object body.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, *ObjectInfo, error) {
	rc, info, err := s.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, info, nil
}

// cleanKey turns a caller supplied key into a relative slash path with no
// parent references.
func cleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}
