package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage implements Storage using the local filesystem. Content types
// are kept in a JSON sidecar next to each object.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Put writes the object and its metadata sidecar.
func (s *LocalStorage) Put(ctx context.Context, key, contentType string, r io.Reader) (*ObjectInfo, error) {
	filePath, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info := &ObjectInfo{
		Key:         key,
		Size:        size,
		ContentType: contentType,
		ModifiedAt:  time.Now().UTC(),
	}
	if err := s.saveMetadata(filePath, info); err != nil {
		os.Remove(filePath)
		return nil, err
	}
	return info, nil
}

// Get opens the object for reading.
func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	filePath, err := s.pathFor(key)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := s.loadMetadata(filePath, key)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, info, nil
}

// Delete removes the object and its sidecar.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	filePath, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	os.Remove(metaPath(filePath))
	return nil
}

func (s *LocalStorage) pathFor(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleaned)), nil
}

func metaPath(filePath string) string {
	return filepath.Join(filepath.Dir(filePath), ".meta", filepath.Base(filePath)+".json")
}

func (s *LocalStorage) saveMetadata(filePath string, info *ObjectInfo) error {
	mp := metaPath(filePath)
	if err := os.MkdirAll(filepath.Dir(mp), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(mp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// loadMetadata falls back to stat information when the sidecar is missing,
// which happens for files dropped into the directory by other tools.
func (s *LocalStorage) loadMetadata(filePath, key string) (*ObjectInfo, error) {
	data, err := os.ReadFile(metaPath(filePath))
	if err == nil {
		var info ObjectInfo
		if err := json.Unmarshal(data, &info); err != nil {
			return nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		return &info, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	st, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return &ObjectInfo{Key: key, Size: st.Size(), ModifiedAt: st.ModTime()}, nil
}
