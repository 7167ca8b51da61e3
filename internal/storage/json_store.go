package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"navd/pkg/fsutils"
)

// fileEntry is the on-disk envelope of a single key.
type fileEntry struct {
	Key       string     `json:"key"`
	Value     []byte     `json:"value"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// JSONStore implements Store using one JSON file per key.
type JSONStore struct {
	// BasePath is the directory where entry files (*.json) are stored.
	BasePath string
	clock    Clock
}

// NewJSONStore creates a new JSONStore instance.
// It ensures the base storage directory exists.
func NewJSONStore(basePath string, opts ...Option) (*JSONStore, error) {
	if err := fsutils.CreateDir(basePath); err != nil {
		return nil, fmt.Errorf("failed to create storage directory '%s': %w", basePath, err)
	}
	o := buildOptions(opts)
	return &JSONStore{BasePath: basePath, clock: o.clock}, nil
}

func (js *JSONStore) path(key string) string {
	return filepath.Join(js.BasePath, fsutils.KeyFilename(key, ".json"))
}

// Get reads the entry file for key. Expired entries are removed.
func (js *JSONStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filePath := js.path(key)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read entry file %s: %w", filePath, err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry from %s: %w", filePath, err)
	}
	if entry.Key != key {
		return nil, ErrNotFound
	}

	if entry.ExpiresAt != nil && !js.clock().Before(*entry.ExpiresAt) {
		if err := fsutils.RemoveFile(filePath); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return entry.Value, nil
}

// Set writes the entry file for key atomically.
func (js *JSONStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	now := js.clock()
	data, err := json.MarshalIndent(fileEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: expiry(now, ttl),
		UpdatedAt: now,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entry %s: %w", key, err)
	}

	return fsutils.WriteFileAtomic(js.path(key), data)
}

// Delete removes the entry file for key (idempotent delete).
func (js *JSONStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fsutils.RemoveFile(js.path(key))
}

func (js *JSONStore) Close() error {
	return nil
}
