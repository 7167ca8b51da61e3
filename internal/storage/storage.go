package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when a key is missing or has expired.
var ErrNotFound = errors.New("key not found")

// Store is a key-value store with per-entry expiry. It backs the small
// pieces of cross-session state (momentum counters, cached payloads), so
// implementations can be swapped without touching the callers.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Purger is implemented by stores that can drop expired entries in bulk.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Clock returns the current time. Stores take one so expiry can be tested.
type Clock func() time.Time

type options struct {
	clock Clock
}

// Option configures a store.
type Option func(*options)

// WithClock overrides the time source used for expiry.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func expiry(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := now.Add(ttl)
	return &t
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open creates a store for the named driver. path is the directory for the
// file driver and the data directory holding navd.db for the sqlite driver;
// the memory driver ignores it.
func Open(driver, path string, opts ...Option) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(opts...), nil
	case DriverFile:
		return NewJSONStore(path, opts...)
	case DriverSQLite:
		return NewSQLiteStore(path, opts...)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
