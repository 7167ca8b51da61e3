package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"navd/internal/model"
	"navd/internal/storage"
)

// SnapshotKey is the storage key of the last payload fetched successfully.
const SnapshotKey = "navigation:payload"

// CachedSource keeps the last payload for a TTL and collapses concurrent
// refreshes into a single upstream call. When a refresh fails it serves the
// previous payload, falling back to a persisted snapshot after a restart.
type CachedSource struct {
	src      Source
	ttl      time.Duration
	clock    func() time.Time
	logger   *slog.Logger
	snapshot storage.Store

	group singleflight.Group

	mu        sync.RWMutex
	payload   *model.SidebarPayload
	fetchedAt time.Time
}

// CacheOption configures a CachedSource.
type CacheOption func(*CachedSource)

// WithCacheClock overrides the time source used for TTL checks.
func WithCacheClock(clock func() time.Time) CacheOption {
	return func(c *CachedSource) { c.clock = clock }
}

// WithCacheLogger sets the logger used to report refresh failures.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedSource) { c.logger = logger }
}

// WithSnapshotStore persists every successful payload in store.
func WithSnapshotStore(store storage.Store) CacheOption {
	return func(c *CachedSource) { c.snapshot = store }
}

// NewCachedSource wraps src. A ttl of zero or less disables caching but keeps
// the stale-on-error behaviour.
func NewCachedSource(src Source, ttl time.Duration, opts ...CacheOption) *CachedSource {
	c := &CachedSource{
		src:   src,
		ttl:   ttl,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

func (c *CachedSource) Fetch(ctx context.Context) (*model.SidebarPayload, error) {
	if p, ok := c.fresh(); ok {
		return p, nil
	}

	// The shared refresh outlives any single caller; the source's own
	// timeout bounds it. Each caller still stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan("payload", func() (any, error) {
		return c.refresh(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.SidebarPayload), nil
	}
}

// Invalidate forces the next Fetch to go to the underlying source.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

func (c *CachedSource) fresh() (*model.SidebarPayload, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.payload == nil || c.ttl <= 0 || c.fetchedAt.IsZero() {
		return nil, false
	}
	return c.payload, c.clock().Sub(c.fetchedAt) < c.ttl
}

func (c *CachedSource) refresh(ctx context.Context) (*model.SidebarPayload, error) {
	payload, err := c.src.Fetch(ctx)
	if err == nil {
		c.mu.Lock()
		c.payload = payload
		c.fetchedAt = c.clock()
		c.mu.Unlock()
		c.persist(ctx, payload)
		return payload, nil
	}

	c.mu.RLock()
	stale := c.payload
	c.mu.RUnlock()
	if stale != nil {
		c.logger.Warn("navigation refresh failed, serving cached payload", "error", err)
		return stale, nil
	}

	if restored := c.restore(ctx); restored != nil {
		c.logger.Warn("navigation refresh failed, serving persisted snapshot", "error", err)
		c.mu.Lock()
		c.payload = restored
		c.mu.Unlock()
		return restored, nil
	}
	return nil, err
}

func (c *CachedSource) persist(ctx context.Context, payload *model.SidebarPayload) {
	if c.snapshot == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("failed to encode navigation snapshot", "error", err)
		return
	}
	if err := c.snapshot.Set(ctx, SnapshotKey, data, 0); err != nil {
		c.logger.Error("failed to persist navigation snapshot", "error", err)
	}
}

func (c *CachedSource) restore(ctx context.Context) *model.SidebarPayload {
	if c.snapshot == nil {
		return nil
	}
	data, err := c.snapshot.Get(ctx, SnapshotKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Error("failed to read navigation snapshot", "error", err)
		}
		return nil
	}
	payload, err := DecodePayload(data)
	if err != nil {
		c.logger.Error("discarding corrupt navigation snapshot", "error", err)
		return nil
	}
	return payload
}
