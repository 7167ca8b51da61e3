package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"navd/internal/config"
	"navd/internal/momentum"
	"navd/internal/source"
	"navd/internal/storage"
	"navd/pkg/fsutils"
)

// openStore opens the configured key-value store.
func openStore(c *config.Config) (storage.Store, error) {
	store, err := storage.Open(c.Store.Driver, c.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.Store.Driver, err)
	}
	return store, nil
}

// newSource picks the payload source: a local file wins over the backend URL.
func newSource(c *config.Config) (source.Source, error) {
	switch {
	case c.Source.File != "":
		if !fsutils.FileExists(c.Source.File) {
			return nil, fmt.Errorf("navigation file %s does not exist", c.Source.File)
		}
		return &source.FileSource{Path: c.Source.File}, nil
	case c.Source.URL != "":
		return source.NewHTTPSource(c.Source.URL, c.Source.Timeout), nil
	default:
		return nil, source.ErrNoSource
	}
}

func newTracker(c *config.Config, store storage.Store, l *slog.Logger) (*momentum.Tracker, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return momentum.NewTracker(store,
		momentum.WithLocation(loc),
		momentum.WithTTL(c.Momentum.TTL),
		momentum.WithLogger(l),
	), nil
}

// purgeExpired drops expired entries every interval until ctx is done.
func purgeExpired(ctx context.Context, p storage.Purger, interval time.Duration, l *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				l.Error("Failed to purge expired entries", "error", err)
				continue
			}
			if n > 0 {
				l.Debug("Purged expired entries", "count", n)
			}
		}
	}
}
