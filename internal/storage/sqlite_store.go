package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"navd/pkg/fsutils"
)

var _ Purger = (*SQLiteStore)(nil)

// SQLiteStore implements Store on a single SQLite table.
type SQLiteStore struct {
	db      *sql.DB
	dataDir string
	clock   Clock
}

// NewSQLiteStore opens (or creates) navd.db inside dataDir.
func NewSQLiteStore(dataDir string, opts ...Option) (*SQLiteStore, error) {
	if err := fsutils.CreateDir(dataDir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "navd.db")
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	o := buildOptions(opts)
	s := &SQLiteStore{
		db:      db,
		dataDir: dataDir,
		clock:   o.clock,
	}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return s, nil
}

// init creates the database schema
func (s *SQLiteStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		expires_at INTEGER,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_kv_expires_at ON kv(expires_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM kv WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", key, err)
	}

	if expiresAt.Valid && s.clock().UnixNano() >= expiresAt.Int64 {
		if _, err := s.db.ExecContext(ctx,
			"DELETE FROM kv WHERE key = ? AND expires_at = ?", key, expiresAt.Int64,
		); err != nil {
			return nil, fmt.Errorf("delete expired %s: %w", key, err)
		}
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.clock()
	var expiresAt sql.NullInt64
	if exp := expiry(now, ttl); exp != nil {
		expiresAt = sql.NullInt64{Int64: exp.UnixNano(), Valid: true}
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
	INSERT OR REPLACE INTO kv (key, value, expires_at, updated_at)
	VALUES (?, ?, ?, ?)
	`, key, value, expiresAt, now.UnixNano())
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// PurgeExpired deletes every expired entry and reports how many were removed.
func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM kv WHERE expires_at IS NOT NULL AND expires_at <= ?", s.clock().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge expired: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
