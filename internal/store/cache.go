// Package store provides the local lookup cache. Directory responses are
// cached across runs so a resumed or re-tuned run does not re-spend API
// quota on queries it has already answered.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed response cache keyed by a normalized request hash.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens (or creates) the cache database at the given path and
// configures WAL mode. A non-positive ttl disables expiry.
func Open(path string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	return &Cache{db: db, ttl: ttl}, nil
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS lookup_cache (
	key       TEXT PRIMARY KEY,
	payload   TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_lookup_cache_cached_at ON lookup_cache(cached_at);
`

// Migrate creates the cache schema.
func (c *Cache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, cacheMigration)
	return eris.Wrap(err, "cache: migrate")
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key returns the SHA-256 hex digest of the normalized request parts.
func Key(parts ...string) string {
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", h)
}

// Get looks up a cached payload. Expired entries and storage errors both
// report a miss; the cache never fails a lookup.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	query := "SELECT payload FROM lookup_cache WHERE key = ?"
	args := []any{key}
	if c.ttl > 0 {
		query += " AND cached_at > ?"
		args = append(args, time.Now().UTC().Add(-c.ttl))
	}

	var payload string
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if err != sql.ErrNoRows {
			zap.L().Debug("cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return []byte(payload), true
}

// Put stores a payload under the given key, replacing any prior entry.
func (c *Cache) Put(ctx context.Context, key string, payload []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO lookup_cache (key, payload, cached_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		key, string(payload), time.Now().UTC(),
	)
	return eris.Wrap(err, "cache: put")
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int64
	Oldest  time.Time
	Newest  time.Time
}

// CollectStats returns entry count and age bounds.
func (c *Cache) CollectStats(ctx context.Context) (*Stats, error) {
	var s Stats
	var oldest, newest sql.NullTime
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MIN(cached_at), MAX(cached_at) FROM lookup_cache").
		Scan(&s.Entries, &oldest, &newest)
	if err != nil {
		return nil, eris.Wrap(err, "cache: stats")
	}
	if oldest.Valid {
		s.Oldest = oldest.Time
	}
	if newest.Valid {
		s.Newest = newest.Time
	}
	return &s, nil
}

// Purge deletes all cached entries and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM lookup_cache")
	if err != nil {
		return 0, eris.Wrap(err, "cache: purge")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "cache: purge rows affected")
	}
	return n, nil
}
