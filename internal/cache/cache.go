// Package cache keeps finished translations so the same problem text is not
// sent to the model twice.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Entry is one cached translation. Key is api.TranslationKey.Hash().
type Entry struct {
	Key       string
	Model     string
	Language  string
	Result    string
	CreatedAt time.Time
}

// Stats summarises the store contents.
type Stats struct {
	Entries int64
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
}

// Store is the translation cache.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	// Put inserts or replaces the entry with the same key.
	Put(ctx context.Context, e Entry) error
	// Purge removes entries created before olderThan; the zero time removes all.
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

var ErrNotFound = errors.New("not found")

// Fresh reports whether e is still usable at now. A non-positive ttl never
// expires entries.
func Fresh(e Entry, ttl time.Duration, now time.Time) bool {
	return ttl <= 0 || now.Sub(e.CreatedAt) < ttl
}

// Open returns a Store based on a DSN: memory:// or sqlite://path (a bare
// path is treated as sqlite).
func Open(ctx context.Context, dsn string) (Store, error) {
	if dsn == "memory://" || dsn == ":memory:" {
		return newMemStore(), nil
	}
	s, err := openSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	if err != nil {
		return nil, err
	}
	return s, nil
}
