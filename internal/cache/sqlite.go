package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteStore struct{ db *sql.DB }

// openSQLite connects using the modernc.org/sqlite driver and ensures the schema exists.
func openSQLite(ctx context.Context, path string) (*sqliteStore, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if _, err := dbh.ExecContext(ctx, `PRAGMA busy_timeout=5000;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return &sqliteStore{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS translations (
  key TEXT PRIMARY KEY,
  model TEXT NOT NULL,
  language TEXT NOT NULL,
  result TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_translations_created ON translations(created_at);
`)
	return err
}

func (s *sqliteStore) Get(ctx context.Context, key string) (Entry, error) {
	var (
		e  Entry
		ts int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT key, model, language, result, created_at FROM translations WHERE key = ?`, key,
	).Scan(&e.Key, &e.Model, &e.Language, &e.Result, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	e.CreatedAt = time.UnixMilli(ts).UTC()
	return e, nil
}

func (s *sqliteStore) Put(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO translations(key, model, language, result, created_at) VALUES(?,?,?,?,?)
ON CONFLICT(key) DO UPDATE SET
  model = excluded.model,
  language = excluded.language,
  result = excluded.result,
  created_at = excluded.created_at`,
		e.Key, e.Model, e.Language, e.Result, e.CreatedAt.UTC().UnixMilli())
	return err
}

func (s *sqliteStore) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if olderThan.IsZero() {
		res, err = s.db.ExecContext(ctx, `DELETE FROM translations`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM translations WHERE created_at < ?`, olderThan.UTC().UnixMilli())
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqliteStore) Stats(ctx context.Context) (Stats, error) {
	var (
		st             Stats
		oldest, newest sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(CAST(result AS BLOB))), 0), MIN(created_at), MAX(created_at) FROM translations`,
	).Scan(&st.Entries, &st.Bytes, &oldest, &newest)
	if err != nil {
		return Stats{}, err
	}
	if oldest.Valid {
		st.Oldest = time.UnixMilli(oldest.Int64).UTC()
	}
	if newest.Valid {
		st.Newest = time.UnixMilli(newest.Int64).UTC()
	}
	return st, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }
