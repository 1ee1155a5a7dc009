package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Dialect selects the SQL flavour spoken by SQLStore.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

type sqlQueries struct {
	schema string
	get    string
	upsert string
	delete string
}

var dialectQueries = map[Dialect]sqlQueries{
	DialectPostgres: {
		schema: `
			CREATE TABLE IF NOT EXISTS kv_entries (
				entry_key   TEXT PRIMARY KEY,
				entry_value TEXT NOT NULL,
				updated_at  TEXT NOT NULL
			)`,
		get: `SELECT entry_value FROM kv_entries WHERE entry_key = $1`,
		upsert: `
			INSERT INTO kv_entries (entry_key, entry_value, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (entry_key)
			DO UPDATE SET entry_value = EXCLUDED.entry_value, updated_at = EXCLUDED.updated_at`,
		delete: `DELETE FROM kv_entries WHERE entry_key = $1`,
	},
	DialectSQLite: {
		schema: `
			CREATE TABLE IF NOT EXISTS kv_entries (
				entry_key   TEXT PRIMARY KEY,
				entry_value TEXT NOT NULL,
				updated_at  TEXT NOT NULL
			)`,
		get: `SELECT entry_value FROM kv_entries WHERE entry_key = ?`,
		upsert: `
			INSERT INTO kv_entries (entry_key, entry_value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (entry_key)
			DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`,
		delete: `DELETE FROM kv_entries WHERE entry_key = ?`,
	},
}

// SQLStore keeps values in a kv_entries table.
type SQLStore struct {
	db      *sql.DB
	queries sqlQueries
	now     func() time.Time
}

// NewSQLStore wraps an open database. Call EnsureSchema before first use.
func NewSQLStore(db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database is not configured")
	}
	queries, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported sql dialect %d", dialect)
	}
	return &SQLStore{db: db, queries: queries, now: time.Now}, nil
}

// Ensure SQLStore implements Store
var _ Store = (*SQLStore)(nil)

// EnsureSchema creates the kv_entries table when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.queries.schema); err != nil {
		return errors.Wrap(err, "create kv_entries table")
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.queries.get, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "select %s", key)
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, s.queries.upsert, key, value, updatedAt); err != nil {
		return errors.Wrapf(err, "upsert %s", key)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.queries.delete, key); err != nil {
		return errors.Wrapf(err, "delete %s", key)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
