// Package repository provides the concrete key-value stores: a database/sql
// implementation for sqlite/postgres and an in-memory one.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const kvTable = "polyglot_kv"

// SQLStore persists key-value records in a single upsert table. One code
// path serves both drivers; only placeholders, the value column type and the
// conflict clause differ.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore opens the database, verifies connectivity and ensures the
// table exists. The returned cleanup closes the connection.
func NewSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, func(), error) {
	db, err := openDB(ctx, driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	store := &SQLStore{db: db, driver: driver}
	if err := store.ensureTable(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { _ = db.Close() }, nil
}

func openDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set sqlite journal mode: %w", err)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set sqlite busy timeout: %w", err)
		}
	}
	return db, nil
}

func (s *SQLStore) ensureTable(ctx context.Context) error {
	valueType := "BLOB"
	timeType := "TIMESTAMP"
	if s.driver == "postgres" {
		valueType = "BYTEA"
		timeType = "TIMESTAMPTZ"
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value %s NOT NULL,
		updated_at %s NOT NULL
	)`, kvTable, valueType, timeType)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s table: %w", kvTable, err)
	}
	return nil
}

// placeholders renders n driver-specific parameter markers starting at 1.
func (s *SQLStore) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if s.driver == "postgres" {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ph := s.placeholders(1)
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = %s", kvTable, ph[0])
	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	ph := s.placeholders(3)
	query := fmt.Sprintf(
		`INSERT INTO %s (key, value, updated_at) VALUES (%s, %s, %s)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		kvTable, ph[0], ph[1], ph[2],
	)
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Del(ctx context.Context, key string) error {
	ph := s.placeholders(1)
	query := fmt.Sprintf("DELETE FROM %s WHERE key = %s", kvTable, ph[0])
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("del %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", kvTable)); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	return nil
}

func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT key FROM %s ORDER BY key", kvTable))
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}
