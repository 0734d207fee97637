// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package prefs

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/lumen-analytics/lumen/lib/clock"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Config holds the parameters for opening a SQLiteStore.
type Config struct {
	// Path is the database file. Its parent directory must exist.
	// ":memory:" opens a private in-memory database.
	Path string

	// Clock stamps UpdatedAt. Nil uses the wall clock.
	Clock clock.Clock

	Logger *slog.Logger
}

// SQLiteStore is a Store backed by a SQLite database file. It is safe
// for concurrent use.
type SQLiteStore struct {
	pool   *sqlitex.Pool
	clock  clock.Clock
	logger *slog.Logger
	path   string
}

// Open opens or creates the preference database at config.Path and
// ensures the schema exists.
func Open(config Config) (*SQLiteStore, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("prefs: Path is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	source := config.Clock
	if source == nil {
		source = clock.Real()
	}

	// Each in-memory connection is its own database, so an in-memory
	// store gets exactly one.
	poolSize := 2
	if config.Path == ":memory:" {
		poolSize = 1
	}

	pool, err := sqlitex.NewPool(config.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("prefs: opening %s: %w", config.Path, err)
	}

	logger.Debug("preference store opened", "path", config.Path)
	return &SQLiteStore{
		pool:   pool,
		clock:  source,
		logger: logger,
		path:   config.Path,
	}, nil
}

// prepareConnection applies pragmas and the schema once per pooled
// connection.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("prefs: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("prefs: creating schema: %w", err)
	}
	return nil
}

// Get returns the stored value for key.
func (store *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	record, found, err := store.Record(ctx, key)
	return record.Value, found, err
}

// Record returns the full stored record for key.
func (store *SQLiteStore) Record(ctx context.Context, key string) (Record, bool, error) {
	conn, err := store.pool.Take(ctx)
	if err != nil {
		return Record{}, false, fmt.Errorf("prefs: take: %w", err)
	}
	defer store.pool.Put(conn)

	var data []byte
	found := false
	err = sqlitex.Execute(conn, "SELECT value FROM preferences WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			data = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, data)
			found = true
			return nil
		},
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("prefs: reading %q: %w", key, err)
	}
	if !found {
		return Record{}, false, nil
	}
	record, err := DecodeRecord(data)
	if err != nil {
		return Record{}, false, fmt.Errorf("prefs: reading %q: %w", key, err)
	}
	return record, true, nil
}

// Set stores value under key.
func (store *SQLiteStore) Set(ctx context.Context, key, value string) error {
	record := Record{Value: value, UpdatedAt: store.clock.Now().UnixMilli()}
	data, err := EncodeRecord(record)
	if err != nil {
		return err
	}

	conn, err := store.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("prefs: take: %w", err)
	}
	defer store.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{Args: []any{key, data, record.UpdatedAt}},
	)
	if err != nil {
		return fmt.Errorf("prefs: writing %q: %w", key, err)
	}
	store.logger.Debug("preference saved", "key", key)
	return nil
}

// Close closes the database. It blocks until borrowed connections are
// returned.
func (store *SQLiteStore) Close() error {
	if err := store.pool.Close(); err != nil {
		return fmt.Errorf("prefs: closing %s: %w", store.path, err)
	}
	return nil
}
