package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the embedded SQLite database with an explicit open/close
// lifecycle. It is constructed once in main and passed to the repositories;
// there is no package-level handle.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates the data directory if needed and opens the database file in
// WAL mode. A single writer connection is enforced: SQLite serializes writers
// internally, and the busy timeout covers reader/writer contention.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := "file:" + url.PathEscape(dbPath) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: sqlDB, path: dbPath}, nil
}

// OpenMemory opens a throwaway in-memory database. Used by repository tests.
func OpenMemory(ctx context.Context) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	// An in-memory database exists per connection; keep exactly one.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping in-memory database: %w", err)
	}
	return &Store{db: sqlDB, path: ":memory:"}, nil
}

// DB exposes the raw handle for the repositories.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a transaction and stashes the transaction in the
// context so that repositories called from fn join it. Rolls back on error or
// panic, commits otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	done := false
	defer func() {
		if !done {
			tx.Rollback()
		}
	}()

	if err := fn(WithTxContext(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	done = true
	return nil
}
