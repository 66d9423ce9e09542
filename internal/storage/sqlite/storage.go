package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mcoot/stakeledger/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);`

// Config holds SQLite settings
type Config struct {
	// Path is the database file, or ":memory:"
	Path string
}

// DefaultConfig returns sensible defaults for SQLite configuration
func DefaultConfig() Config {
	return Config{Path: "stakeledger.db"}
}

// Storage is a SQLite-backed implementation of the storage interface. A
// single connection is used, so transactions are serialised by the pool.
type Storage struct {
	db *sqlx.DB
}

// New opens the database and ensures the schema exists
func New(cfg Config) (*Storage, error) {
	db, err := sqlx.Connect("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Update runs fn inside a SQL transaction, committing only if it succeeds
func (s *Storage) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	return s.run(ctx, false, fn)
}

// View runs fn inside a transaction that is always rolled back
func (s *Storage) View(ctx context.Context, fn func(tx storage.Tx) error) error {
	return s.run(ctx, true, fn)
}

func (s *Storage) run(ctx context.Context, readOnly bool, fn func(tx storage.Tx) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := fn(&txn{tx: sqlTx, readOnly: readOnly}); err != nil {
		return err
	}
	if readOnly {
		return nil
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type txn struct {
	tx       *sqlx.Tx
	readOnly bool
}

func (t *txn) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := t.tx.GetContext(ctx, &value, `SELECT value FROM entries WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (t *txn) Put(ctx context.Context, key string, value []byte) error {
	if t.readOnly {
		return storage.ErrReadOnly
	}
	if value == nil {
		value = []byte{}
	}
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO entries (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (t *txn) Delete(ctx context.Context, key string) error {
	if t.readOnly {
		return storage.ErrReadOnly
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
