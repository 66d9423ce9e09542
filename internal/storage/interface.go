package storage

import (
	"context"
	"errors"
)

// Storage errors
var (
	// ErrNotFound is returned by Tx.Get for a missing key
	ErrNotFound = errors.New("key not found")
	// ErrConflict is returned by Update when a concurrent writer touched a key this transaction read
	ErrConflict = errors.New("concurrent update conflict")
	// ErrReadOnly is returned by writes inside View
	ErrReadOnly = errors.New("write in read-only transaction")
)

// Tx is a view of the store inside one transaction. Writes are buffered and
// become visible to later reads in the same transaction, and to everyone else
// only when the transaction commits.
type Tx interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store defines the interface for data persistence. Every ledger operation
// runs inside exactly one Update: if fn returns an error nothing it wrote is
// kept.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
