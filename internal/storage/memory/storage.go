package memory

import (
	"context"
	"sync"

	"github.com/mcoot/stakeledger/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. All
// transactions are serialised under one lock, so they never conflict.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		data: make(map[string][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Update runs fn with exclusive access and commits its writes only if it succeeds
func (s *Storage) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txn{store: s, writes: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for key, value := range tx.writes {
		if value == nil {
			delete(s.data, key)
			continue
		}
		s.data[key] = value
	}
	return nil
}

// View runs fn against a read-only snapshot
func (s *Storage) View(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&txn{store: s, readOnly: true})
}

// Close is a no-op for memory storage
func (s *Storage) Close() error {
	return nil
}

// txn buffers writes; a nil value marks a delete
type txn struct {
	store    *Storage
	writes   map[string][]byte
	readOnly bool
}

func (t *txn) Get(ctx context.Context, key string) ([]byte, error) {
	if value, ok := t.writes[key]; ok {
		if value == nil {
			return nil, storage.ErrNotFound
		}
		return clone(value), nil
	}
	value, ok := t.store.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(value), nil
}

func (t *txn) Put(ctx context.Context, key string, value []byte) error {
	if t.readOnly {
		return storage.ErrReadOnly
	}
	if value == nil {
		value = []byte{}
	}
	t.writes[key] = clone(value)
	return nil
}

func (t *txn) Delete(ctx context.Context, key string) error {
	if t.readOnly {
		return storage.ErrReadOnly
	}
	t.writes[key] = nil
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
