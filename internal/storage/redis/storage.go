package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/stakeledger/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Transactions are optimistic: every key read is WATCHed and the buffered
// writes are applied in one MULTI/EXEC.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Update runs fn inside a WATCH/MULTI/EXEC transaction
func (s *Storage) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		t := &txn{rtx: rtx, prefix: s.cfg.KeyPrefix, writes: make(map[string][]byte)}
		if err := fn(t); err != nil {
			return err
		}
		if len(t.writes) == 0 {
			return nil
		}
		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for key, value := range t.writes {
				if value == nil {
					pipe.Del(ctx, key)
					continue
				}
				pipe.Set(ctx, key, value, 0)
			}
			return nil
		})
		return err
	})
	if errors.Is(err, redis.TxFailedErr) {
		return storage.ErrConflict
	}
	return err
}

// View runs fn without watching keys; writes are rejected
func (s *Storage) View(ctx context.Context, fn func(tx storage.Tx) error) error {
	return fn(&reader{client: s.client, prefix: s.cfg.KeyPrefix})
}

// writes are keyed by the prefixed redis key
type txn struct {
	rtx    *redis.Tx
	prefix string
	writes map[string][]byte
}

func (t *txn) Get(ctx context.Context, key string) ([]byte, error) {
	key = t.prefix + key
	if value, ok := t.writes[key]; ok {
		if value == nil {
			return nil, storage.ErrNotFound
		}
		return value, nil
	}
	if err := t.rtx.Watch(ctx, key).Err(); err != nil {
		return nil, fmt.Errorf("watch %s: %w", key, err)
	}
	data, err := t.rtx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	return data, err
}

func (t *txn) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	t.writes[t.prefix+key] = value
	return nil
}

func (t *txn) Delete(ctx context.Context, key string) error {
	t.writes[t.prefix+key] = nil
	return nil
}

type reader struct {
	client *redis.Client
	prefix string
}

func (r *reader) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	return data, err
}

func (r *reader) Put(ctx context.Context, key string, value []byte) error {
	return storage.ErrReadOnly
}

func (r *reader) Delete(ctx context.Context, key string) error {
	return storage.ErrReadOnly
}
