// Package redis stores the state in Redis, one string per key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/stk"
	"github.com/redis/go-redis/v9"
)

// Options of the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // keys are stored as <prefix>:<key>, defaults to "stk"
}

type Backend struct {
	rdb    *redis.Client
	prefix string
}

// New connects to Redis and checks the connection.
func New(ctx context.Context, opts Options) (*Backend, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewWithClient(rdb, opts.Prefix), nil
}

// NewWithClient returns a Backend on an existing client.
func NewWithClient(rdb *redis.Client, prefix string) *Backend {
	if prefix == "" {
		prefix = "stk"
	}
	return &Backend{rdb: rdb, prefix: prefix}
}

func (b *Backend) Close() error { return b.rdb.Close() }

func (b *Backend) key(k string) string { return b.prefix + ":" + k }

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.rdb.Get(ctx, b.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	return b.rdb.Set(ctx, b.key(key), value, 0).Err()
}

var _ stk.Backend = (*Backend)(nil)
