// Package rediskv backs the slot store with redis, for serving the demo to
// several tabs from one process group.
package rediskv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"tredgate-loan-portal/internal/storage"
)

type Store struct{ rdb *redis.Client }

var _ storage.Store = (*Store)(nil)

// Open connects and pings with a short timeout so a dead redis fails fast at
// startup instead of on the first request.
func Open(addr string, db int) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Store{rdb: rdb}, nil
}

// New wraps an existing client (tests pass one bound to miniredis).
func New(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *Store) Close() error { return s.rdb.Close() }
