package kvmock

import (
	"context"
)

// Store is a map-backed storage.Store for tests. The Fn hooks, when set,
// override the map behavior so tests can inject storage failures.
type Store struct {
	Data map[string][]byte

	GetFn    func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn    func(ctx context.Context, key string, value []byte) error
	DeleteFn func(ctx context.Context, key string) error
}

func New() *Store {
	return &Store{Data: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, key)
	}
	v, ok := s.Data[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.SetFn != nil {
		return s.SetFn(ctx, key, value)
	}
	s.Data[key] = value
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, key)
	}
	delete(s.Data, key)
	return nil
}
