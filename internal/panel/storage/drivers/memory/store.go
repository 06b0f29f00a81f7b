// Package memory is an in-process storage.KV used by tests and by the CLI
// when durable state is disabled.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage"
)

type Store struct {
	mu     sync.RWMutex
	values map[string]string

	// FailWrites makes every write return this error. Tests use it to check
	// behaviour when persistence fails.
	FailWrites error
}

func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *Store) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}
	maps.Copy(s.values, values)
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Snapshot returns a copy of every stored value.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

func (s *Store) Close() error { return nil }

var _ storage.KV = (*Store)(nil)
