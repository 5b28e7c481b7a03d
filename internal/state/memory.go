// Package state provides the local key -> JSON persistence used for the
// workspace: an in-memory store for tests and ephemeral runs, and a SQLite
// store for the real thing.
package state

import (
	"context"
	"sync"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
)

// Compile-time interface check.
var _ domain.StateStore = (*MemoryStore)(nil)

// MemoryStore keeps payloads in a map. Safe for concurrent access.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	log  *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
		log:  log,
	}
}

// Get returns a copy of the payload stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[key]
	if !ok {
		s.log.Debug("key not found: %s", key)
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), p...), nil
}

// Put stores payload under key, overwriting any previous value.
func (s *MemoryStore) Put(ctx context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("put %s (%d bytes)", key, len(payload))
	s.data[key] = append([]byte(nil), payload...)
	return nil
}

// Delete removes key. Deleting a missing key returns ErrNotFound.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.data, key)
	s.log.Debug("deleted %s", key)
	return nil
}

// Keys returns the number of stored keys.
func (s *MemoryStore) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
