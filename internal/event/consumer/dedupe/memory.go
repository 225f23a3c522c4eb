package dedupe

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and single-instance
// deployments without Redis. It grows unbounded; production deployments use
// the Redis store with a TTL.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

func (s *MemoryStore) Seen(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[id]
	return ok, nil
}

func (s *MemoryStore) Mark(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = struct{}{}
	return nil
}
