package audit

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps the trail in memory for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	byPos   map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byPos: make(map[string]struct{})}
}

func (s *MemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := fmt.Sprintf("%s/%d/%d", entry.Topic, entry.Partition, entry.Offset)
	if _, ok := s.byPos[pos]; ok {
		return nil
	}
	s.byPos[pos] = struct{}{}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) ListByPatient(_ context.Context, patientID int64) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, entry := range s.entries {
		if entry.PatientID == patientID {
			out = append(out, entry)
		}
	}
	return out, nil
}
