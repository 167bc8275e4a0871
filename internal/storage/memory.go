package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps the payload in process memory. Useful for tests and
// throwaway sessions.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
	ok   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements ledger.Persister
func (s *MemoryStore) Load(context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok {
		return nil, false, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, true, nil
}

// Save implements ledger.Persister
func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data[:0:0], data...)
	s.ok = true
	return nil
}

func (s *MemoryStore) Close() error { return nil }
