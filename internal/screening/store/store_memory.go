package store

import (
	"context"
	"sync"

	"dossier/internal/screening"
)

// InMemoryStore keeps the latest result per client in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	results map[string]screening.Result
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{results: make(map[string]screening.Result)}
}

// Save upserts the result for its client; re-runs overwrite.
func (s *InMemoryStore) Save(_ context.Context, result screening.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ClientID] = result
	return nil
}

// FindByClient returns the latest stored result for the client, or
// ErrNotFound.
func (s *InMemoryStore) FindByClient(_ context.Context, clientID string) (*screening.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	return &result, nil
}
