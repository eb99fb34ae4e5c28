// Package memory provides an in-process slot repository.
package memory

import (
	"context"
	"sync"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	portsrepo "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/repositories"
)

// Store keeps slot payloads in a map. Contents are lost when the process exits.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ portsrepo.SlotRepository = (*Store)(nil)

// New creates an empty in-memory slot repository.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.data[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	// Return a copy to prevent external mutation of the stored bytes
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (s *Store) Put(_ context.Context, key string, payload []byte) error {
	stored := make([]byte, len(payload))
	copy(stored, payload)

	s.mu.Lock()
	s.data[key] = stored
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }
