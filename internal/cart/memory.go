package cart

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

type memoryStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
}

// NewMemory builds an in-process Store, used in tests and when no
// redis address is configured.
func NewMemory() Store {
	return &memoryStore{carts: make(map[string][]domain.CartItem)}
}

func (s *memoryStore) Get(_ context.Context, sessionID string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.carts[sessionID]
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *memoryStore) Set(_ context.Context, sessionID string, items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.CartItem, len(items))
	copy(stored, items)
	s.carts[sessionID] = stored
	return nil
}

func (s *memoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
