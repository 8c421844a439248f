package repository

import (
	"context"
	"sync"

	"backoffice_backend/internal/cart/domain"
)

// MemoryStore keeps carts in process as snapshots so callers never share a
// live cart. Used when Redis is disabled and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[SessionKey]domain.State
}

// NewMemoryStore creates an empty in-memory cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[SessionKey]domain.State)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Load(_ context.Context, key SessionKey) (*domain.Cart, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.carts[key]
	if !ok {
		return nil, false, nil
	}
	return domain.FromState(state), true, nil
}

func (s *MemoryStore) Save(_ context.Context, key SessionKey, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[key] = cart.State()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key SessionKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
	return nil
}
