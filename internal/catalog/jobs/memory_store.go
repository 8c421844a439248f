package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"backoffice_backend/platform/apperr"
)

// MemoryStore keeps job snapshots in process. Used when Redis is disabled.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]Progress
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[uuid.UUID]Progress)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Save(_ context.Context, p Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ServiceIDs = append([]uuid.UUID(nil), p.ServiceIDs...)
	s.jobs[p.JobID] = p
	return nil
}

func (s *MemoryStore) Get(_ context.Context, jobID uuid.UUID) (Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.jobs[jobID]
	if !ok {
		return Progress{}, apperr.NotFound(jobNotFoundMsg)
	}
	return p, nil
}
