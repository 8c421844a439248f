package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"backoffice_backend/platform/apperr"
)

// Memory is an in-process estimates store used in tests.
type Memory struct {
	mu        sync.Mutex
	counters  map[uuid.UUID]int
	estimates map[uuid.UUID]Estimate
	items     map[uuid.UUID][]EstimateItem
	now       func() time.Time
}

// NewMemory creates an empty in-memory estimates store.
func NewMemory() *Memory {
	return &Memory{
		counters:  make(map[uuid.UUID]int),
		estimates: make(map[uuid.UUID]Estimate),
		items:     make(map[uuid.UUID][]EstimateItem),
		now:       time.Now,
	}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) NextEstimateNumber(_ context.Context, organizationID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[organizationID]++
	return FormatNumber(m.now().Year(), m.counters[organizationID]), nil
}

func (m *Memory) CreateWithItems(_ context.Context, e Estimate, items []EstimateItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.estimates {
		if existing.OrganizationID == e.OrganizationID && existing.EstimateNumber == e.EstimateNumber {
			return apperr.Conflict("estimate number already used")
		}
	}
	m.estimates[e.ID] = e
	m.items[e.ID] = append([]EstimateItem(nil), items...)
	return nil
}

func (m *Memory) GetByID(_ context.Context, id, organizationID uuid.UUID) (Estimate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.estimates[id]
	if !ok || e.OrganizationID != organizationID {
		return Estimate{}, apperr.NotFound(estimateNotFoundMsg)
	}
	return e, nil
}

func (m *Memory) GetItems(_ context.Context, estimateID, organizationID uuid.UUID) ([]EstimateItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EstimateItem, 0, len(m.items[estimateID]))
	for _, it := range m.items[estimateID] {
		if it.OrganizationID == organizationID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}
