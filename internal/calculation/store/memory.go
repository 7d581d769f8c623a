package store

import (
	"context"
	"sort"
	"sync"

	"quotient/internal/calculation/models"
	id "quotient/pkg/domain"
	"quotient/pkg/platform/sentinel"
)

// Memory is an in-memory calculation store for local development and
// tests.
type Memory struct {
	mu           sync.RWMutex
	calculations map[id.CalculationID]*models.Calculation
}

func NewMemory() *Memory {
	return &Memory{calculations: make(map[id.CalculationID]*models.Calculation)}
}

func (m *Memory) Create(_ context.Context, calc *models.Calculation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.calculations[calc.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *calc
	m.calculations[calc.ID] = &cp
	return nil
}

func (m *Memory) Get(_ context.Context, calculationID id.CalculationID) (*models.Calculation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calc, ok := m.calculations[calculationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *calc
	return &cp, nil
}

// ListAll returns every recorded calculation, newest first.
func (m *Memory) ListAll(_ context.Context) ([]*models.Calculation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Calculation, 0, len(m.calculations))
	for _, calc := range m.calculations {
		cp := *calc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
