package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"quotient/internal/catalog/models"
	id "quotient/pkg/domain"
	"quotient/pkg/platform/sentinel"
)

// Memory is an in-memory catalog store used for local development and
// tests. Uniqueness checks mirror the database indexes: service names
// are unique case-insensitively, parameter names per service, option
// values per parameter.
type Memory struct {
	mu         sync.RWMutex
	services   map[id.ServiceID]*models.Service
	parameters map[id.ParameterID]*models.Parameter
}

func NewMemory() *Memory {
	return &Memory{
		services:   make(map[id.ServiceID]*models.Service),
		parameters: make(map[id.ParameterID]*models.Parameter),
	}
}

func (m *Memory) CreateService(_ context.Context, svc *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.services {
		if strings.EqualFold(existing.Name, svc.Name) {
			return sentinel.ErrConflict
		}
	}

	cp := *svc
	m.services[svc.ID] = &cp
	return nil
}

func (m *Memory) GetService(_ context.Context, serviceID id.ServiceID) (*models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	svc, ok := m.services[serviceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

func (m *Memory) ListServices(_ context.Context) ([]*models.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Service, 0, len(m.services))
	for _, svc := range m.services {
		cp := *svc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) CreateParameter(_ context.Context, param *models.Parameter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.services[param.ServiceID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range m.parameters {
		if existing.ServiceID == param.ServiceID && strings.EqualFold(existing.Name, param.Name) {
			return sentinel.ErrConflict
		}
	}
	seen := make(map[string]struct{}, len(param.Options))
	for _, opt := range param.Options {
		if _, dup := seen[opt.Value]; dup {
			return sentinel.ErrConflict
		}
		seen[opt.Value] = struct{}{}
	}

	m.parameters[param.ID] = copyParameter(param)
	return nil
}

func (m *Memory) ListParameters(_ context.Context) ([]*models.Parameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Parameter, 0, len(m.parameters))
	for _, param := range m.parameters {
		out = append(out, copyParameter(param))
	}
	sortParameters(out)
	return out, nil
}

func (m *Memory) ParametersForService(_ context.Context, serviceID id.ServiceID) ([]*models.Parameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Parameter, 0)
	for _, param := range m.parameters {
		if param.ServiceID == serviceID {
			out = append(out, copyParameter(param))
		}
	}
	sortParameters(out)
	return out, nil
}

func copyParameter(param *models.Parameter) *models.Parameter {
	cp := *param
	if param.DefaultValue != nil {
		def := *param.DefaultValue
		cp.DefaultValue = &def
	}
	cp.Options = make([]models.ParameterOption, len(param.Options))
	copy(cp.Options, param.Options)
	return &cp
}

func sortParameters(params []*models.Parameter) {
	sort.Slice(params, func(i, j int) bool {
		if params[i].ServiceID != params[j].ServiceID {
			return params[i].CreatedAt.Before(params[j].CreatedAt)
		}
		if params[i].Position != params[j].Position {
			return params[i].Position < params[j].Position
		}
		return params[i].Name < params[j].Name
	})
}
