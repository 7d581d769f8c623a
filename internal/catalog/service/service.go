package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"quotient/internal/catalog/models"
	id "quotient/pkg/domain"
	dErrors "quotient/pkg/domain-errors"
	"quotient/pkg/platform/sentinel"
)

// Store is the persistence surface the catalog service depends on.
type Store interface {
	CreateService(ctx context.Context, svc *models.Service) error
	GetService(ctx context.Context, serviceID id.ServiceID) (*models.Service, error)
	ListServices(ctx context.Context) ([]*models.Service, error)
	CreateParameter(ctx context.Context, param *models.Parameter) error
	ListParameters(ctx context.Context) ([]*models.Parameter, error)
	ParametersForService(ctx context.Context, serviceID id.ServiceID) ([]*models.Parameter, error)
}

type CatalogService struct {
	store Store
}

func New(store Store) *CatalogService {
	return &CatalogService{store: store}
}

// CreateServiceInput carries the fields accepted when registering a service.
type CreateServiceInput struct {
	Name        string
	Description string
	BasePrice   decimal.Decimal
}

func (s *CatalogService) CreateService(ctx context.Context, input CreateServiceInput) (*models.Service, error) {
	svc, err := models.NewService(id.NewServiceID(), input.Name, input.Description, input.BasePrice, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateService(ctx, svc); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "service name must be unique")
		}
		return nil, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

func (s *CatalogService) GetService(ctx context.Context, serviceID id.ServiceID) (*models.Service, error) {
	svc, err := s.store.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Service not found")
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

func (s *CatalogService) ListServices(ctx context.Context) ([]*models.Service, error) {
	services, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// OptionInput is one allowed value for a parameter being created.
type OptionInput struct {
	Value    string
	Modifier decimal.Decimal
}

// CreateParameterInput carries the fields accepted when attaching a
// parameter to a service. Position orders the parameter among its
// siblings; callers that do not care pass the next free slot.
type CreateParameterInput struct {
	ServiceID    id.ServiceID
	Name         string
	Description  string
	Type         models.ParameterType
	IsRequired   bool
	DefaultValue *string
	Options      []OptionInput
}

func (s *CatalogService) CreateParameter(ctx context.Context, input CreateParameterInput) (*models.Parameter, error) {
	if _, err := s.GetService(ctx, input.ServiceID); err != nil {
		return nil, err
	}

	existing, err := s.store.ParametersForService(ctx, input.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("list service parameters: %w", err)
	}

	param, err := models.NewParameter(id.NewParameterID(), input.ServiceID, input.Name, input.Description,
		input.Type, input.IsRequired, input.DefaultValue, len(existing), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	for _, o := range input.Options {
		opt, err := models.NewParameterOption(id.NewOptionID(), param.ID, o.Value, o.Modifier)
		if err != nil {
			return nil, err
		}
		param.Options = append(param.Options, *opt)
	}

	if err := s.store.CreateParameter(ctx, param); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "parameter name must be unique per service")
		}
		return nil, fmt.Errorf("create parameter: %w", err)
	}
	return param, nil
}

func (s *CatalogService) ListParameters(ctx context.Context) ([]*models.Parameter, error) {
	params, err := s.store.ListParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list parameters: %w", err)
	}
	return params, nil
}

// Definition is the full pricing definition of one service: the service
// record plus every parameter declared for it, options included.
type Definition struct {
	Service    *models.Service
	Parameters []*models.Parameter
}

func (s *CatalogService) Definition(ctx context.Context, serviceID id.ServiceID) (*Definition, error) {
	svc, err := s.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	params, err := s.store.ParametersForService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list service parameters: %w", err)
	}
	return &Definition{Service: svc, Parameters: params}, nil
}
