package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quotient/internal/calculation/metrics"
	"quotient/internal/calculation/models"
	catalogservice "quotient/internal/catalog/service"
	"quotient/internal/pricing"
	id "quotient/pkg/domain"
	dErrors "quotient/pkg/domain-errors"
	"quotient/pkg/platform/sentinel"
	"quotient/pkg/requestcontext"
)

// DefinitionSource resolves a service's pricing definition from the
// catalog.
type DefinitionSource interface {
	Definition(ctx context.Context, serviceID id.ServiceID) (*catalogservice.Definition, error)
}

// Store is the persistence surface for calculation records.
type Store interface {
	Create(ctx context.Context, calc *models.Calculation) error
	Get(ctx context.Context, calculationID id.CalculationID) (*models.Calculation, error)
	ListAll(ctx context.Context) ([]*models.Calculation, error)
}

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// CalculationService prices requests against the catalog and records
// every successful run.
type CalculationService struct {
	definitions DefinitionSource
	storeTx     StoreTx
	metrics     *metrics.Metrics
}

func New(definitions DefinitionSource, storeTx StoreTx, m *metrics.Metrics) *CalculationService {
	return &CalculationService{
		definitions: definitions,
		storeTx:     storeTx,
		metrics:     m,
	}
}

// Outcome is a priced request: the persisted record plus the full
// engine result, including the per-parameter breakdown.
type Outcome struct {
	Calculation *models.Calculation
	Result      *pricing.Result
}

// Calculate prices the given inputs against the service's current
// definition and records the result. Nothing is persisted when the
// engine rejects the request.
func (s *CalculationService) Calculate(ctx context.Context, serviceID id.ServiceID, inputs pricing.Inputs) (*Outcome, error) {
	start := time.Now()
	defer s.observeDuration(start)

	definition, err := s.definitions.Definition(ctx, serviceID)
	if err != nil {
		s.incrementOutcome(outcomeError)
		return nil, err
	}

	result, err := pricing.Calculate(definition.Service, definition.Parameters, inputs)
	if err != nil {
		s.incrementOutcome(outcomeError)
		return nil, err
	}

	calc := &models.Calculation{
		ID:              id.NewCalculationID(),
		ServiceID:       serviceID,
		BasePrice:       result.BasePrice,
		CalculatedPrice: result.Total,
		InputParams: models.InputSnapshot{
			ServiceID:  serviceID,
			Parameters: inputs,
		},
		CreatedAt: requestcontext.Now(ctx),
	}

	err = s.storeTx.RunInTx(ctx, func(store Store) error {
		return store.Create(ctx, calc)
	})
	if err != nil {
		s.incrementOutcome(outcomeError)
		return nil, fmt.Errorf("record calculation: %w", err)
	}

	s.incrementOutcome(outcomeSuccess)
	return &Outcome{Calculation: calc, Result: result}, nil
}

func (s *CalculationService) Get(ctx context.Context, calculationID id.CalculationID) (*models.Calculation, error) {
	var calc *models.Calculation
	err := s.storeTx.RunInTx(ctx, func(store Store) error {
		var innerErr error
		calc, innerErr = store.Get(ctx, calculationID)
		return innerErr
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Calculation not found")
		}
		return nil, fmt.Errorf("get calculation: %w", err)
	}
	return calc, nil
}

// List returns every recorded calculation, newest first.
func (s *CalculationService) List(ctx context.Context) ([]*models.Calculation, error) {
	var calculations []*models.Calculation
	err := s.storeTx.RunInTx(ctx, func(store Store) error {
		var innerErr error
		calculations, innerErr = store.ListAll(ctx)
		return innerErr
	})
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return calculations, nil
}

func (s *CalculationService) incrementOutcome(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCalculation(outcome)
}

func (s *CalculationService) observeDuration(start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveCalculation(start)
}
