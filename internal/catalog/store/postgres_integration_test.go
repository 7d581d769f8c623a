//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"quotient/internal/catalog/models"
	"quotient/internal/catalog/store"
	id "quotient/pkg/domain"
	"quotient/pkg/platform/sentinel"
	"quotient/pkg/testutil/containers"
)

type PostgresCatalogSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresCatalogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCatalogSuite))
}

func (s *PostgresCatalogSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresCatalogSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "parameter_options", "parameters", "services")
	s.Require().NoError(err)
}

func newTestService(name string) *models.Service {
	return &models.Service{
		ID:        id.NewServiceID(),
		Name:      name,
		BasePrice: decimal.RequireFromString("99.99"),
		CreatedAt: time.Now().UTC(),
	}
}

func (s *PostgresCatalogSuite) TestServiceRoundTrip() {
	ctx := context.Background()
	svc := newTestService("Round Trip")
	svc.Description = "persists and reads back"
	s.Require().NoError(s.store.CreateService(ctx, svc))

	found, err := s.store.GetService(ctx, svc.ID)
	s.Require().NoError(err)
	s.Equal(svc.Name, found.Name)
	s.Equal(svc.Description, found.Description)
	s.True(svc.BasePrice.Equal(found.BasePrice), "expected %s, got %s", svc.BasePrice, found.BasePrice)
}

func (s *PostgresCatalogSuite) TestGetServiceNotFound() {
	_, err := s.store.GetService(context.Background(), id.NewServiceID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresCatalogSuite) TestCaseInsensitiveNameConflict() {
	ctx := context.Background()
	s.Require().NoError(s.store.CreateService(ctx, newTestService("Hosting")))

	err := s.store.CreateService(ctx, newTestService("HOSTING"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresCatalogSuite) TestParameterWithOptionsRoundTrip() {
	ctx := context.Background()
	svc := newTestService("With Params")
	s.Require().NoError(s.store.CreateService(ctx, svc))

	def := "basic"
	param := &models.Parameter{
		ID:           id.NewParameterID(),
		ServiceID:    svc.ID,
		Name:         "tier",
		Type:         models.TypeMultiplier,
		IsRequired:   false,
		DefaultValue: &def,
		CreatedAt:    time.Now().UTC(),
	}
	param.Options = []models.ParameterOption{
		{ID: id.NewOptionID(), ParameterID: param.ID, Value: "basic", Modifier: decimal.RequireFromString("1.0")},
		{ID: id.NewOptionID(), ParameterID: param.ID, Value: "pro", Modifier: decimal.RequireFromString("1.5")},
	}
	s.Require().NoError(s.store.CreateParameter(ctx, param))

	params, err := s.store.ParametersForService(ctx, svc.ID)
	s.Require().NoError(err)
	s.Require().Len(params, 1)
	s.Equal("tier", params[0].Name)
	s.Equal(models.TypeMultiplier, params[0].Type)
	s.Require().NotNil(params[0].DefaultValue)
	s.Equal("basic", *params[0].DefaultValue)
	s.Require().Len(params[0].Options, 2)
	s.Equal("basic", params[0].Options[0].Value)
	s.True(params[0].Options[1].Modifier.Equal(decimal.RequireFromString("1.5")))
}

func (s *PostgresCatalogSuite) TestParameterOptionRollbackOnDuplicate() {
	ctx := context.Background()
	svc := newTestService("Rollback")
	s.Require().NoError(s.store.CreateService(ctx, svc))

	param := &models.Parameter{
		ID:        id.NewParameterID(),
		ServiceID: svc.ID,
		Name:      "tier",
		Type:      models.TypeMultiplier,
		CreatedAt: time.Now().UTC(),
	}
	param.Options = []models.ParameterOption{
		{ID: id.NewOptionID(), ParameterID: param.ID, Value: "gold", Modifier: decimal.NewFromInt(1)},
		{ID: id.NewOptionID(), ParameterID: param.ID, Value: "gold", Modifier: decimal.NewFromInt(2)},
	}
	err := s.store.CreateParameter(ctx, param)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	// Insert is atomic: the parameter row must not survive the failure.
	params, err := s.store.ParametersForService(ctx, svc.ID)
	s.Require().NoError(err)
	s.Empty(params)
}

func (s *PostgresCatalogSuite) TestParameterForUnknownService() {
	param := &models.Parameter{
		ID:        id.NewParameterID(),
		ServiceID: id.NewServiceID(),
		Name:      "tier",
		Type:      models.TypeMultiplier,
		CreatedAt: time.Now().UTC(),
	}
	err := s.store.CreateParameter(context.Background(), param)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentUniqueNameViolation verifies concurrent creates with the
// same name end in exactly one success.
func (s *PostgresCatalogSuite) TestConcurrentUniqueNameViolation() {
	ctx := context.Background()
	name := "Concurrent Service " + uuid.NewString()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.store.CreateService(ctx, newTestService(name)); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
}
