package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotient/internal/catalog/models"
	"quotient/internal/catalog/store"
	id "quotient/pkg/domain"
	dErrors "quotient/pkg/domain-errors"
)

func newCatalog(t *testing.T) *CatalogService {
	t.Helper()
	return New(store.NewMemory())
}

func mustCreateService(t *testing.T, svc *CatalogService, name string) *models.Service {
	t.Helper()
	created, err := svc.CreateService(context.Background(), CreateServiceInput{
		Name:      name,
		BasePrice: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return created
}

func TestCreateService(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	t.Run("creates and normalizes", func(t *testing.T) {
		created, err := svc.CreateService(ctx, CreateServiceInput{
			Name:      "  Web Hosting  ",
			BasePrice: decimal.RequireFromString("99.999"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Web Hosting", created.Name)
		assert.True(t, created.BasePrice.Equal(decimal.RequireFromString("100.00")),
			"base price rounds to cents, got %s", created.BasePrice)
		assert.False(t, created.ID.IsNil())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := svc.CreateService(ctx, CreateServiceInput{Name: "   ", BasePrice: decimal.NewFromInt(10)})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects negative base price", func(t *testing.T) {
		_, err := svc.CreateService(ctx, CreateServiceInput{Name: "Bad", BasePrice: decimal.NewFromInt(-1)})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("maps duplicate name to conflict", func(t *testing.T) {
		_, err := svc.CreateService(ctx, CreateServiceInput{
			Name:      "web hosting",
			BasePrice: decimal.NewFromInt(10),
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
		assert.Contains(t, err.Error(), "service name must be unique")
	})
}

func TestGetService(t *testing.T) {
	svc := newCatalog(t)
	created := mustCreateService(t, svc, "Hosting")

	found, err := svc.GetService(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetService(context.Background(), id.NewServiceID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.Contains(t, err.Error(), "Service not found")
}

func TestCreateParameter(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()
	created := mustCreateService(t, svc, "Hosting")

	t.Run("creates with options and assigns position", func(t *testing.T) {
		first, err := svc.CreateParameter(ctx, CreateParameterInput{
			ServiceID: created.ID,
			Name:      "tier",
			Type:      models.TypeMultiplier,
			Options: []OptionInput{
				{Value: "basic", Modifier: decimal.NewFromInt(1)},
				{Value: "pro", Modifier: decimal.RequireFromString("1.5")},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, first.Position)
		assert.Len(t, first.Options, 2)

		second, err := svc.CreateParameter(ctx, CreateParameterInput{
			ServiceID: created.ID,
			Name:      "qty",
			Type:      models.TypeQuantity,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, second.Position)
	})

	t.Run("rejects unknown service", func(t *testing.T) {
		_, err := svc.CreateParameter(ctx, CreateParameterInput{
			ServiceID: id.NewServiceID(),
			Name:      "tier",
			Type:      models.TypeMultiplier,
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("maps duplicate name to conflict", func(t *testing.T) {
		_, err := svc.CreateParameter(ctx, CreateParameterInput{
			ServiceID: created.ID,
			Name:      "tier",
			Type:      models.TypeMultiplier,
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestDefinition(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()
	created := mustCreateService(t, svc, "Hosting")

	_, err := svc.CreateParameter(ctx, CreateParameterInput{
		ServiceID: created.ID,
		Name:      "tier",
		Type:      models.TypeMultiplier,
		Options:   []OptionInput{{Value: "basic", Modifier: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	def, err := svc.Definition(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, def.Service.ID)
	require.Len(t, def.Parameters, 1)
	assert.Equal(t, "tier", def.Parameters[0].Name)

	_, err = svc.Definition(ctx, id.NewServiceID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListServicesAndParameters(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()

	one := mustCreateService(t, svc, "One")
	two := mustCreateService(t, svc, "Two")

	for _, serviceID := range []id.ServiceID{one.ID, two.ID} {
		_, err := svc.CreateParameter(ctx, CreateParameterInput{
			ServiceID: serviceID,
			Name:      "tier",
			Type:      models.TypeMultiplier,
		})
		require.NoError(t, err)
	}

	services, err := svc.ListServices(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 2)

	params, err := svc.ListParameters(ctx)
	require.NoError(t, err)
	assert.Len(t, params, 2)
}
