package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"quotient/internal/catalog/models"
	id "quotient/pkg/domain"
	"quotient/pkg/platform/sentinel"
)

type seedOption struct {
	value    string
	modifier string
}

type seedParameter struct {
	name         string
	ptype        models.ParameterType
	required     bool
	defaultValue string
	options      []seedOption
}

type seedService struct {
	name        string
	description string
	basePrice   string
	parameters  []seedParameter
}

var seedCatalog = []seedService{
	{
		name:        "Web Hosting",
		description: "Shared web hosting with optional upgrades",
		basePrice:   "100.00",
		parameters: []seedParameter{
			{
				name: "tier", ptype: models.TypeMultiplier, required: true,
				options: []seedOption{
					{value: "basic", modifier: "1.0"},
					{value: "pro", modifier: "1.5"},
					{value: "enterprise", modifier: "2.5"},
				},
			},
			{
				name: "ssl_certificate", ptype: models.TypeFixed, defaultValue: "none",
				options: []seedOption{
					{value: "none", modifier: "0"},
					{value: "standard", modifier: "25.00"},
					{value: "wildcard", modifier: "120.00"},
				},
			},
			{name: "months", ptype: models.TypeQuantity, defaultValue: "1"},
		},
	},
	{
		name:        "Site Audit",
		description: "One-off performance and accessibility audit",
		basePrice:   "350.00",
		parameters: []seedParameter{
			{
				name: "depth", ptype: models.TypeMultiplier, required: true,
				options: []seedOption{
					{value: "landing", modifier: "0.5"},
					{value: "full", modifier: "1.0"},
					{value: "full_with_report", modifier: "1.4"},
				},
			},
			{
				name: "rush", ptype: models.TypeMultiplier, defaultValue: "no",
				options: []seedOption{
					{value: "no", modifier: "1.0"},
					{value: "yes", modifier: "1.75"},
				},
			},
		},
	},
}

// SeedCatalog loads a small demo catalog so a fresh instance has
// something to price. Existing rows are left alone.
func SeedCatalog(ctx context.Context, store interface {
	CreateService(ctx context.Context, svc *models.Service) error
	CreateParameter(ctx context.Context, param *models.Parameter) error
},
) error {
	now := time.Now().UTC()
	for _, ss := range seedCatalog {
		price, err := decimal.NewFromString(ss.basePrice)
		if err != nil {
			return fmt.Errorf("seed %q: %w", ss.name, err)
		}
		svc, err := models.NewService(id.NewServiceID(), ss.name, ss.description, price, now)
		if err != nil {
			return fmt.Errorf("seed %q: %w", ss.name, err)
		}
		if err := store.CreateService(ctx, svc); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed %q: %w", ss.name, err)
		}

		for pos, sp := range ss.parameters {
			var def *string
			if sp.defaultValue != "" {
				d := sp.defaultValue
				def = &d
			}
			param, err := models.NewParameter(id.NewParameterID(), svc.ID, sp.name, "",
				sp.ptype, sp.required, def, pos, now)
			if err != nil {
				return fmt.Errorf("seed %q parameter %q: %w", ss.name, sp.name, err)
			}
			for _, so := range sp.options {
				mod, err := decimal.NewFromString(so.modifier)
				if err != nil {
					return fmt.Errorf("seed %q option %q: %w", ss.name, so.value, err)
				}
				opt, err := models.NewParameterOption(id.NewOptionID(), param.ID, so.value, mod)
				if err != nil {
					return fmt.Errorf("seed %q option %q: %w", ss.name, so.value, err)
				}
				param.Options = append(param.Options, *opt)
			}
			if err := store.CreateParameter(ctx, param); err != nil {
				return fmt.Errorf("seed %q parameter %q: %w", ss.name, sp.name, err)
			}
		}
	}
	return nil
}
