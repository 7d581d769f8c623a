package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "quotient/pkg/domain"
	dErrors "quotient/pkg/domain-errors"
)

// Service is the aggregate root for a priced offering.
//
// Invariants:
//   - Name is non-empty, at most 128 characters, unique across services
//   - BasePrice is a non-negative currency amount (2 fraction digits)
//   - CreatedAt is immutable after construction
//
// A Service owns its Parameters exclusively (Service → Parameter → Option
// is a strict tree). Services are immutable after creation in this module;
// recorded calculations copy BasePrice so they stay valid even if that
// ever changes.
type Service struct {
	ID          id.ServiceID    `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewService validates and constructs a Service.
func NewService(serviceID id.ServiceID, name, description string, basePrice decimal.Decimal, now time.Time) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "service name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeValidation, "service name must be 128 characters or less")
	}
	if basePrice.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "base_price must not be negative")
	}
	return &Service{
		ID:          serviceID,
		Name:        name,
		Description: description,
		BasePrice:   basePrice.Round(2),
		CreatedAt:   now,
	}, nil
}
