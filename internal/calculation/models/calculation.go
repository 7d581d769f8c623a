// Package models defines the calculation record persisted for every
// successful price computation.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"quotient/internal/pricing"
	id "quotient/pkg/domain"
)

// InputSnapshot is the immutable copy of a calculation request stored
// alongside the result. Replaying it against the catalog as it stood at
// the time reproduces the price.
type InputSnapshot struct {
	ServiceID  id.ServiceID   `json:"service_id"`
	Parameters pricing.Inputs `json:"parameters"`
}

// Calculation is one recorded pricing run.
//
// Invariants:
//   - CalculatedPrice is never negative.
//   - BasePrice is the service's base price at calculation time, not a
//     live reference into the catalog.
type Calculation struct {
	ID              id.CalculationID
	ServiceID       id.ServiceID
	BasePrice       decimal.Decimal
	CalculatedPrice decimal.Decimal
	InputParams     InputSnapshot
	CreatedAt       time.Time
}
