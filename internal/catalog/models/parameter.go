package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "quotient/pkg/domain"
	dErrors "quotient/pkg/domain-errors"
)

// ParameterType is the closed set of pricing behaviors a parameter can
// have. Stored values outside this set are a data-integrity error, never a
// silent no-op.
type ParameterType string

const (
	// TypeMultiplier scales the base price by the matched option's modifier.
	TypeMultiplier ParameterType = "multiplier"
	// TypeFixed adds the matched option's modifier (or the raw numeric
	// value) to the price.
	TypeFixed ParameterType = "fixed"
	// TypeQuantity multiplies the whole subtotal by the numeric value.
	TypeQuantity ParameterType = "quantity"
)

// ParseParameterType validates a caller-supplied parameter type.
func ParseParameterType(s string) (ParameterType, error) {
	switch t := ParameterType(strings.TrimSpace(s)); t {
	case TypeMultiplier, TypeFixed, TypeQuantity:
		return t, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation,
			"parameter_type must be one of multiplier, fixed, quantity")
	}
}

// Parameter is a named, typed input a caller supplies when pricing a
// Service. Name is unique within the owning service. DefaultValue, when
// set, substitutes for a missing value on non-required parameters only.
// Position preserves declaration order for breakdown output.
type Parameter struct {
	ID           id.ParameterID    `json:"id"`
	ServiceID    id.ServiceID      `json:"service_id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Type         ParameterType     `json:"parameter_type"`
	IsRequired   bool              `json:"is_required"`
	DefaultValue *string           `json:"default_value,omitempty"`
	Position     int               `json:"-"`
	Options      []ParameterOption `json:"options"`
	CreatedAt    time.Time         `json:"created_at"`
}

// NewParameter validates and constructs a Parameter without options.
func NewParameter(parameterID id.ParameterID, serviceID id.ServiceID, name, description string,
	ptype ParameterType, isRequired bool, defaultValue *string, position int, now time.Time) (*Parameter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "parameter name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeValidation, "parameter name must be 128 characters or less")
	}
	if _, err := ParseParameterType(string(ptype)); err != nil {
		return nil, err
	}
	return &Parameter{
		ID:           parameterID,
		ServiceID:    serviceID,
		Name:         name,
		Description:  description,
		Type:         ptype,
		IsRequired:   isRequired,
		DefaultValue: defaultValue,
		Position:     position,
		CreatedAt:    now,
	}, nil
}

// ParameterOption is one allowed discrete value for a Parameter and its
// price modifier. At most one option per (parameter, value) pair is valid.
type ParameterOption struct {
	ID          id.OptionID     `json:"id"`
	ParameterID id.ParameterID  `json:"parameter_id"`
	Value       string          `json:"value"`
	Modifier    decimal.Decimal `json:"modifier"`
}

// NewParameterOption validates and constructs a ParameterOption. Modifiers
// carry 4 fraction digits, matching their column precision.
func NewParameterOption(optionID id.OptionID, parameterID id.ParameterID, value string, modifier decimal.Decimal) (*ParameterOption, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "option value cannot be empty")
	}
	return &ParameterOption{
		ID:          optionID,
		ParameterID: parameterID,
		Value:       value,
		Modifier:    modifier.Round(4),
	}, nil
}
