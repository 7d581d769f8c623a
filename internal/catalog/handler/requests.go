package handler

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"quotient/internal/catalog/models"
	catalogservice "quotient/internal/catalog/service"
	id "quotient/pkg/domain"
	dErrors "quotient/pkg/domain-errors"
)

// CreateServiceRequest is the HTTP request body for POST /services.
type CreateServiceRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	BasePrice   json.Number `json:"base_price"`

	// Parsed values (populated by Validate)
	parsedBasePrice decimal.Decimal
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateServiceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}

	if r.BasePrice == "" {
		return dErrors.New(dErrors.CodeValidation, "base_price is required")
	}
	price, err := decimal.NewFromString(r.BasePrice.String())
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "base_price must be a number")
	}
	if price.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "base_price must not be negative")
	}
	r.parsedBasePrice = price

	return nil
}

// ToInput converts the request to a service-layer input.
func (r *CreateServiceRequest) ToInput() catalogservice.CreateServiceInput {
	return catalogservice.CreateServiceInput{
		Name:        r.Name,
		Description: r.Description,
		BasePrice:   r.parsedBasePrice,
	}
}

// OptionRequest is one allowed value in a create-parameter request.
type OptionRequest struct {
	Value    string      `json:"value"`
	Modifier json.Number `json:"modifier"`
}

// CreateParameterRequest is the HTTP request body for POST /parameters.
type CreateParameterRequest struct {
	ServiceID    string          `json:"service_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Type         string          `json:"parameter_type"`
	IsRequired   bool            `json:"is_required"`
	DefaultValue *string         `json:"default_value"`
	Options      []OptionRequest `json:"options"`

	// Parsed values (populated by Validate)
	parsedServiceID id.ServiceID
	parsedType      models.ParameterType
	parsedOptions   []catalogservice.OptionInput
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateParameterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if strings.TrimSpace(r.ServiceID) == "" {
		return dErrors.New(dErrors.CodeValidation, "service_id is required")
	}
	serviceID, err := id.ParseServiceID(strings.TrimSpace(r.ServiceID))
	if err != nil {
		return err
	}
	r.parsedServiceID = serviceID

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}

	ptype, err := models.ParseParameterType(r.Type)
	if err != nil {
		return err
	}
	r.parsedType = ptype

	r.parsedOptions = make([]catalogservice.OptionInput, 0, len(r.Options))
	for _, opt := range r.Options {
		value := strings.TrimSpace(opt.Value)
		if value == "" {
			return dErrors.New(dErrors.CodeValidation, "option value is required")
		}
		if opt.Modifier == "" {
			return dErrors.New(dErrors.CodeValidation, "option modifier is required")
		}
		modifier, err := decimal.NewFromString(opt.Modifier.String())
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "option modifier must be a number")
		}
		r.parsedOptions = append(r.parsedOptions, catalogservice.OptionInput{
			Value:    value,
			Modifier: modifier,
		})
	}

	return nil
}

// ToInput converts the request to a service-layer input.
func (r *CreateParameterRequest) ToInput() catalogservice.CreateParameterInput {
	return catalogservice.CreateParameterInput{
		ServiceID:    r.parsedServiceID,
		Name:         r.Name,
		Description:  r.Description,
		Type:         r.parsedType,
		IsRequired:   r.IsRequired,
		DefaultValue: r.DefaultValue,
		Options:      r.parsedOptions,
	}
}
