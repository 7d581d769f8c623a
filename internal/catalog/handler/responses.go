package handler

import (
	"time"

	"quotient/internal/catalog/models"
)

// ServiceCreatedResponse is the HTTP response for POST /services.
type ServiceCreatedResponse struct {
	Message   string `json:"message"`
	ServiceID string `json:"service_id"`
}

// ParameterCreatedResponse is the HTTP response for POST /parameters.
type ParameterCreatedResponse struct {
	Message string `json:"message"`
}

// ServiceResponse is one service in GET /services.
type ServiceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BasePrice   float64   `json:"base_price"`
	CreatedAt   time.Time `json:"created_at"`
}

// OptionResponse is one allowed value in a parameter response.
type OptionResponse struct {
	Value    string  `json:"value"`
	Modifier float64 `json:"modifier"`
}

// ParameterResponse is one parameter in GET /parameters.
type ParameterResponse struct {
	ID           string           `json:"id"`
	ServiceID    string           `json:"service_id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Type         string           `json:"parameter_type"`
	IsRequired   bool             `json:"is_required"`
	DefaultValue *string          `json:"default_value,omitempty"`
	Options      []OptionResponse `json:"options"`
	CreatedAt    time.Time        `json:"created_at"`
}

// FromService converts a domain service to its HTTP shape.
func FromService(svc *models.Service) ServiceResponse {
	return ServiceResponse{
		ID:          svc.ID.String(),
		Name:        svc.Name,
		Description: svc.Description,
		BasePrice:   svc.BasePrice.InexactFloat64(),
		CreatedAt:   svc.CreatedAt,
	}
}

// FromServices converts a list of domain services.
func FromServices(services []*models.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, FromService(svc))
	}
	return out
}

// FromParameter converts a domain parameter to its HTTP shape.
func FromParameter(param *models.Parameter) ParameterResponse {
	options := make([]OptionResponse, 0, len(param.Options))
	for _, opt := range param.Options {
		options = append(options, OptionResponse{
			Value:    opt.Value,
			Modifier: opt.Modifier.InexactFloat64(),
		})
	}
	return ParameterResponse{
		ID:           param.ID.String(),
		ServiceID:    param.ServiceID.String(),
		Name:         param.Name,
		Description:  param.Description,
		Type:         string(param.Type),
		IsRequired:   param.IsRequired,
		DefaultValue: param.DefaultValue,
		Options:      options,
		CreatedAt:    param.CreatedAt,
	}
}

// FromParameters converts a list of domain parameters.
func FromParameters(params []*models.Parameter) []ParameterResponse {
	out := make([]ParameterResponse, 0, len(params))
	for _, param := range params {
		out = append(out, FromParameter(param))
	}
	return out
}
