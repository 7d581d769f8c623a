package handler

import (
	"strings"

	"quotient/internal/pricing"
	id "quotient/pkg/domain"
	dErrors "quotient/pkg/domain-errors"
)

// CalculateRequest is the HTTP request body for POST /calculate-price
// and POST /calculate-price-details.
type CalculateRequest struct {
	ServiceID  string         `json:"service_id"`
	Parameters pricing.Inputs `json:"parameters"`

	// Parsed values (populated by Validate)
	parsedServiceID id.ServiceID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CalculateRequest) Validate() error {
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

	if r.Parameters == nil {
		r.Parameters = pricing.Inputs{}
	}
	return nil
}

// ParsedServiceID returns the validated service ID.
func (r *CalculateRequest) ParsedServiceID() id.ServiceID {
	return r.parsedServiceID
}
