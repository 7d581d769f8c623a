package handler

import (
	"time"

	"quotient/internal/calculation/models"
	"quotient/internal/calculation/service"
	"quotient/internal/pricing"
)

// CalculationResponse is the HTTP response for POST /calculate-price and
// the record shape in GET /calculations and GET /calculation/{id}.
type CalculationResponse struct {
	CalculationID   string         `json:"calculation_id"`
	ServiceID       string         `json:"service_id"`
	BasePrice       float64        `json:"base_price"`
	CalculatedPrice float64        `json:"calculated_price"`
	Timestamp       time.Time      `json:"timestamp"`
	InputParameters pricing.Inputs `json:"input_parameters"`
}

// BreakdownLineResponse is one row of the detailed breakdown.
type BreakdownLineResponse struct {
	Parameter string  `json:"parameter"`
	Value     string  `json:"value"`
	Cost      float64 `json:"cost"`
}

// DetailedCalculationResponse is the HTTP response for
// POST /calculate-price-details.
type DetailedCalculationResponse struct {
	CalculationResponse
	DetailedBreakdown []BreakdownLineResponse `json:"detailed_breakdown"`
}

// FromCalculation converts a recorded calculation to its HTTP shape.
func FromCalculation(calc *models.Calculation) CalculationResponse {
	return CalculationResponse{
		CalculationID:   calc.ID.String(),
		ServiceID:       calc.ServiceID.String(),
		BasePrice:       calc.BasePrice.InexactFloat64(),
		CalculatedPrice: calc.CalculatedPrice.InexactFloat64(),
		Timestamp:       calc.CreatedAt,
		InputParameters: calc.InputParams.Parameters,
	}
}

// FromCalculations converts a list of recorded calculations.
func FromCalculations(calculations []*models.Calculation) []CalculationResponse {
	out := make([]CalculationResponse, 0, len(calculations))
	for _, calc := range calculations {
		out = append(out, FromCalculation(calc))
	}
	return out
}

// FromOutcome converts a priced request to the detailed HTTP shape.
func FromOutcome(outcome *service.Outcome) DetailedCalculationResponse {
	lines := make([]BreakdownLineResponse, 0, len(outcome.Result.Lines))
	for _, line := range outcome.Result.Lines {
		lines = append(lines, BreakdownLineResponse{
			Parameter: line.Parameter,
			Value:     line.Value,
			Cost:      line.Cost.InexactFloat64(),
		})
	}
	return DetailedCalculationResponse{
		CalculationResponse: FromCalculation(outcome.Calculation),
		DetailedBreakdown:   lines,
	}
}
