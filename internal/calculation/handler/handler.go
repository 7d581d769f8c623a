package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"quotient/internal/calculation/models"
	"quotient/internal/calculation/service"
	"quotient/internal/pricing"
	id "quotient/pkg/domain"
	"quotient/pkg/platform/httputil"
	"quotient/pkg/requestcontext"
)

// Service defines the interface for calculation operations.
type Service interface {
	Calculate(ctx context.Context, serviceID id.ServiceID, inputs pricing.Inputs) (*service.Outcome, error)
	Get(ctx context.Context, calculationID id.CalculationID) (*models.Calculation, error)
	List(ctx context.Context) ([]*models.Calculation, error)
}

// Handler wires calculation endpoints to the calculation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a calculation handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts calculation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/calculate-price", h.HandleCalculate)
	r.Post("/calculate-price-details", h.HandleCalculateDetails)
	r.Get("/calculations", h.HandleListCalculations)
	r.Get("/calculation/{calculationID}", h.HandleGetCalculation)
}

// HandleCalculate handles POST /calculate-price requests.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	outcome, ok := h.calculate(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCalculation(outcome.Calculation))
}

// HandleCalculateDetails handles POST /calculate-price-details requests.
// Same pricing path as HandleCalculate, plus the per-parameter breakdown.
func (h *Handler) HandleCalculateDetails(w http.ResponseWriter, r *http.Request) {
	outcome, ok := h.calculate(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOutcome(outcome))
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) (*service.Outcome, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CalculateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return nil, false
	}

	outcome, err := h.service.Calculate(ctx, req.ParsedServiceID(), req.Parameters)
	if err != nil {
		h.logger.ErrorContext(ctx, "price calculation failed",
			"request_id", requestID,
			"service_id", req.ServiceID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return nil, false
	}

	h.logger.InfoContext(ctx, "price calculated",
		"request_id", requestID,
		"calculation_id", outcome.Calculation.ID,
		"service_id", req.ServiceID,
		"calculated_price", outcome.Calculation.CalculatedPrice,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return outcome, true
}

// HandleListCalculations handles GET /calculations requests.
func (h *Handler) HandleListCalculations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	calculations, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "calculation listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCalculations(calculations))
}

// HandleGetCalculation handles GET /calculation/{calculationID} requests.
func (h *Handler) HandleGetCalculation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	calculationID, err := id.ParseCalculationID(chi.URLParam(r, "calculationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	calc, err := h.service.Get(ctx, calculationID)
	if err != nil {
		h.logger.ErrorContext(ctx, "calculation lookup failed",
			"request_id", requestID,
			"calculation_id", calculationID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCalculation(calc))
}
