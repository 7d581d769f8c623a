package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"quotient/internal/catalog/models"
	catalogservice "quotient/internal/catalog/service"
	"quotient/pkg/platform/httputil"
	"quotient/pkg/requestcontext"
)

// Service defines the interface for catalog operations.
type Service interface {
	CreateService(ctx context.Context, input catalogservice.CreateServiceInput) (*models.Service, error)
	ListServices(ctx context.Context) ([]*models.Service, error)
	CreateParameter(ctx context.Context, input catalogservice.CreateParameterInput) (*models.Parameter, error)
	ListParameters(ctx context.Context) ([]*models.Parameter, error)
}

// Handler wires catalog endpoints to the catalog service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a catalog handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/services", h.HandleCreateService)
	r.Get("/services", h.HandleListServices)
	r.Post("/parameters", h.HandleCreateParameter)
	r.Get("/parameters", h.HandleListParameters)
}

// HandleCreateService handles POST /services requests.
func (h *Handler) HandleCreateService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateServiceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	svc, err := h.service.CreateService(ctx, req.ToInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "service creation failed",
			"request_id", requestID,
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "service created",
		"request_id", requestID,
		"service_id", svc.ID,
		"name", svc.Name,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, ServiceCreatedResponse{
		Message:   "Service created successfully",
		ServiceID: svc.ID.String(),
	})
}

// HandleListServices handles GET /services requests.
func (h *Handler) HandleListServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services, err := h.service.ListServices(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "service listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromServices(services))
}

// HandleCreateParameter handles POST /parameters requests.
func (h *Handler) HandleCreateParameter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateParameterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	param, err := h.service.CreateParameter(ctx, req.ToInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "parameter creation failed",
			"request_id", requestID,
			"service_id", req.ServiceID,
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "parameter created",
		"request_id", requestID,
		"parameter_id", param.ID,
		"service_id", param.ServiceID,
		"name", param.Name,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, ParameterCreatedResponse{
		Message: "Parameter added successfully",
	})
}

// HandleListParameters handles GET /parameters requests.
func (h *Handler) HandleListParameters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := h.service.ListParameters(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "parameter listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromParameters(params))
}
