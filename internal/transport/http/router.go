// Package httptransport assembles the HTTP surface: the middleware
// chain, module handlers, and operational endpoints. It delegates to
// domain services without embedding business logic.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	calculationhandler "quotient/internal/calculation/handler"
	cataloghandler "quotient/internal/catalog/handler"
	"quotient/internal/platform/middleware"
	"quotient/pkg/platform/httputil"
)

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(logger *slog.Logger, catalog *cataloghandler.Handler, calculation *calculationhandler.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(logger))

	catalog.Register(r)
	calculation.Register(r)

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
