package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotient/internal/calculation/service"
	calculationstore "quotient/internal/calculation/store"
	"quotient/internal/catalog/models"
	catalogservice "quotient/internal/catalog/service"
	catalogstore "quotient/internal/catalog/store"
	id "quotient/pkg/domain"
)

// newCalculationRouter builds the full stack on in-memory stores with one
// seeded service: base price 100, required multiplier "tier" (1 -> 1.0,
// 2 -> 1.5) and an optional quantity "qty".
func newCalculationRouter(t *testing.T) (http.Handler, string) {
	t.Helper()

	catalog := catalogstore.NewMemory()
	now := time.Now().UTC()

	svc, err := models.NewService(id.NewServiceID(), "Hosting", "", decimal.NewFromInt(100), now)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	if err := catalog.CreateService(context.Background(), svc); err != nil {
		t.Fatalf("failed to store service: %v", err)
	}

	tier, err := models.NewParameter(id.NewParameterID(), svc.ID, "tier", "",
		models.TypeMultiplier, true, nil, 0, now)
	if err != nil {
		t.Fatalf("failed to build parameter: %v", err)
	}
	for value, modifier := range map[string]string{"1": "1.0", "2": "1.5"} {
		opt, err := models.NewParameterOption(id.NewOptionID(), tier.ID, value, decimal.RequireFromString(modifier))
		if err != nil {
			t.Fatalf("failed to build option: %v", err)
		}
		tier.Options = append(tier.Options, *opt)
	}
	if err := catalog.CreateParameter(context.Background(), tier); err != nil {
		t.Fatalf("failed to store parameter: %v", err)
	}

	defQty := "1"
	qty, err := models.NewParameter(id.NewParameterID(), svc.ID, "qty", "",
		models.TypeQuantity, false, &defQty, 1, now)
	if err != nil {
		t.Fatalf("failed to build quantity parameter: %v", err)
	}
	if err := catalog.CreateParameter(context.Background(), qty); err != nil {
		t.Fatalf("failed to store quantity parameter: %v", err)
	}

	catalogSvc := catalogservice.New(catalog)
	calcSvc := service.New(catalogSvc, service.NewMemoryTx(calculationstore.NewMemory()), nil)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(calcSvc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, svc.ID.String()
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCalculatePrice(t *testing.T) {
	router, serviceID := newCalculationRouter(t)

	rec := postJSON(t, router, "/calculate-price", map[string]any{
		"service_id": serviceID,
		"parameters": map[string]any{"tier": "2", "qty": 3},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp CalculationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, err := uuid.Parse(resp.CalculationID); err != nil {
		t.Fatalf("expected valid calculation_id, got %q", resp.CalculationID)
	}
	if resp.ServiceID != serviceID {
		t.Fatalf("expected service_id %s, got %s", serviceID, resp.ServiceID)
	}
	if resp.BasePrice != 100 {
		t.Fatalf("expected base_price 100, got %v", resp.BasePrice)
	}
	if resp.CalculatedPrice != 450 {
		t.Fatalf("expected calculated_price 450, got %v", resp.CalculatedPrice)
	}
	if resp.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
	if resp.InputParameters["tier"].String() != "2" {
		t.Fatalf("expected input_parameters to echo the request")
	}
}

func TestCalculatePriceDetails(t *testing.T) {
	router, serviceID := newCalculationRouter(t)

	rec := postJSON(t, router, "/calculate-price-details", map[string]any{
		"service_id": serviceID,
		"parameters": map[string]any{"tier": "2", "qty": 3},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp DetailedCalculationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CalculatedPrice != 450 {
		t.Fatalf("expected calculated_price 450, got %v", resp.CalculatedPrice)
	}
	if len(resp.DetailedBreakdown) < 2 {
		t.Fatalf("expected breakdown rows, got %d", len(resp.DetailedBreakdown))
	}
	if resp.DetailedBreakdown[0].Parameter != "base_price" {
		t.Fatalf("expected first row to be base_price, got %q", resp.DetailedBreakdown[0].Parameter)
	}

	var sum float64
	for _, line := range resp.DetailedBreakdown {
		sum += line.Cost
	}
	if sum != resp.CalculatedPrice {
		t.Fatalf("expected breakdown sum %v to equal total %v", sum, resp.CalculatedPrice)
	}
}

func TestCalculatePriceErrors(t *testing.T) {
	router, serviceID := newCalculationRouter(t)

	t.Run("missing service_id", func(t *testing.T) {
		rec := postJSON(t, router, "/calculate-price", map[string]any{
			"parameters": map[string]any{"tier": "2"},
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown service", func(t *testing.T) {
		rec := postJSON(t, router, "/calculate-price", map[string]any{
			"service_id": uuid.NewString(),
			"parameters": map[string]any{"tier": "2"},
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("missing required parameter lists names", func(t *testing.T) {
		rec := postJSON(t, router, "/calculate-price", map[string]any{
			"service_id": serviceID,
			"parameters": map[string]any{},
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Error             string   `json:"error"`
			MissingParameters []string `json:"missing_parameters"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode error response: %v", err)
		}
		if resp.Error != "validation_error" {
			t.Fatalf("expected validation_error, got %q", resp.Error)
		}
		if len(resp.MissingParameters) != 1 || resp.MissingParameters[0] != "tier" {
			t.Fatalf("expected missing_parameters [tier], got %v", resp.MissingParameters)
		}
	})

	t.Run("invalid option value", func(t *testing.T) {
		rec := postJSON(t, router, "/calculate-price", map[string]any{
			"service_id": serviceID,
			"parameters": map[string]any{"tier": "bogus"},
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		var resp struct {
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode error response: %v", err)
		}
		if resp.Description != "Invalid value 'bogus' for parameter 'tier'" {
			t.Fatalf("unexpected error description %q", resp.Description)
		}
	})
}

func TestCalculationHistory(t *testing.T) {
	router, serviceID := newCalculationRouter(t)

	first := postJSON(t, router, "/calculate-price", map[string]any{
		"service_id": serviceID,
		"parameters": map[string]any{"tier": "1"},
	})
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	second := postJSON(t, router, "/calculate-price", map[string]any{
		"service_id": serviceID,
		"parameters": map[string]any{"tier": "2"},
	})
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", second.Code)
	}
	var created CalculationResponse
	if err := json.NewDecoder(second.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/calculations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing calculations, got %d", rec.Code)
	}
	var list []CalculationResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode calculation list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 calculations, got %d", len(list))
	}

	getReq := httptest.NewRequest(http.MethodGet, "/calculation/"+created.CalculationID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching calculation, got %d", getRec.Code)
	}
	var fetched CalculationResponse
	if err := json.NewDecoder(getRec.Body).Decode(&fetched); err != nil {
		t.Fatalf("failed to decode calculation: %v", err)
	}
	if fetched.CalculationID != created.CalculationID {
		t.Fatalf("expected calculation %s, got %s", created.CalculationID, fetched.CalculationID)
	}
	if fetched.CalculatedPrice != 150 {
		t.Fatalf("expected calculated_price 150, got %v", fetched.CalculatedPrice)
	}
}

func TestGetCalculationErrors(t *testing.T) {
	router, _ := newCalculationRouter(t)

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calculation/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		var resp struct {
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode error response: %v", err)
		}
		if resp.Description != "Calculation not found" {
			t.Fatalf("unexpected error description %q", resp.Description)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calculation/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
