package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"backoffice_backend/internal/cart/domain"
	"backoffice_backend/internal/cart/repository"
	"backoffice_backend/internal/cart/service"
	"backoffice_backend/internal/cart/transport"
	"backoffice_backend/platform/httpkit"
	"backoffice_backend/platform/logger"
	"backoffice_backend/platform/validator"
)

type cartConfig struct{}

func (cartConfig) GetCartTTL() time.Duration { return time.Hour }
func (cartConfig) GetDefaultTaxRate() string { return "8.25" }

type staticCatalog map[uuid.UUID]domain.Source

func (s staticCatalog) ResolveSource(_ context.Context, _ uuid.UUID, _ domain.Kind, id uuid.UUID) (domain.Source, error) {
	return s[id], nil
}

type noopEstimates struct{}

func (noopEstimates) CreateDraft(context.Context, service.EstimateDraft) (service.EstimateRef, error) {
	return service.EstimateRef{ID: uuid.New(), Number: "EST-2026-0007"}, nil
}

func newCartRouter(userID, tenantID uuid.UUID, catalog staticCatalog) *gin.Engine {
	h := New(service.New(repository.NewMemoryStore(), catalog, noopEstimates{}, cartConfig{}, logger.Discard()), validator.New())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, userID)
		c.Set(httpkit.ContextTenantIDKey, tenantID)
		c.Next()
	})
	r.GET("/cart", h.Get)
	r.DELETE("/cart", h.Clear)
	r.POST("/cart/items", h.AddItem)
	r.PATCH("/cart/items/:key", h.SetQuantity)
	r.DELETE("/cart/items/:key", h.RemoveItem)
	r.PUT("/cart/adjustments", h.SetAdjustments)
	r.POST("/cart/checkout", h.Checkout)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCartFlow(t *testing.T) {
	offering := domain.Source{Kind: domain.KindOffering, SourceID: uuid.New(), Name: "Drain Cleaning", UnitPriceCents: 17500}
	r := newCartRouter(uuid.New(), uuid.New(), staticCatalog{offering.SourceID: offering})

	rec := serve(r, http.MethodPost, "/cart/items", `{"kind":"offering","sourceId":"`+offering.SourceID.String()+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	key := domain.ItemKey(domain.KindOffering, offering.SourceID)
	rec = serve(r, http.MethodPatch, "/cart/items/"+key, `{"quantity":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(r, http.MethodPut, "/cart/adjustments", `{"discountPercent":150,"includeTax":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("adjust: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var cart transport.CartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cart.Totals.SubtotalCents != 52500 || cart.Totals.TotalCents != 0 {
		t.Fatalf("expected clamped 100%% discount, got %+v", cart.Totals)
	}

	rec = serve(r, http.MethodPost, "/cart/checkout", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(r, http.MethodPost, "/cart/checkout", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second checkout: expected 400, got %d", rec.Code)
	}
}

func TestCartRejectsBadInput(t *testing.T) {
	r := newCartRouter(uuid.New(), uuid.New(), staticCatalog{})

	rec := serve(r, http.MethodPost, "/cart/items", `{"kind":"bundle","sourceId":"`+uuid.NewString()+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
	}
	rec = serve(r, http.MethodPatch, "/cart/items/offering:"+uuid.NewString(), `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing quantity, got %d", rec.Code)
	}
	rec = serve(r, http.MethodDelete, "/cart/items/offering:"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", rec.Code)
	}
	rec = serve(r, http.MethodDelete, "/cart", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on clear, got %d", rec.Code)
	}
}

func TestCartRejectsOversizedQuantity(t *testing.T) {
	offering := domain.Source{Kind: domain.KindOffering, SourceID: uuid.New(), Name: "Drain Cleaning", UnitPriceCents: 17500}
	r := newCartRouter(uuid.New(), uuid.New(), staticCatalog{offering.SourceID: offering})

	rec := serve(r, http.MethodPost, "/cart/items", `{"kind":"offering","sourceId":"`+offering.SourceID.String()+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	key := domain.ItemKey(domain.KindOffering, offering.SourceID)
	rec = serve(r, http.MethodPatch, "/cart/items/"+key, `{"quantity":9223372036854775}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized quantity, got %d", rec.Code)
	}

	rec = serve(r, http.MethodGet, "/cart", "")
	var cart transport.CartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cart.Totals.SubtotalCents != 17500 {
		t.Fatalf("expected cart unchanged, got %+v", cart.Totals)
	}
}
