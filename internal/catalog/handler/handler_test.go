package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"backoffice_backend/internal/catalog/customization"
	"backoffice_backend/internal/catalog/filters"
	"backoffice_backend/internal/catalog/repository"
	"backoffice_backend/internal/catalog/service"
	"backoffice_backend/internal/catalog/transport"
	"backoffice_backend/platform/httpkit"
	"backoffice_backend/platform/logger"
	"backoffice_backend/platform/validator"
)

type handlerFixture struct {
	router   *gin.Engine
	store    *repository.Memory
	industry repository.Industry
	service  repository.Service
}

func newHandlerFixture(t *testing.T, tenantID *uuid.UUID) handlerFixture {
	t.Helper()
	defs, err := filters.LoadDefinitions()
	if err != nil {
		t.Fatalf("load filters: %v", err)
	}
	store := repository.NewMemory()
	ind := store.AddIndustry("Plumbing")
	svc := store.AddService(ind.ID, "Drains", repository.CategoryRepair)

	log := logger.Discard()
	h := New(service.New(store, customization.NewEngine(store, log), defs, log), validator.New())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		if tenantID != nil {
			c.Set(httpkit.ContextTenantIDKey, *tenantID)
		}
		c.Next()
	})
	r.GET("/catalog/offerings", h.ListOfferings)
	r.GET("/catalog/offerings/:id", h.GetOffering)
	r.PUT("/catalog/offerings/:id/price", h.CustomizePrice)
	r.POST("/catalog/customizations/bulk", h.BulkCustomize)
	r.POST("/catalog/customizations/bulk/jobs", h.StartBulkJob)

	return handlerFixture{router: r, store: store, industry: ind, service: svc}
}

func (f handlerFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCustomizePriceCreatesThenUpdates(t *testing.T) {
	tenant := uuid.New()
	f := newHandlerFixture(t, &tenant)
	drain := f.store.AddOffering(repository.Offering{ServiceID: f.service.ID, Name: "Drain Cleaning", PriceCents: 15000})

	rec := f.do(http.MethodPut, "/catalog/offerings/"+drain.ID.String()+"/price", `{"price":"175.00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created transport.CustomizationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Offering.PriceCents != 17500 {
		t.Fatalf("expected 17500, got %d", created.Offering.PriceCents)
	}

	rec = f.do(http.MethodPut, "/catalog/offerings/"+drain.ID.String()+"/price", `{"price":180}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on reprice, got %d: %s", rec.Code, rec.Body.String())
	}
	if n := f.store.CountCustomizations(tenant, f.service.ID, "Drain Cleaning"); n != 1 {
		t.Fatalf("expected a single customization, got %d", n)
	}
}

func TestCustomizePriceRejectsNegativeAndMissing(t *testing.T) {
	tenant := uuid.New()
	f := newHandlerFixture(t, &tenant)
	drain := f.store.AddOffering(repository.Offering{ServiceID: f.service.ID, Name: "Drain Cleaning", PriceCents: 15000})

	rec := f.do(http.MethodPut, "/catalog/offerings/"+drain.ID.String()+"/price", `{"price":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %d", rec.Code)
	}
	rec = f.do(http.MethodPut, "/catalog/offerings/"+drain.ID.String()+"/price", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing price, got %d", rec.Code)
	}
	rec = f.do(http.MethodPut, "/catalog/offerings/"+uuid.NewString()+"/price", `{"price":10}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown offering, got %d", rec.Code)
	}
}

func TestListOfferingsReadsFilterQuery(t *testing.T) {
	tenant := uuid.New()
	f := newHandlerFixture(t, &tenant)
	f.store.AddOffering(repository.Offering{ServiceID: f.service.ID, Name: "Copper Repipe", PriceCents: 90000,
		Attributes: map[string]any{"pipe_material": "copper"}})
	f.store.AddOffering(repository.Offering{ServiceID: f.service.ID, Name: "PEX Repipe", PriceCents: 70000,
		Attributes: map[string]any{"pipe_material": "pex"}})

	rec := f.do(http.MethodGet, "/catalog/offerings?industryId="+f.industry.ID.String()+"&filter.pipe_material=copper,cast_iron", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var list transport.OfferingListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 1 || list.Items[0].Name != "Copper Repipe" {
		t.Fatalf("expected only copper repipe, got %+v", list.Items)
	}

	rec = f.do(http.MethodGet, "/catalog/offerings?industryId=not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad industry id, got %d", rec.Code)
	}
}

func TestBulkEndpoints(t *testing.T) {
	tenant := uuid.New()
	f := newHandlerFixture(t, &tenant)
	f.store.AddOffering(repository.Offering{ServiceID: f.service.ID, Name: "A", PriceCents: 1000})

	rec := f.do(http.MethodPost, "/catalog/customizations/bulk", `{"serviceIds":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty services, got %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/catalog/customizations/bulk", `{"serviceIds":["`+f.service.ID.String()+`"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.BulkCustomizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Created != 1 || resp.Completed != 1 {
		t.Fatalf("unexpected bulk result %+v", resp)
	}

	rec = f.do(http.MethodPost, "/catalog/customizations/bulk/jobs", `{"serviceIds":["`+f.service.ID.String()+`"]}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a job queue, got %d", rec.Code)
	}
}

func TestMissingTenantIsRejected(t *testing.T) {
	f := newHandlerFixture(t, nil)
	rec := f.do(http.MethodGet, "/catalog/offerings", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without tenant, got %d", rec.Code)
	}
}
