// Package catalog provides the catalog bounded context module.
package catalog

import (
	"backoffice_backend/internal/catalog/customization"
	"backoffice_backend/internal/catalog/filters"
	"backoffice_backend/internal/catalog/handler"
	"backoffice_backend/internal/catalog/jobs"
	"backoffice_backend/internal/catalog/repository"
	"backoffice_backend/internal/catalog/service"
	apphttp "backoffice_backend/internal/http"
	"backoffice_backend/platform/logger"
	"backoffice_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module.
func NewModule(repo repository.Repository, defs *filters.Definitions, val *validator.Validator, log *logger.Logger) *Module {
	engine := customization.NewEngine(repo, log)
	svc := service.New(repo, engine, defs, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// EnableBulkJobs routes bulk customizations through the background queue.
func (m *Module) EnableBulkJobs(store jobs.Store, queue service.BulkJobQueue) {
	m.service.SetBulkJobs(store, queue)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/catalog")

	// Reference data
	group.GET("/industries", m.handler.ListIndustries)
	group.GET("/industries/:id/services", m.handler.ListServices)
	group.GET("/industries/:id/filters", m.handler.ListFilterDefinitions)

	group.GET("/offerings", m.handler.ListOfferings)
	group.GET("/offerings/:id", m.handler.GetOffering)
	group.PUT("/offerings/:id/price", m.handler.CustomizePrice)

	group.GET("/packages", m.handler.ListPackages)
	group.GET("/packages/:id", m.handler.GetPackage)

	group.POST("/customizations/bulk", m.handler.BulkCustomize)
	group.POST("/customizations/bulk/jobs", m.handler.StartBulkJob)
	group.GET("/customizations/bulk/jobs/:id", m.handler.GetBulkJob)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
