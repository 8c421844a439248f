// Package estimates provides the estimate drafts bounded context module.
package estimates

import (
	"backoffice_backend/internal/estimates/handler"
	"backoffice_backend/internal/estimates/repository"
	"backoffice_backend/internal/estimates/service"
	apphttp "backoffice_backend/internal/http"
	"backoffice_backend/platform/logger"
)

// Module is the estimates bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the estimates module.
func NewModule(repo repository.Repository, log *logger.Logger) *Module {
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "estimates"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts estimate routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/estimates/:id", m.handler.GetByID)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
