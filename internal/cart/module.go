// Package cart provides the estimate cart bounded context module.
package cart

import (
	"backoffice_backend/internal/cart/handler"
	"backoffice_backend/internal/cart/repository"
	"backoffice_backend/internal/cart/service"
	apphttp "backoffice_backend/internal/http"
	"backoffice_backend/platform/config"
	"backoffice_backend/platform/logger"
	"backoffice_backend/platform/validator"
)

// Module is the cart bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the cart module.
func NewModule(store repository.Store, catalog service.CatalogReader, estimates service.EstimateWriter, cfg config.CartConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, catalog, estimates, cfg, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "cart"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts cart routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/cart")
	group.GET("", m.handler.Get)
	group.DELETE("", m.handler.Clear)
	group.POST("/items", m.handler.AddItem)
	group.PATCH("/items/:key", m.handler.SetQuantity)
	group.DELETE("/items/:key", m.handler.RemoveItem)
	group.PUT("/adjustments", m.handler.SetAdjustments)
	group.POST("/checkout", m.handler.Checkout)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
