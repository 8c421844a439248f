package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice_backend/internal/cart/repository"
	"backoffice_backend/internal/cart/service"
	"backoffice_backend/internal/cart/transport"
	"backoffice_backend/platform/httpkit"
	"backoffice_backend/platform/validator"
)

// Handler handles HTTP requests for the estimate cart.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new cart handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Get returns the caller's cart.
// GET /api/v1/cart
func (h *Handler) Get(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), key)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddItem adds a package or offering to the cart.
// POST /api/v1/cart/items
func (h *Handler) AddItem(c *gin.Context) {
	var req transport.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	key, ok := sessionKey(c)
	if !ok {
		return
	}

	result, err := h.svc.AddItem(c.Request.Context(), key, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetQuantity changes the quantity of a cart item.
// PATCH /api/v1/cart/items/:key
func (h *Handler) SetQuantity(c *gin.Context) {
	var req transport.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	key, ok := sessionKey(c)
	if !ok {
		return
	}

	result, err := h.svc.SetQuantity(c.Request.Context(), key, c.Param("key"), *req.Quantity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RemoveItem removes an item from the cart.
// DELETE /api/v1/cart/items/:key
func (h *Handler) RemoveItem(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}

	result, err := h.svc.RemoveItem(c.Request.Context(), key, c.Param("key"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Clear discards the cart.
// DELETE /api/v1/cart
func (h *Handler) Clear(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Clear(c.Request.Context(), key)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAdjustments updates discount and tax settings.
// PUT /api/v1/cart/adjustments
func (h *Handler) SetAdjustments(c *gin.Context) {
	var req transport.AdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	key, ok := sessionKey(c)
	if !ok {
		return
	}

	result, err := h.svc.SetAdjustments(c.Request.Context(), key, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Checkout turns the cart into an estimate draft.
// POST /api/v1/cart/checkout
func (h *Handler) Checkout(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}

	result, err := h.svc.Checkout(c.Request.Context(), key)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func sessionKey(c *gin.Context) (repository.SessionKey, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return repository.SessionKey{}, false
	}
	tenantID, ok := httpkit.MustGetTenantID(c, identity)
	if !ok {
		return repository.SessionKey{}, false
	}
	return repository.SessionKey{OrganizationID: tenantID, UserID: identity.UserID()}, true
}
