package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"backoffice_backend/internal/estimates/service"
	"backoffice_backend/platform/httpkit"
)

const msgInvalidID = "invalid estimate id"

// Handler handles HTTP requests for estimates.
type Handler struct {
	svc *service.Service
}

// New creates a new estimates handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// GetByID retrieves an estimate draft with its lines.
// GET /api/v1/estimates/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
