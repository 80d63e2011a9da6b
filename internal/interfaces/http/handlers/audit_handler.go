package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/pkg/errors"
)

// AuditHandler handles the audit trail read endpoint.
type AuditHandler struct {
	auditService service.AuditAppService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService service.AuditAppService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListEvents returns a filtered page of the audit trail.
func (h *AuditHandler) ListEvents(c *gin.Context) {
	var query service.AuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.auditService.ListEvents(c.Request.Context(), &query)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}
