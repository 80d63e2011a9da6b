package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/pkg/errors"
)

// ExportHandler handles register export rendering and download.
type ExportHandler struct {
	exportService service.ExportAppService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportAppService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// RegisterExport renders an export, stores it and returns a short-lived
// download token.
func (h *ExportHandler) RegisterExport(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.exportService.RegisterExport(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, result)
}

// Download streams a previously rendered export. This is the one
// endpoint that bypasses the JSON envelope; the body is the document
// itself.
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		dto.SendError(c, errors.ErrInvalidRequest.WithMessage("query parameter \"token\" is required"))
		return
	}

	artifact, err := h.exportService.Download(c.Request.Context(), token)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+artifact.Filename)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Content)
}
