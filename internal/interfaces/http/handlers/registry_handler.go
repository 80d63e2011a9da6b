package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/pkg/errors"
)

// RegistryHandler handles the project and asset endpoints.
type RegistryHandler struct {
	registryService service.RegistryAppService
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(registryService service.RegistryAppService) *RegistryHandler {
	return &RegistryHandler{registryService: registryService}
}

// CreateProject registers an assessment project.
func (h *RegistryHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.registryService.CreateProject(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, result)
}

// GetProject returns one project.
func (h *RegistryHandler) GetProject(c *gin.Context) {
	result, err := h.registryService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ListProjects returns a page of projects.
func (h *RegistryHandler) ListProjects(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	result, err := h.registryService.ListProjects(c.Request.Context(), page, pageSize)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// UpdateProject updates a project.
func (h *RegistryHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.registryService.UpdateProject(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// CreateAsset registers an asset, optionally under a project.
func (h *RegistryHandler) CreateAsset(c *gin.Context) {
	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.registryService.CreateAsset(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, result)
}

// GetAsset returns one asset.
func (h *RegistryHandler) GetAsset(c *gin.Context) {
	result, err := h.registryService.GetAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ListAssets returns a page of assets, optionally scoped to a project.
func (h *RegistryHandler) ListAssets(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	result, err := h.registryService.ListAssets(c.Request.Context(), c.Query("project_id"), page, pageSize)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// UpdateAsset updates an asset.
func (h *RegistryHandler) UpdateAsset(c *gin.Context) {
	var req dto.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.registryService.UpdateAsset(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}
