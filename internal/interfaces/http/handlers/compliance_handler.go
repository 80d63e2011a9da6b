package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/pkg/errors"
)

// ComplianceHandler handles the reference catalog, mapping and coverage
// endpoints.
type ComplianceHandler struct {
	complianceService service.ComplianceAppService
}

// NewComplianceHandler creates a new ComplianceHandler.
func NewComplianceHandler(complianceService service.ComplianceAppService) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService}
}

// GetCatalog returns the reference catalog of one framework.
func (h *ComplianceHandler) GetCatalog(c *gin.Context) {
	result, err := h.complianceService.GetCatalog(c.Request.Context(), c.Query("framework"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// GetCoverage returns the full coverage report of one framework.
func (h *ComplianceHandler) GetCoverage(c *gin.Context) {
	result, err := h.complianceService.GetCoverage(c.Request.Context(), c.Query("framework"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// GetGaps returns the catalog entries of one framework that no live
// risk covers.
func (h *ComplianceHandler) GetGaps(c *gin.Context) {
	coverage, err := h.complianceService.GetCoverage(c.Request.Context(), c.Query("framework"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	dto.SendSuccess(c, http.StatusOK, &dto.ComplianceGapsResponse{
		Framework: coverage.Framework,
		Total:     coverage.Total,
		Mapped:    coverage.Mapped,
		Gaps:      coverage.Unmapped,
	})
}

// GetSummary returns the coverage overview across every framework.
func (h *ComplianceHandler) GetSummary(c *gin.Context) {
	result, err := h.complianceService.GetSummary(c.Request.Context())
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// MapRisk links a catalog entry to a risk.
func (h *ComplianceHandler) MapRisk(c *gin.Context) {
	var req dto.MapRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.complianceService.MapRisk(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, result)
}

// UnmapRisk removes a reference-risk link. The pair to remove comes in
// the request body, mirroring the create call.
func (h *ComplianceHandler) UnmapRisk(c *gin.Context) {
	var req dto.MapRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	if err := h.complianceService.UnmapRisk(c.Request.Context(), req.ReferenceID, req.RiskID); err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, nil)
}

// MapAction links a catalog entry to a remediation action.
func (h *ComplianceHandler) MapAction(c *gin.Context) {
	var req dto.MapActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.complianceService.MapAction(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, result)
}

// UnmapAction removes a reference-action link.
func (h *ComplianceHandler) UnmapAction(c *gin.Context) {
	var req dto.MapActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	if err := h.complianceService.UnmapAction(c.Request.Context(), req.ReferenceID, req.ActionID); err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, nil)
}

// ListMappingsForRisk returns the reference mappings of one risk.
func (h *ComplianceHandler) ListMappingsForRisk(c *gin.Context) {
	result, err := h.complianceService.ListMappingsForRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}
