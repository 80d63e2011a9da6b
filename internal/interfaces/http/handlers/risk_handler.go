package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/pkg/errors"
)

// RiskHandler handles the risk register endpoints.
type RiskHandler struct {
	riskService service.RiskAppService
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskService service.RiskAppService) *RiskHandler {
	return &RiskHandler{riskService: riskService}
}

// CreateRisk registers a new risk and classifies it.
func (h *RiskHandler) CreateRisk(c *gin.Context) {
	var req dto.CreateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.riskService.CreateRisk(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, result)
}

// GetRisk returns one risk.
func (h *RiskHandler) GetRisk(c *gin.Context) {
	result, err := h.riskService.GetRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ListRisks returns a filtered page of the register. The level filter
// doubles as the critical-risk view (level=high).
func (h *RiskHandler) ListRisks(c *gin.Context) {
	var query dto.RiskListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.riskService.ListRisks(c.Request.Context(), &query)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// UpdateRisk updates the descriptive fields of a risk.
func (h *RiskHandler) UpdateRisk(c *gin.Context) {
	var req dto.UpdateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.riskService.UpdateRisk(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ReassessRisk re-scores a risk with new likelihood and consequence.
func (h *RiskHandler) ReassessRisk(c *gin.Context) {
	var req dto.ReassessRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.riskService.ReassessRisk(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// SetTarget records the residual level the mitigation aims for.
func (h *RiskHandler) SetTarget(c *gin.Context) {
	var req dto.SetTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.riskService.SetTarget(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ClearTarget removes the target assessment.
func (h *RiskHandler) ClearTarget(c *gin.Context) {
	result, err := h.riskService.ClearTarget(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// CloseRisk closes a risk. Closed risks drop out of the live register,
// the matrix and the coverage counts.
func (h *RiskHandler) CloseRisk(c *gin.Context) {
	result, err := h.riskService.CloseRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// DeleteRisk removes a risk and its dependent records.
func (h *RiskHandler) DeleteRisk(c *gin.Context) {
	if err := h.riskService.DeleteRisk(c.Request.Context(), c.Param("id")); err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, nil)
}
