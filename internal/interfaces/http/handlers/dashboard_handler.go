package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/application/service"
)

// DashboardHandler handles the aggregate read endpoints.
type DashboardHandler struct {
	dashboardService service.DashboardAppService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardAppService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary returns the register overview.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	result, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// GetMatrix returns the 5x5 risk matrix. The view query parameter
// selects the current or the target assessment, defaulting to current.
func (h *DashboardHandler) GetMatrix(c *gin.Context) {
	result, err := h.dashboardService.GetMatrix(c.Request.Context(), c.Query("view"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// GetDistribution returns the live-risk counts per level.
func (h *DashboardHandler) GetDistribution(c *gin.Context) {
	result, err := h.dashboardService.GetDistribution(c.Request.Context())
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// GetAlerts evaluates the alerting rules and returns the active alerts.
func (h *DashboardHandler) GetAlerts(c *gin.Context) {
	result, err := h.dashboardService.GetAlerts(c.Request.Context())
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// GetAlertCounts returns the number of active alerts per rule.
func (h *DashboardHandler) GetAlertCounts(c *gin.Context) {
	result, err := h.dashboardService.GetAlertCounts(c.Request.Context())
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}
