package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/pkg/errors"
)

// ActionHandler handles the remediation action endpoints.
type ActionHandler struct {
	actionService service.ActionAppService
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(actionService service.ActionAppService) *ActionHandler {
	return &ActionHandler{actionService: actionService}
}

// CreateAction registers a remediation action against a risk.
func (h *ActionHandler) CreateAction(c *gin.Context) {
	var req dto.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.actionService.CreateAction(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, result)
}

// GetAction returns one action.
func (h *ActionHandler) GetAction(c *gin.Context) {
	result, err := h.actionService.GetAction(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ListActions returns a filtered page of actions.
func (h *ActionHandler) ListActions(c *gin.Context) {
	var query dto.ActionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.actionService.ListActions(c.Request.Context(), &query)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ListOverdueActions returns every unfinished action past its due date,
// most overdue first.
func (h *ActionHandler) ListOverdueActions(c *gin.Context) {
	result, err := h.actionService.ListOverdueActions(c.Request.Context())
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// UpdateAction updates the descriptive fields of an action.
func (h *ActionHandler) UpdateAction(c *gin.Context) {
	var req dto.UpdateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.actionService.UpdateAction(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// SetActionStatus moves an action through its lifecycle.
func (h *ActionHandler) SetActionStatus(c *gin.Context) {
	var req dto.ActionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.actionService.SetActionStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// DeleteAction removes an action.
func (h *ActionHandler) DeleteAction(c *gin.Context) {
	if err := h.actionService.DeleteAction(c.Request.Context(), c.Param("id")); err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, nil)
}
