package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/pkg/errors"
)

// SupplierHandler handles the supplier register endpoints.
type SupplierHandler struct {
	supplierService service.SupplierAppService
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(supplierService service.SupplierAppService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// CreateSupplier registers a supplier.
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.supplierService.CreateSupplier(c.Request.Context(), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, result)
}

// GetSupplier returns one supplier.
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	result, err := h.supplierService.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ListSuppliers returns a page of suppliers.
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	result, err := h.supplierService.ListSuppliers(c.Request.Context(), page, pageSize)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// ListExpiringContracts returns suppliers whose contract runs out within
// the given window (query parameter days, default 90).
func (h *SupplierHandler) ListExpiringContracts(c *gin.Context) {
	days, err := intQuery(c, "days", 0)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	if days < 0 {
		dto.SendError(c, errors.ErrInvalidRequest.WithMessage("query parameter \"days\" must not be negative"))
		return
	}

	result, err := h.supplierService.ListExpiringContracts(c.Request.Context(), days)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// UpdateSupplier updates a supplier.
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req dto.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	result, err := h.supplierService.UpdateSupplier(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, result)
}

// DeleteSupplier removes a supplier.
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.supplierService.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, nil)
}
