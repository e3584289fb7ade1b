package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vetcare/backend/internal/application/partner"
)

// SupplierHandler handles supplier API endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partner.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partner.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// Create registers a new supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req partner.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, supplier)
}

// GetByID retrieves a supplier
func (h *SupplierHandler) GetByID(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	supplierID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.GetByID(c.Request.Context(), hospitalID, supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// List retrieves suppliers with optional filtering
func (h *SupplierHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	active, err := queryBoolPtr(c, "active")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := partner.SupplierListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Active:   active,
	}

	suppliers, total, err := h.supplierService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, suppliers, total, filter.Page, filter.PageSize)
}

// Update updates a supplier's details
func (h *SupplierHandler) Update(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	supplierID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req partner.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), hospitalID, supplierID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Deactivate disables a supplier
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	supplierID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.supplierService.Deactivate(c.Request.Context(), hospitalID, supplierID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a supplier with no linked purchase orders
func (h *SupplierHandler) Delete(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	supplierID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.supplierService.Delete(c.Request.Context(), hospitalID, supplierID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
