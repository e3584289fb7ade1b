package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/vetcare/backend/internal/application/billing"
	"github.com/vetcare/backend/internal/domain/billing"
)

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CancelInvoiceRequest carries the reason for voiding an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason"`
}

// Create issues a new draft invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req billingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID retrieves an invoice with its items
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), hospitalID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List retrieves invoices with optional filtering
func (h *InvoiceHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := billingapp.InvoiceListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := billing.InvoiceStatus(statusStr)
		filter.Status = &status
	}

	animalID, err := queryUUIDPtr(c, "animal_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.AnimalID = animalID

	guardianID, err := queryUUIDPtr(c, "guardian_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.GuardianID = guardianID

	startDate, err := queryTimePtr(c, "start_date")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.StartDate = startDate

	endDate, err := queryTimePtr(c, "end_date")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.EndDate = endDate

	invoices, total, err := h.invoiceService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Update changes a draft invoice's details or submits it for payment
func (h *InvoiceHandler) Update(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req billingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), hospitalID, invoiceID, getRole(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// AddItem appends a line to a draft invoice
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req billingapp.InvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.AddItem(c.Request.Context(), hospitalID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// UpdateItem replaces a line on a draft invoice
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req billingapp.InvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateItem(c.Request.Context(), hospitalID, invoiceID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// RemoveItem deletes a line from a draft invoice
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.RemoveItem(c.Request.Context(), hospitalID, invoiceID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Cancel voids an invoice that has no completed payments
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), hospitalID, invoiceID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete removes a draft invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), hospitalID, invoiceID, getRole(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
