package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/vetcare/backend/internal/application/billing"
	"github.com/vetcare/backend/internal/domain/billing"
)

// PaymentHandler handles payment API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create applies a payment against an invoice
func (h *PaymentHandler) Create(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req billingapp.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}

// GetByID retrieves a payment
func (h *PaymentHandler) GetByID(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	paymentID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), hospitalID, paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// List retrieves payments with optional filtering
func (h *PaymentHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := billingapp.PaymentListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}

	invoiceID, err := queryUUIDPtr(c, "invoice_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.InvoiceID = invoiceID

	if statusStr := c.Query("status"); statusStr != "" {
		status := billing.PaymentStatus(statusStr)
		filter.Status = &status
	}
	if methodStr := c.Query("method"); methodStr != "" {
		method := billing.PaymentMethod(methodStr)
		filter.Method = &method
	}

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

	payments, total, err := h.paymentService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// ListByInvoice retrieves all payments applied to one invoice
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
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

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), hospitalID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payments)
}

// Refund reverses all or part of a completed payment
func (h *PaymentHandler) Refund(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	paymentID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req billingapp.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.Refund(c.Request.Context(), hospitalID, paymentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}
