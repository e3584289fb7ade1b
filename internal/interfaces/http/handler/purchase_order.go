package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	procurementapp "github.com/vetcare/backend/internal/application/procurement"
	"github.com/vetcare/backend/internal/domain/procurement"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *procurementapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *procurementapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// UpdateOrderItemRequest carries the new quantity for an order line
type UpdateOrderItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// Create opens a new draft purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req procurementapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	order, err := h.orderService.Create(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID retrieves a purchase order with its items
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), hospitalID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves purchase orders with optional filtering
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := procurementapp.PurchaseOrderListFilter{
		Page:           q.Page,
		PageSize:       q.PageSize,
		OrderBy:        q.OrderBy,
		OrderDir:       q.OrderDir,
		Search:         q.Search,
		PendingReceipt: queryBool(c, "pending_receipt"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := procurement.PurchaseOrderStatus(statusStr)
		filter.Status = &status
	}

	supplierID, err := queryUUIDPtr(c, "supplier_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.SupplierID = supplierID

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

	orders, total, err := h.orderService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Update changes a draft order's expected date or notes
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req procurementapp.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), hospitalID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// AddItem appends a line to a draft order
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req procurementapp.CreatePurchaseOrderItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), hospitalID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItem changes an order line's quantity
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateItemQuantity(c.Request.Context(), hospitalID, orderID, itemID, req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem deletes a line from a draft order
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), hospitalID, orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Submit moves a draft order to the pending approval state
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Submit(c.Request.Context(), hospitalID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Approve approves a submitted order
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	order, err := h.orderService.Approve(c.Request.Context(), hospitalID, orderID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// MarkOrdered marks an approved order as placed with the supplier
func (h *PurchaseOrderHandler) MarkOrdered(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.MarkOrdered(c.Request.Context(), hospitalID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel cancels an order before receiving starts
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req procurementapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), hospitalID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Receive records delivered goods against an order and books them into stock
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req procurementapp.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.ReceivedBy = &userID
	}

	order, err := h.orderService.Receive(c.Request.Context(), hospitalID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes a draft order
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), hospitalID, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
