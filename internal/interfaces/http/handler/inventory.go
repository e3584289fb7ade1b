package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/vetcare/backend/internal/application/inventory"
	"github.com/vetcare/backend/internal/domain/inventory"
)

// InventoryHandler handles stock and inventory ledger API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// ListStock retrieves stock rows with optional filtering
func (h *InventoryHandler) ListStock(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := inventoryapp.StockListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		LowStock: queryBool(c, "low_stock"),
		Expired:  queryBool(c, "expired"),
	}
	productID, err := queryUUIDPtr(c, "product_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.ProductID = productID

	stocks, total, err := h.inventoryService.ListStock(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, stocks, total, filter.Page, filter.PageSize)
}

// GetProductStock retrieves the aggregated stock position of one product
func (h *InventoryHandler) GetProductStock(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stock, err := h.inventoryService.GetProductStock(c.Request.Context(), hospitalID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stock)
}

// RecordMovement records an inbound, outbound or disposal stock movement
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	tx, err := h.inventoryService.RecordMovement(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tx)
}

// AdjustStock sets a lot to an absolute counted quantity
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	tx, err := h.inventoryService.AdjustStock(c.Request.Context(), hospitalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tx)
}

// GetTransaction retrieves a single ledger entry
func (h *InventoryHandler) GetTransaction(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transactionID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.inventoryService.GetTransaction(c.Request.Context(), hospitalID, transactionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tx)
}

// ListTransactions retrieves ledger entries with optional filtering
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := inventoryapp.TransactionListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}

	productID, err := queryUUIDPtr(c, "product_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.ProductID = productID

	if typeStr := c.Query("type"); typeStr != "" {
		txType := inventory.TransactionType(typeStr)
		filter.Type = &txType
	}
	if refTypeStr := c.Query("reference_type"); refTypeStr != "" {
		refType := inventory.ReferenceType(refTypeStr)
		filter.ReferenceType = &refType
	}

	referenceID, err := queryUUIDPtr(c, "reference_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.ReferenceID = referenceID

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

	transactions, total, err := h.inventoryService.ListTransactions(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// ListTransactionsByReference retrieves ledger entries tied to one source document
func (h *InventoryHandler) ListTransactionsByReference(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	refType := inventory.ReferenceType(c.Param("type"))
	referenceID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transactions, err := h.inventoryService.ListTransactionsByReference(c.Request.Context(), hospitalID, refType, referenceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transactions)
}
