package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/procurement"
)

// CreatePurchaseOrderRequest is the input for creating a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID                        `json:"supplier_id"`
	ExpectedDate *time.Time                       `json:"expected_date,omitempty"`
	Notes        string                           `json:"notes,omitempty"`
	Items        []CreatePurchaseOrderItemInput   `json:"items,omitempty"`
	CreatedBy    *uuid.UUID                       `json:"-"`
}

// CreatePurchaseOrderItemInput is one line of a new purchase order.
// UnitPrice falls back to the product's cost price when omitted.
type CreatePurchaseOrderItemInput struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// UpdatePurchaseOrderRequest is the input for updating order details
type UpdatePurchaseOrderRequest struct {
	ExpectedDate *time.Time `json:"expected_date,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// ReceiveItemInput is one line of a receiving operation
type ReceiveItemInput struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	LotNumber      string          `json:"lot_number,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

// ReceiveRequest is the input for receiving goods against an order
type ReceiveRequest struct {
	Items      []ReceiveItemInput `json:"items"`
	ReceivedBy *uuid.UUID         `json:"-"`
}

// CancelRequest is the input for cancelling an order
type CancelRequest struct {
	Reason string `json:"reason"`
}

// PurchaseOrderListFilter is the filter input for listing purchase orders
type PurchaseOrderListFilter struct {
	Page           int
	PageSize       int
	OrderBy        string
	OrderDir       string
	Search         string
	Status         *procurement.PurchaseOrderStatus
	SupplierID     *uuid.UUID
	PendingReceipt bool
	StartDate      *time.Time
	EndDate        *time.Time
}

// PurchaseOrderItemResponse is the API representation of an order line
type PurchaseOrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Amount            decimal.Decimal `json:"amount"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	LotNumber         string          `json:"lot_number,omitempty"`
	ExpirationDate    *time.Time      `json:"expiration_date,omitempty"`
}

// PurchaseOrderResponse is the API representation of a purchase order
type PurchaseOrderResponse struct {
	ID           uuid.UUID                       `json:"id"`
	OrderNumber  string                          `json:"order_number"`
	SupplierID   uuid.UUID                       `json:"supplier_id"`
	SupplierName string                          `json:"supplier_name"`
	Status       procurement.PurchaseOrderStatus `json:"status"`
	Items        []PurchaseOrderItemResponse     `json:"items"`
	Subtotal     decimal.Decimal                 `json:"subtotal"`
	TaxAmount    decimal.Decimal                 `json:"tax_amount"`
	TotalAmount  decimal.Decimal                 `json:"total_amount"`
	ExpectedDate *time.Time                      `json:"expected_date,omitempty"`
	ApprovedBy   *uuid.UUID                      `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time                      `json:"approved_at,omitempty"`
	ReceivedAt   *time.Time                      `json:"received_at,omitempty"`
	CancelledAt  *time.Time                      `json:"cancelled_at,omitempty"`
	CancelReason string                          `json:"cancel_reason,omitempty"`
	Notes        string                          `json:"notes,omitempty"`
	Version      int                             `json:"version"`
	CreatedAt    time.Time                       `json:"created_at"`
	UpdatedAt    time.Time                       `json:"updated_at"`
}

// PurchaseOrderListItemResponse is the compact list representation
type PurchaseOrderListItemResponse struct {
	ID           uuid.UUID                       `json:"id"`
	OrderNumber  string                          `json:"order_number"`
	SupplierID   uuid.UUID                       `json:"supplier_id"`
	SupplierName string                          `json:"supplier_name"`
	Status       procurement.PurchaseOrderStatus `json:"status"`
	TotalAmount  decimal.Decimal                 `json:"total_amount"`
	ItemCount    int                             `json:"item_count"`
	ExpectedDate *time.Time                      `json:"expected_date,omitempty"`
	CreatedAt    time.Time                       `json:"created_at"`
}

// ToPurchaseOrderItemResponse converts an order line to its response representation
func ToPurchaseOrderItemResponse(item *procurement.PurchaseOrderItem) PurchaseOrderItemResponse {
	return PurchaseOrderItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		ProductName:       item.ProductName,
		Quantity:          item.OrderedQuantity,
		UnitPrice:         item.UnitPrice,
		Amount:            item.Amount,
		ReceivedQuantity:  item.ReceivedQuantity,
		RemainingQuantity: item.RemainingQuantity(),
		LotNumber:         item.LotNumber,
		ExpirationDate:    item.ExpirationDate,
	}
}

// ToPurchaseOrderResponse converts a purchase order to its response representation
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToPurchaseOrderItemResponse(&order.Items[i])
	}

	return PurchaseOrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		SupplierID:   order.SupplierID,
		SupplierName: order.SupplierName,
		Status:       order.Status,
		Items:        items,
		Subtotal:     order.Subtotal,
		TaxAmount:    order.TaxAmount,
		TotalAmount:  order.TotalAmount,
		ExpectedDate: order.ExpectedDate,
		ApprovedBy:   order.ApprovedBy,
		ApprovedAt:   order.ApprovedAt,
		ReceivedAt:   order.ReceivedAt,
		CancelledAt:  order.CancelledAt,
		CancelReason: order.CancelReason,
		Notes:        order.Notes,
		Version:      order.Version,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts purchase orders to their list representation
func ToPurchaseOrderListItemResponses(orders []procurement.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		o := &orders[i]
		responses[i] = PurchaseOrderListItemResponse{
			ID:           o.ID,
			OrderNumber:  o.OrderNumber,
			SupplierID:   o.SupplierID,
			SupplierName: o.SupplierName,
			Status:       o.Status,
			TotalAmount:  o.TotalAmount,
			ItemCount:    len(o.Items),
			ExpectedDate: o.ExpectedDate,
			CreatedAt:    o.CreatedAt,
		}
	}
	return responses
}
