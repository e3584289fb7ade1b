package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated   = "procurement.order.created"
	EventTypePurchaseOrderApproved  = "procurement.order.approved"
	EventTypePurchaseOrderReceived  = "procurement.order.received"
	EventTypePurchaseOrderCancelled = "procurement.order.cancelled"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID, order.HospitalID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderApprovedEvent is raised when a purchase order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	ApprovedBy  uuid.UUID       `json:"approved_by"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder) *PurchaseOrderApprovedEvent {
	var approvedBy uuid.UUID
	if order.ApprovedBy != nil {
		approvedBy = *order.ApprovedBy
	}
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, AggregateTypePurchaseOrder, order.ID, order.HospitalID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		ApprovedBy:      approvedBy,
		TotalAmount:     order.TotalAmount,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderApprovedEvent) EventType() string {
	return EventTypePurchaseOrderApproved
}

// PurchaseOrderReceivedEvent is raised when goods are received against an order
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	SupplierID    uuid.UUID           `json:"supplier_id"`
	SupplierName  string              `json:"supplier_name"`
	Status        PurchaseOrderStatus `json:"status"` // PARTIAL or RECEIVED after this receipt
	ReceivedItems []ReceivedItemInfo  `json:"received_items"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, items []ReceivedItemInfo) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID, order.HospitalID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		Status:          order.Status,
		ReceivedItems:   items,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}

// PurchaseOrderCancelledEvent is raised when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	CancelReason string    `json:"cancel_reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID, order.HospitalID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		CancelReason:    order.CancelReason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}
