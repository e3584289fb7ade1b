package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInventoryStock       = "InventoryStock"
	AggregateTypeInventoryTransaction = "InventoryTransaction"
)

// Event type constants
const (
	EventTypeStockMovementRecorded = "inventory.movement.recorded"
	EventTypeLowStockDetected      = "inventory.low_stock.detected"
)

// StockMovementRecordedEvent is raised after a ledger entry is committed
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID     uuid.UUID       `json:"transaction_id"`
	TransactionNumber string          `json:"transaction_number"`
	ProductID         uuid.UUID       `json:"product_id"`
	LotNumber         string          `json:"lot_number,omitempty"`
	Type              TransactionType `json:"transaction_type"`
	Quantity          decimal.Decimal `json:"quantity"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
}

// NewStockMovementRecordedEvent creates a new StockMovementRecordedEvent
func NewStockMovementRecordedEvent(tx *InventoryTransaction) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, AggregateTypeInventoryTransaction, tx.ID, tx.HospitalID),
		TransactionID:     tx.ID,
		TransactionNumber: tx.TransactionNumber,
		ProductID:         tx.ProductID,
		LotNumber:         tx.LotNumber,
		Type:              tx.Type,
		Quantity:          tx.Quantity,
		CurrentQuantity:   tx.CurrentQuantity,
	}
}

// EventType returns the event type name
func (e *StockMovementRecordedEvent) EventType() string {
	return EventTypeStockMovementRecorded
}

// LowStockDetectedEvent is raised when a product's total quantity falls to
// or below its reorder level after an outbound movement
type LowStockDetectedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
}

// NewLowStockDetectedEvent creates a new LowStockDetectedEvent
func NewLowStockDetectedEvent(hospitalID, productID uuid.UUID, productName string, totalQuantity, reorderLevel decimal.Decimal) *LowStockDetectedEvent {
	return &LowStockDetectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStockDetected, AggregateTypeInventoryStock, productID, hospitalID),
		ProductID:       productID,
		ProductName:     productName,
		TotalQuantity:   totalQuantity,
		ReorderLevel:    reorderLevel,
	}
}

// EventType returns the event type name
func (e *LowStockDetectedEvent) EventType() string {
	return EventTypeLowStockDetected
}
