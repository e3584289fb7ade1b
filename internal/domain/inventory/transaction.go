package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
)

// TransactionType represents the cause of a stock movement
type TransactionType string

const (
	TransactionTypePurchase    TransactionType = "PURCHASE"     // Inbound from purchase order receipt
	TransactionTypeSale        TransactionType = "SALE"         // Outbound to a sale/treatment
	TransactionTypeAdjustment  TransactionType = "ADJUSTMENT"   // Manual correction, signed delta
	TransactionTypeReturn      TransactionType = "RETURN"       // Inbound from a customer return
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"  // Inbound from another location
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT" // Outbound to another location
	TransactionTypeInitial     TransactionType = "INITIAL"      // Initial stock setup
	TransactionTypeExpired     TransactionType = "EXPIRED"      // Outbound write-off, past expiration
	TransactionTypeDamaged     TransactionType = "DAMAGED"      // Outbound write-off, damaged goods
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeSale, TransactionTypeAdjustment,
		TransactionTypeReturn, TransactionTypeTransferIn, TransactionTypeTransferOut,
		TransactionTypeInitial, TransactionTypeExpired, TransactionTypeDamaged:
		return true
	}
	return false
}

// IsInbound returns true if this type increases stock quantity
func (t TransactionType) IsInbound() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeReturn, TransactionTypeTransferIn, TransactionTypeInitial:
		return true
	}
	return false
}

// IsOutbound returns true if this type decreases stock quantity
func (t TransactionType) IsOutbound() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeTransferOut, TransactionTypeExpired, TransactionTypeDamaged:
		return true
	}
	return false
}

// ReferenceType identifies the source document of a transaction
type ReferenceType string

const (
	ReferenceTypePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	ReferenceTypeInvoice       ReferenceType = "INVOICE"
	ReferenceTypeManual        ReferenceType = "MANUAL"
)

// String returns the string representation of ReferenceType
func (r ReferenceType) String() string {
	return string(r)
}

// InventoryTransaction represents an immutable ledger entry for one stock
// movement. Once created it is never modified - corrections are made with
// new transactions.
type InventoryTransaction struct {
	shared.BaseEntity
	HospitalID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_hospital_time,priority:1"`
	TransactionNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_inv_tx_hospital_number,priority:2"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_product"`
	StockID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_stock"`
	LotNumber         string          `gorm:"type:varchar(50)"`
	Type              TransactionType `gorm:"type:varchar(20);not null;index:idx_inv_tx_type"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed delta applied to the stock
	PreviousQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Stock quantity before this movement
	CurrentQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Stock quantity after this movement
	ReferenceType     ReferenceType   `gorm:"type:varchar(30)"`
	ReferenceID       *uuid.UUID      `gorm:"type:uuid;index"`
	Reason            string          `gorm:"type:varchar(255)"`
	CreatedBy         *uuid.UUID      `gorm:"type:uuid"`
	TransactionDate   time.Time       `gorm:"type:timestamptz;not null;index:idx_inv_tx_hospital_time,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new ledger entry. The quantity is the
// signed delta already applied to the stock; previous and current capture
// the balance around the movement.
func NewInventoryTransaction(
	hospitalID uuid.UUID,
	transactionNumber string,
	productID uuid.UUID,
	stockID uuid.UUID,
	lotNumber string,
	txType TransactionType,
	quantity decimal.Decimal,
	previousQuantity decimal.Decimal,
	currentQuantity decimal.Decimal,
	referenceType ReferenceType,
	referenceID *uuid.UUID,
	reason string,
	createdBy *uuid.UUID,
) (*InventoryTransaction, error) {
	if hospitalID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_HOSPITAL", "Hospital ID cannot be empty")
	}
	if transactionNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NUMBER", "Transaction number cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if stockID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "지원하지 않는 거래 유형입니다")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "수량은 0일 수 없습니다")
	}
	if currentQuantity.IsNegative() {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "재고가 부족합니다")
	}
	if !previousQuantity.Add(quantity).Equal(currentQuantity) {
		return nil, shared.NewDomainError("BALANCE_MISMATCH", "재고 잔량 계산이 일치하지 않습니다")
	}

	return &InventoryTransaction{
		BaseEntity:        shared.NewBaseEntity(),
		HospitalID:        hospitalID,
		TransactionNumber: transactionNumber,
		ProductID:         productID,
		StockID:           stockID,
		LotNumber:         lotNumber,
		Type:              txType,
		Quantity:          quantity,
		PreviousQuantity:  previousQuantity,
		CurrentQuantity:   currentQuantity,
		ReferenceType:     referenceType,
		ReferenceID:       referenceID,
		Reason:            reason,
		CreatedBy:         createdBy,
		TransactionDate:   time.Now(),
	}, nil
}
