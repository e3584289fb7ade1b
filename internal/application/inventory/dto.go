package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/inventory"
)

// RecordMovementRequest is the input for recording one stock movement.
// Quantity is a positive magnitude for inbound and outbound types and a
// signed delta for ADJUSTMENT.
type RecordMovementRequest struct {
	ProductID      uuid.UUID                `json:"product_id"`
	LotNumber      string                   `json:"lot_number,omitempty"`
	Type           inventory.TransactionType `json:"type"`
	Quantity       decimal.Decimal          `json:"quantity"`
	ExpirationDate *time.Time               `json:"expiration_date,omitempty"`
	ReferenceType  inventory.ReferenceType  `json:"reference_type,omitempty"`
	ReferenceID    *uuid.UUID               `json:"reference_id,omitempty"`
	Reason         string                   `json:"reason,omitempty"`
	CreatedBy      *uuid.UUID               `json:"-"`
}

// AdjustStockRequest sets a lot's quantity to an absolute target count,
// recording the difference as an ADJUSTMENT transaction.
type AdjustStockRequest struct {
	ProductID      uuid.UUID       `json:"product_id"`
	LotNumber      string          `json:"lot_number,omitempty"`
	TargetQuantity decimal.Decimal `json:"target_quantity"`
	Reason         string          `json:"reason"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// StockListFilter is the filter input for listing stock rows
type StockListFilter struct {
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
	ProductID *uuid.UUID
	LowStock  bool
	Expired   bool
}

// TransactionListFilter is the filter input for listing ledger entries
type TransactionListFilter struct {
	Page          int
	PageSize      int
	OrderBy       string
	OrderDir      string
	ProductID     *uuid.UUID
	Type          *inventory.TransactionType
	ReferenceType *inventory.ReferenceType
	ReferenceID   *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}

// StockResponse is the API representation of a stock row
type StockResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	LotNumber         string          `json:"lot_number,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	ExpirationDate    *time.Time      `json:"expiration_date,omitempty"`
	Location          string          `json:"location,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductStockResponse aggregates all lots of one product
type ProductStockResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Lots          []StockResponse `json:"lots"`
}

// TransactionResponse is the API representation of a ledger entry
type TransactionResponse struct {
	ID                uuid.UUID                 `json:"id"`
	TransactionNumber string                    `json:"transaction_number"`
	ProductID         uuid.UUID                 `json:"product_id"`
	StockID           uuid.UUID                 `json:"stock_id"`
	LotNumber         string                    `json:"lot_number,omitempty"`
	Type              inventory.TransactionType `json:"type"`
	Quantity          decimal.Decimal           `json:"quantity"`
	PreviousQuantity  decimal.Decimal           `json:"previous_quantity"`
	CurrentQuantity   decimal.Decimal           `json:"current_quantity"`
	ReferenceType     inventory.ReferenceType   `json:"reference_type,omitempty"`
	ReferenceID       *uuid.UUID                `json:"reference_id,omitempty"`
	Reason            string                    `json:"reason,omitempty"`
	TransactionDate   time.Time                 `json:"transaction_date"`
}

// ToStockResponse converts a stock row to its response representation
func ToStockResponse(s *inventory.InventoryStock) StockResponse {
	return StockResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		LotNumber:         s.LotNumber,
		Quantity:          s.Quantity,
		ReservedQuantity:  s.ReservedQuantity,
		AvailableQuantity: s.AvailableQuantity(),
		ExpirationDate:    s.ExpirationDate,
		Location:          s.Location,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ToStockResponses converts a slice of stock rows
func ToStockResponses(stocks []inventory.InventoryStock) []StockResponse {
	responses := make([]StockResponse, len(stocks))
	for i := range stocks {
		responses[i] = ToStockResponse(&stocks[i])
	}
	return responses
}

// ToTransactionResponse converts a ledger entry to its response representation
func ToTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:                tx.ID,
		TransactionNumber: tx.TransactionNumber,
		ProductID:         tx.ProductID,
		StockID:           tx.StockID,
		LotNumber:         tx.LotNumber,
		Type:              tx.Type,
		Quantity:          tx.Quantity,
		PreviousQuantity:  tx.PreviousQuantity,
		CurrentQuantity:   tx.CurrentQuantity,
		ReferenceType:     tx.ReferenceType,
		ReferenceID:       tx.ReferenceID,
		Reason:            tx.Reason,
		TransactionDate:   tx.TransactionDate,
	}
}

// ToTransactionResponses converts a slice of ledger entries
func ToTransactionResponses(txs []inventory.InventoryTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}
