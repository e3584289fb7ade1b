package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
)

// StockRepository defines the interface for inventory stock persistence
type StockRepository interface {
	// FindByID finds a stock row by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryStock, error)

	// FindByProductAndLot finds the stock row for a (hospital, product, lot)
	FindByProductAndLot(ctx context.Context, hospitalID, productID uuid.UUID, lotNumber string) (*InventoryStock, error)

	// FindByProduct finds all lot rows for a product
	FindByProduct(ctx context.Context, hospitalID, productID uuid.UUID) ([]InventoryStock, error)

	// FindAllForHospital finds stock rows for a hospital with filtering
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]InventoryStock, error)

	// TotalQuantityByProduct sums the quantity across all lots of a product
	TotalQuantityByProduct(ctx context.Context, hospitalID, productID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a stock row
	Save(ctx context.Context, stock *InventoryStock) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, stock *InventoryStock) error

	// CountForHospital counts stock rows for a hospital with optional filters
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)
}

// TransactionRepository defines the interface for the inventory ledger.
// Ledger entries are append-only; there is no update or delete.
type TransactionRepository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)

	// FindAllForHospital finds transactions for a hospital with filtering
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, error)

	// FindByProduct finds transactions for a product
	FindByProduct(ctx context.Context, hospitalID, productID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, error)

	// FindByReference finds transactions created by a source document
	FindByReference(ctx context.Context, hospitalID uuid.UUID, referenceType ReferenceType, referenceID uuid.UUID) ([]InventoryTransaction, error)

	// Create appends a new ledger entry
	Create(ctx context.Context, tx *InventoryTransaction) error

	// CountForHospital counts transactions for a hospital with optional filters
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateTransactionNumber allocates the next TXN-YYYYMMDD-NNNN number.
	// Allocation must be atomic per hospital and date.
	GenerateTransactionNumber(ctx context.Context, hospitalID uuid.UUID) (string, error)
}
