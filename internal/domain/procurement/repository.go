package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID (items preloaded)
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForHospital finds a purchase order by ID scoped to a hospital
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by order number for a hospital
	FindByOrderNumber(ctx context.Context, hospitalID uuid.UUID, orderNumber string) (*PurchaseOrder, error)

	// FindAllForHospital finds purchase orders for a hospital with filtering
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySupplier finds purchase orders for a supplier
	FindBySupplier(ctx context.Context, hospitalID, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindPendingReceipt finds orders awaiting goods (APPROVED, ORDERED or PARTIAL)
	FindPendingReceipt(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order with its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// DeleteForHospital deletes a purchase order and its items
	DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error

	// CountForHospital counts purchase orders for a hospital with optional filters
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)

	// CountBySupplier counts purchase orders for a supplier
	CountBySupplier(ctx context.Context, hospitalID, supplierID uuid.UUID) (int64, error)

	// GenerateOrderNumber allocates the next PO-YYYYMMDD-NNNN number.
	// Allocation must be atomic per hospital and date so concurrent
	// creations never observe a duplicate.
	GenerateOrderNumber(ctx context.Context, hospitalID uuid.UUID) (string, error)
}
