package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/inventory"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryTransactionRepository implements the inventory ledger using GORM.
// Entries are append-only; the repository exposes no update or delete.
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

func (r *GormInventoryTransactionRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a transaction by ID
func (r *GormInventoryTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.conn(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindAllForHospital finds transactions for a hospital with filtering
func (r *GormInventoryTransactionRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	query := r.applyFilter(r.conn(ctx).Model(&inventory.InventoryTransaction{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, TransactionSortFields, "transaction_date"))

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByProduct finds transactions for a product
func (r *GormInventoryTransactionRepository) FindByProduct(ctx context.Context, hospitalID, productID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	query := r.conn(ctx).Model(&inventory.InventoryTransaction{}).
		Where("hospital_id = ? AND product_id = ?", hospitalID, productID)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, TransactionSortFields, "transaction_date"))

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByReference finds transactions created by a source document
func (r *GormInventoryTransactionRepository) FindByReference(ctx context.Context, hospitalID uuid.UUID, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	if err := r.conn(ctx).
		Where("hospital_id = ? AND reference_type = ? AND reference_id = ?", hospitalID, referenceType, referenceID).
		Order("transaction_date ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Create appends a new ledger entry
func (r *GormInventoryTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.conn(ctx).Create(tx).Error
}

// CountForHospital counts transactions for a hospital with optional filters
func (r *GormInventoryTransactionRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&inventory.InventoryTransaction{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateTransactionNumber allocates the next TXN-YYYYMMDD-NNNN number
func (r *GormInventoryTransactionRepository) GenerateTransactionNumber(ctx context.Context, hospitalID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, dbFromContext(ctx, r.db), hospitalID, "TXN")
}

func (r *GormInventoryTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("transaction_number ILIKE ? OR reason ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "reference_type":
			query = query.Where("reference_type = ?", value)
		case "reference_id":
			query = query.Where("reference_id = ?", value)
		case "start_date":
			query = query.Where("transaction_date >= ?", value)
		case "end_date":
			query = query.Where("transaction_date <= ?", value)
		}
	}
	return query
}

var _ inventory.TransactionRepository = (*GormInventoryTransactionRepository)(nil)
