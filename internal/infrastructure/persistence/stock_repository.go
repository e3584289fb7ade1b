package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/inventory"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func (r *GormStockRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a stock row by ID
func (r *GormStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryStock, error) {
	var stock inventory.InventoryStock
	if err := r.conn(ctx).First(&stock, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByProductAndLot finds the stock row for a (hospital, product, lot)
func (r *GormStockRepository) FindByProductAndLot(ctx context.Context, hospitalID, productID uuid.UUID, lotNumber string) (*inventory.InventoryStock, error) {
	var stock inventory.InventoryStock
	if err := r.conn(ctx).
		Where("hospital_id = ? AND product_id = ? AND lot_number = ?", hospitalID, productID, lotNumber).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByProduct finds all lot rows for a product
func (r *GormStockRepository) FindByProduct(ctx context.Context, hospitalID, productID uuid.UUID) ([]inventory.InventoryStock, error) {
	var stocks []inventory.InventoryStock
	if err := r.conn(ctx).
		Where("hospital_id = ? AND product_id = ?", hospitalID, productID).
		Order("lot_number ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindAllForHospital finds stock rows for a hospital with filtering
func (r *GormStockRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]inventory.InventoryStock, error) {
	var stocks []inventory.InventoryStock
	query := r.applyFilter(r.conn(ctx).Model(&inventory.InventoryStock{}).Where("inventory_stocks.hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, StockSortFields, "created_at"))

	if err := query.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// TotalQuantityByProduct sums the quantity across all lots of a product
func (r *GormStockRepository) TotalQuantityByProduct(ctx context.Context, hospitalID, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.conn(ctx).
		Model(&inventory.InventoryStock{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("hospital_id = ? AND product_id = ?", hospitalID, productID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Save creates or updates a stock row
func (r *GormStockRepository) Save(ctx context.Context, stock *inventory.InventoryStock) error {
	return r.conn(ctx).Save(stock).Error
}

// SaveWithLock saves an existing stock row with an optimistic version check.
// A concurrent writer that bumped the version first wins; the loser gets
// ErrConcurrencyConflict and must reload.
func (r *GormStockRepository) SaveWithLock(ctx context.Context, stock *inventory.InventoryStock) error {
	previousVersion := stock.Version
	stock.Version = previousVersion + 1

	result := r.conn(ctx).
		Model(&inventory.InventoryStock{}).
		Where("id = ? AND version = ?", stock.ID, previousVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(stock)
	if result.Error != nil {
		stock.Version = previousVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		stock.Version = previousVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForHospital counts stock rows for a hospital with optional filters
func (r *GormStockRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&inventory.InventoryStock{}).Where("inventory_stocks.hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("lot_number ILIKE ? OR location ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("inventory_stocks.product_id = ?", value)
		case "expired":
			if expired, ok := value.(bool); ok && expired {
				query = query.Where("expiration_date IS NOT NULL AND expiration_date < ?", time.Now())
			}
		case "low_stock":
			if low, ok := value.(bool); ok && low {
				query = query.Where(`inventory_stocks.product_id IN (
					SELECT s.product_id FROM inventory_stocks s
					JOIN products p ON p.id = s.product_id
					WHERE s.hospital_id = inventory_stocks.hospital_id AND p.reorder_level > 0
					GROUP BY s.product_id, p.reorder_level
					HAVING SUM(s.quantity) <= p.reorder_level
				)`)
			}
		}
	}
	return query
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
