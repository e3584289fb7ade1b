package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/procurement"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func (r *GormPurchaseOrderRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a purchase order by ID with its items preloaded
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.conn(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForHospital finds a purchase order by ID scoped to a hospital
func (r *GormPurchaseOrderRepository) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.conn(ctx).Preload("Items").
		Where("hospital_id = ? AND id = ?", hospitalID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a purchase order by order number for a hospital
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, hospitalID uuid.UUID, orderNumber string) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.conn(ctx).Preload("Items").
		Where("hospital_id = ? AND order_number = ?", hospitalID, orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForHospital finds purchase orders for a hospital with filtering
func (r *GormPurchaseOrderRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.applyFilter(r.conn(ctx).Model(&procurement.PurchaseOrder{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, PurchaseOrderSortFields, "created_at"))

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindBySupplier finds purchase orders for a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, hospitalID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.conn(ctx).Model(&procurement.PurchaseOrder{}).
		Where("hospital_id = ? AND supplier_id = ?", hospitalID, supplierID)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, PurchaseOrderSortFields, "created_at"))

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindPendingReceipt finds orders awaiting goods
func (r *GormPurchaseOrderRepository) FindPendingReceipt(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.conn(ctx).Model(&procurement.PurchaseOrder{}).
		Where("hospital_id = ?", hospitalID).
		Where("status IN ?", []procurement.PurchaseOrderStatus{
			procurement.PurchaseOrderStatusApproved,
			procurement.PurchaseOrderStatusOrdered,
			procurement.PurchaseOrderStatusPartial,
		})
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, PurchaseOrderSortFields, "created_at"))

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a purchase order together with its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return syncOrderItems(tx, order)
	})
}

// SaveWithLock saves an existing purchase order with an optimistic version
// check. Removed items are deleted, remaining items upserted.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		previousVersion := order.Version
		order.Version = previousVersion + 1

		result := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, previousVersion).
			Select("*").
			Omit("id", "created_at", "Items").
			Updates(order)
		if result.Error != nil {
			order.Version = previousVersion
			return result.Error
		}
		if result.RowsAffected == 0 {
			order.Version = previousVersion
			return shared.ErrConcurrencyConflict
		}
		if err := syncOrderItems(tx, order); err != nil {
			order.Version = previousVersion
			return err
		}
		return nil
	})
}

// syncOrderItems reconciles purchase_order_items with the aggregate
func syncOrderItems(tx *gorm.DB, order *procurement.PurchaseOrder) error {
	keep := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		keep = append(keep, order.Items[i].ID)
	}
	del := tx.Where("order_id = ?", order.ID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	return tx.Save(&order.Items).Error
}

// DeleteForHospital deletes a purchase order and its items
func (r *GormPurchaseOrderRepository) DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&procurement.PurchaseOrder{}, "hospital_id = ? AND id = ?", hospitalID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&procurement.PurchaseOrderItem{}).Error
	})
}

// CountForHospital counts purchase orders for a hospital with optional filters
func (r *GormPurchaseOrderRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&procurement.PurchaseOrder{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySupplier counts purchase orders for a supplier
func (r *GormPurchaseOrderRepository) CountBySupplier(ctx context.Context, hospitalID, supplierID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&procurement.PurchaseOrder{}).
		Where("hospital_id = ? AND supplier_id = ?", hospitalID, supplierID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber allocates the next PO-YYYYMMDD-NNNN number
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context, hospitalID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, dbFromContext(ctx, r.db), hospitalID, "PO")
}

func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "start_date":
			query = query.Where("created_at >= ?", value)
		case "end_date":
			query = query.Where("created_at <= ?", value)
		}
	}
	return query
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
