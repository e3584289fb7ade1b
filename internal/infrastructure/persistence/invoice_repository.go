package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/billing"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds an invoice by ID with its items preloaded
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.conn(ctx).Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForHospital finds an invoice by ID scoped to a hospital
func (r *GormInvoiceRepository) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.conn(ctx).Preload("Items").
		Where("hospital_id = ? AND id = ?", hospitalID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByInvoiceNumber finds an invoice by its number for a hospital
func (r *GormInvoiceRepository) FindByInvoiceNumber(ctx context.Context, hospitalID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.conn(ctx).Preload("Items").
		Where("hospital_id = ? AND invoice_number = ?", hospitalID, invoiceNumber).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForHospital finds invoices for a hospital with filtering
func (r *GormInvoiceRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.applyFilter(r.conn(ctx).Model(&billing.Invoice{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, InvoiceSortFields, "created_at"))

	if err := query.Preload("Items").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByGuardian finds invoices for a guardian
func (r *GormInvoiceRepository) FindByGuardian(ctx context.Context, hospitalID, guardianID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.conn(ctx).Model(&billing.Invoice{}).
		Where("hospital_id = ? AND guardian_id = ?", hospitalID, guardianID)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, InvoiceSortFields, "created_at"))

	if err := query.Preload("Items").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice together with its items
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(inv).Error; err != nil {
			return err
		}
		return syncInvoiceItems(tx, inv)
	})
}

// SaveWithLock saves an existing invoice with an optimistic version check.
// Removed items are deleted, remaining items upserted.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *billing.Invoice) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		previousVersion := inv.Version
		inv.Version = previousVersion + 1

		result := tx.Model(&billing.Invoice{}).
			Where("id = ? AND version = ?", inv.ID, previousVersion).
			Select("*").
			Omit("id", "created_at", "Items").
			Updates(inv)
		if result.Error != nil {
			inv.Version = previousVersion
			return result.Error
		}
		if result.RowsAffected == 0 {
			inv.Version = previousVersion
			return shared.ErrConcurrencyConflict
		}
		if err := syncInvoiceItems(tx, inv); err != nil {
			inv.Version = previousVersion
			return err
		}
		return nil
	})
}

// syncInvoiceItems reconciles the invoice_items table with the aggregate:
// rows no longer present on the aggregate are deleted, the rest upserted.
func syncInvoiceItems(tx *gorm.DB, inv *billing.Invoice) error {
	keep := make([]uuid.UUID, 0, len(inv.Items))
	for i := range inv.Items {
		keep = append(keep, inv.Items[i].ID)
	}
	del := tx.Where("invoice_id = ?", inv.ID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&billing.InvoiceItem{}).Error; err != nil {
		return err
	}
	if len(inv.Items) == 0 {
		return nil
	}
	return tx.Save(&inv.Items).Error
}

// DeleteForHospital deletes an invoice and its items
func (r *GormInvoiceRepository) DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&billing.Invoice{}, "hospital_id = ? AND id = ?", hospitalID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("invoice_id = ?", id).Delete(&billing.InvoiceItem{}).Error
	})
}

// CountForHospital counts invoices for a hospital with optional filters
func (r *GormInvoiceRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&billing.Invoice{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateInvoiceNumber allocates the next INV-YYYYMMDD-NNNN number
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, hospitalID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, dbFromContext(ctx, r.db), hospitalID, "INV")
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR notes ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "animal_id":
			query = query.Where("animal_id = ?", value)
		case "guardian_id":
			query = query.Where("guardian_id = ?", value)
		case "start_date":
			query = query.Where("created_at >= ?", value)
		case "end_date":
			query = query.Where("created_at <= ?", value)
		}
	}
	return query
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
