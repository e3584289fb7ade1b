package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/billing"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.conn(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByIDForHospital finds a payment by ID scoped to a hospital
func (r *GormPaymentRepository) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.conn(ctx).
		Where("hospital_id = ? AND id = ?", hospitalID, id).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByInvoice finds all payments applied to an invoice
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, hospitalID, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := r.conn(ctx).
		Where("hospital_id = ? AND invoice_id = ?", hospitalID, invoiceID).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAllForHospital finds payments for a hospital with filtering
func (r *GormPaymentRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]billing.Payment, error) {
	var payments []billing.Payment
	query := r.applyFilter(r.conn(ctx).Model(&billing.Payment{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, PaymentSortFields, "created_at"))

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *billing.Payment) error {
	return r.conn(ctx).Save(p).Error
}

// CountForHospital counts payments for a hospital with optional filters
func (r *GormPaymentRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&billing.Payment{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GeneratePaymentNumber allocates the next PAY-YYYYMMDD-NNNN number
func (r *GormPaymentRepository) GeneratePaymentNumber(ctx context.Context, hospitalID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, dbFromContext(ctx, r.db), hospitalID, "PAY")
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("payment_number ILIKE ? OR remark ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "invoice_id":
			query = query.Where("invoice_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "start_date":
			query = query.Where("created_at >= ?", value)
		case "end_date":
			query = query.Where("created_at <= ?", value)
		}
	}
	return query
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
