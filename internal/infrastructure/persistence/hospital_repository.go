package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormHospitalRepository implements HospitalRepository using GORM
type GormHospitalRepository struct {
	db *gorm.DB
}

// NewGormHospitalRepository creates a new GormHospitalRepository
func NewGormHospitalRepository(db *gorm.DB) *GormHospitalRepository {
	return &GormHospitalRepository{db: db}
}

func (r *GormHospitalRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a hospital by its ID
func (r *GormHospitalRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.Hospital, error) {
	var hospital clinic.Hospital
	if err := r.conn(ctx).First(&hospital, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &hospital, nil
}

// FindByLicenseNumber finds a hospital by its license number
func (r *GormHospitalRepository) FindByLicenseNumber(ctx context.Context, licenseNumber string) (*clinic.Hospital, error) {
	var hospital clinic.Hospital
	if err := r.conn(ctx).First(&hospital, "license_number = ?", licenseNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &hospital, nil
}

// FindAll finds hospitals matching the filter
func (r *GormHospitalRepository) FindAll(ctx context.Context, filter shared.Filter) ([]clinic.Hospital, error) {
	var hospitals []clinic.Hospital
	query := r.conn(ctx).Model(&clinic.Hospital{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR license_number ILIKE ?", pattern, pattern)
	}
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, CommonSortFields, "created_at"))

	if err := query.Find(&hospitals).Error; err != nil {
		return nil, err
	}
	return hospitals, nil
}

// Save creates or updates a hospital
func (r *GormHospitalRepository) Save(ctx context.Context, h *clinic.Hospital) error {
	return r.conn(ctx).Save(h).Error
}

// Count counts hospitals matching the filter
func (r *GormHospitalRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.conn(ctx).Model(&clinic.Hospital{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR license_number ILIKE ?", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyPagination applies page and page size to the query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ clinic.HospitalRepository = (*GormHospitalRepository)(nil)
