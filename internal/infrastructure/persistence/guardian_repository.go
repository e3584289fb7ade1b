package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/partner"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormGuardianRepository implements GuardianRepository using GORM
type GormGuardianRepository struct {
	db *gorm.DB
}

// NewGormGuardianRepository creates a new GormGuardianRepository
func NewGormGuardianRepository(db *gorm.DB) *GormGuardianRepository {
	return &GormGuardianRepository{db: db}
}

func (r *GormGuardianRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a guardian by its ID
func (r *GormGuardianRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Guardian, error) {
	var guardian partner.Guardian
	if err := r.conn(ctx).First(&guardian, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &guardian, nil
}

// FindByIDForHospital finds a guardian by ID within a hospital
func (r *GormGuardianRepository) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*partner.Guardian, error) {
	var guardian partner.Guardian
	if err := r.conn(ctx).
		Where("hospital_id = ? AND id = ?", hospitalID, id).
		First(&guardian).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &guardian, nil
}

// FindByPhone finds a guardian by phone number within a hospital
func (r *GormGuardianRepository) FindByPhone(ctx context.Context, hospitalID uuid.UUID, phone string) (*partner.Guardian, error) {
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "전화번호는 비워 둘 수 없습니다")
	}
	var guardian partner.Guardian
	if err := r.conn(ctx).
		Where("hospital_id = ? AND phone = ?", hospitalID, phone).
		First(&guardian).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &guardian, nil
}

// FindAllForHospital finds guardians for a hospital with filtering
func (r *GormGuardianRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]partner.Guardian, error) {
	var guardians []partner.Guardian
	query := r.applyFilter(r.conn(ctx).Model(&partner.Guardian{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, GuardianSortFields, "created_at"))

	if err := query.Find(&guardians).Error; err != nil {
		return nil, err
	}
	return guardians, nil
}

// Save creates or updates a guardian
func (r *GormGuardianRepository) Save(ctx context.Context, g *partner.Guardian) error {
	return r.conn(ctx).Save(g).Error
}

// DeleteForHospital deletes a guardian within a hospital
func (r *GormGuardianRepository) DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&partner.Guardian{}, "hospital_id = ? AND id = ?", hospitalID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForHospital counts guardians for a hospital with optional filters
func (r *GormGuardianRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&partner.Guardian{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByPhone checks if a guardian with the given phone exists in the hospital
func (r *GormGuardianRepository) ExistsByPhone(ctx context.Context, hospitalID uuid.UUID, phone string) (bool, error) {
	if phone == "" {
		return false, nil
	}
	var count int64
	if err := r.conn(ctx).
		Model(&partner.Guardian{}).
		Where("hospital_id = ? AND phone = ?", hospitalID, phone).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormGuardianRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}
	return query
}

var _ partner.GuardianRepository = (*GormGuardianRepository)(nil)
