package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAnimalRepository implements AnimalRepository using GORM
type GormAnimalRepository struct {
	db *gorm.DB
}

// NewGormAnimalRepository creates a new GormAnimalRepository
func NewGormAnimalRepository(db *gorm.DB) *GormAnimalRepository {
	return &GormAnimalRepository{db: db}
}

func (r *GormAnimalRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds an animal by its ID
func (r *GormAnimalRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.Animal, error) {
	var animal clinic.Animal
	if err := r.conn(ctx).First(&animal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &animal, nil
}

// FindByIDForHospital finds an animal by ID within a hospital
func (r *GormAnimalRepository) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*clinic.Animal, error) {
	var animal clinic.Animal
	if err := r.conn(ctx).
		Where("hospital_id = ? AND id = ?", hospitalID, id).
		First(&animal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &animal, nil
}

// FindByGuardian finds animals belonging to a guardian
func (r *GormAnimalRepository) FindByGuardian(ctx context.Context, hospitalID, guardianID uuid.UUID, filter shared.Filter) ([]clinic.Animal, error) {
	var animals []clinic.Animal
	query := r.conn(ctx).Model(&clinic.Animal{}).
		Where("hospital_id = ? AND guardian_id = ?", hospitalID, guardianID)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, AnimalSortFields, "created_at"))

	if err := query.Find(&animals).Error; err != nil {
		return nil, err
	}
	return animals, nil
}

// FindAllForHospital finds animals for a hospital with filtering
func (r *GormAnimalRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]clinic.Animal, error) {
	var animals []clinic.Animal
	query := r.applyFilter(r.conn(ctx).Model(&clinic.Animal{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, AnimalSortFields, "created_at"))

	if err := query.Find(&animals).Error; err != nil {
		return nil, err
	}
	return animals, nil
}

// Save creates or updates an animal
func (r *GormAnimalRepository) Save(ctx context.Context, a *clinic.Animal) error {
	return r.conn(ctx).Save(a).Error
}

// DeleteForHospital deletes an animal within a hospital
func (r *GormAnimalRepository) DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&clinic.Animal{}, "hospital_id = ? AND id = ?", hospitalID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForHospital counts animals for a hospital with optional filters
func (r *GormAnimalRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&clinic.Animal{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByGuardian counts animals belonging to a guardian
func (r *GormAnimalRepository) CountByGuardian(ctx context.Context, hospitalID, guardianID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&clinic.Animal{}).
		Where("hospital_id = ? AND guardian_id = ?", hospitalID, guardianID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAnimalRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR breed ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "guardian_id":
			query = query.Where("guardian_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "species":
			query = query.Where("species = ?", value)
		}
	}
	return query
}

var _ clinic.AnimalRepository = (*GormAnimalRepository)(nil)
