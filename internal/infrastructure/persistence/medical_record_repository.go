package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMedicalRecordRepository implements MedicalRecordRepository using GORM
type GormMedicalRecordRepository struct {
	db *gorm.DB
}

// NewGormMedicalRecordRepository creates a new GormMedicalRecordRepository
func NewGormMedicalRecordRepository(db *gorm.DB) *GormMedicalRecordRepository {
	return &GormMedicalRecordRepository{db: db}
}

func (r *GormMedicalRecordRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a medical record by its ID
func (r *GormMedicalRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.MedicalRecord, error) {
	var record clinic.MedicalRecord
	if err := r.conn(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByIDForHospital finds a medical record by ID within a hospital
func (r *GormMedicalRecordRepository) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*clinic.MedicalRecord, error) {
	var record clinic.MedicalRecord
	if err := r.conn(ctx).
		Where("hospital_id = ? AND id = ?", hospitalID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByAnimal finds medical records for a specific animal
func (r *GormMedicalRecordRepository) FindByAnimal(ctx context.Context, hospitalID, animalID uuid.UUID, filter shared.Filter) ([]clinic.MedicalRecord, error) {
	var records []clinic.MedicalRecord
	query := r.conn(ctx).Model(&clinic.MedicalRecord{}).
		Where("hospital_id = ? AND animal_id = ?", hospitalID, animalID)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, MedicalRecordSortFields, "visited_at"))

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAllForHospital finds medical records for a hospital with filtering
func (r *GormMedicalRecordRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]clinic.MedicalRecord, error) {
	var records []clinic.MedicalRecord
	query := r.applyFilter(r.conn(ctx).Model(&clinic.MedicalRecord{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, MedicalRecordSortFields, "visited_at"))

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a medical record
func (r *GormMedicalRecordRepository) Save(ctx context.Context, rec *clinic.MedicalRecord) error {
	return r.conn(ctx).Save(rec).Error
}

// CountForHospital counts medical records for a hospital with optional filters
func (r *GormMedicalRecordRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&clinic.MedicalRecord{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMedicalRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("symptoms ILIKE ? OR diagnosis ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "animal_id":
			query = query.Where("animal_id = ?", value)
		case "vet_id":
			query = query.Where("vet_id = ?", value)
		case "start_date":
			query = query.Where("visited_at >= ?", value)
		case "end_date":
			query = query.Where("visited_at <= ?", value)
		}
	}
	return query
}

var _ clinic.MedicalRecordRepository = (*GormMedicalRecordRepository)(nil)
