package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds an appointment by its ID
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.Appointment, error) {
	var appointment clinic.Appointment
	if err := r.conn(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// FindByIDForHospital finds an appointment by ID within a hospital
func (r *GormAppointmentRepository) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*clinic.Appointment, error) {
	var appointment clinic.Appointment
	if err := r.conn(ctx).
		Where("hospital_id = ? AND id = ?", hospitalID, id).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// FindAllForHospital finds appointments for a hospital with filtering
func (r *GormAppointmentRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]clinic.Appointment, error) {
	var appointments []clinic.Appointment
	query := r.applyFilter(r.conn(ctx).Model(&clinic.Appointment{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, AppointmentSortFields, "scheduled_at"))

	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindByAnimal finds appointments for a specific animal
func (r *GormAppointmentRepository) FindByAnimal(ctx context.Context, hospitalID, animalID uuid.UUID, filter shared.Filter) ([]clinic.Appointment, error) {
	var appointments []clinic.Appointment
	query := r.conn(ctx).Model(&clinic.Appointment{}).
		Where("hospital_id = ? AND animal_id = ?", hospitalID, animalID)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, AppointmentSortFields, "scheduled_at"))

	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// ExistsOverlapping reports whether the vet already has a non-cancelled
// appointment at the given slot
func (r *GormAppointmentRepository) ExistsOverlapping(ctx context.Context, hospitalID, vetID uuid.UUID, scheduledAt time.Time, excludeID *uuid.UUID) (bool, error) {
	query := r.conn(ctx).Model(&clinic.Appointment{}).
		Where("hospital_id = ? AND vet_id = ? AND scheduled_at = ?", hospitalID, vetID, scheduledAt).
		Where("status NOT IN ?", []clinic.AppointmentStatus{
			clinic.AppointmentStatusCancelled,
			clinic.AppointmentStatusNoShow,
		})
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an appointment
func (r *GormAppointmentRepository) Save(ctx context.Context, a *clinic.Appointment) error {
	return r.conn(ctx).Save(a).Error
}

// DeleteForHospital deletes an appointment within a hospital
func (r *GormAppointmentRepository) DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&clinic.Appointment{}, "hospital_id = ? AND id = ?", hospitalID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForHospital counts appointments for a hospital with optional filters
func (r *GormAppointmentRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&clinic.Appointment{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAppointmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("reason ILIKE ?", pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "animal_id":
			query = query.Where("animal_id = ?", value)
		case "vet_id":
			query = query.Where("vet_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "start_date":
			query = query.Where("scheduled_at >= ?", value)
		case "end_date":
			query = query.Where("scheduled_at <= ?", value)
		}
	}
	return query
}

var _ clinic.AppointmentRepository = (*GormAppointmentRepository)(nil)
