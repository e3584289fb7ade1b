package clinic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// HospitalRepository defines the interface for hospital persistence
type HospitalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	FindByLicenseNumber(ctx context.Context, licenseNumber string) (*Hospital, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Hospital, error)
	Save(ctx context.Context, h *Hospital) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AnimalRepository defines the interface for animal persistence
type AnimalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Animal, error)
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*Animal, error)
	FindByGuardian(ctx context.Context, hospitalID, guardianID uuid.UUID, filter shared.Filter) ([]Animal, error)
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]Animal, error)
	Save(ctx context.Context, a *Animal) error
	DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)
	CountByGuardian(ctx context.Context, hospitalID, guardianID uuid.UUID) (int64, error)
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*Appointment, error)
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]Appointment, error)
	FindByAnimal(ctx context.Context, hospitalID, animalID uuid.UUID, filter shared.Filter) ([]Appointment, error)

	// ExistsOverlapping reports whether the vet already has a non-cancelled
	// appointment at the given slot. Used to reject double-booking.
	ExistsOverlapping(ctx context.Context, hospitalID, vetID uuid.UUID, scheduledAt time.Time, excludeID *uuid.UUID) (bool, error)

	Save(ctx context.Context, a *Appointment) error
	DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)
}

// MedicalRecordRepository defines the interface for medical record persistence
type MedicalRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*MedicalRecord, error)
	FindByAnimal(ctx context.Context, hospitalID, animalID uuid.UUID, filter shared.Filter) ([]MedicalRecord, error)
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]MedicalRecord, error)
	Save(ctx context.Context, r *MedicalRecord) error
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)
}
