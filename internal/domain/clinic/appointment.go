package clinic

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow     AppointmentStatus = "NO_SHOW"
)

// IsValid checks if the status is a valid AppointmentStatus
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// String returns the string representation of AppointmentStatus
func (s AppointmentStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states that allow no further transitions
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled || s == AppointmentStatusNoShow
}

// CanTransitionTo checks if the status can transition to the target status
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled:
		return target == AppointmentStatusConfirmed || target == AppointmentStatusInProgress ||
			target == AppointmentStatusCancelled || target == AppointmentStatusNoShow
	case AppointmentStatusConfirmed:
		return target == AppointmentStatusInProgress || target == AppointmentStatusCancelled ||
			target == AppointmentStatusNoShow
	case AppointmentStatusInProgress:
		return target == AppointmentStatusCompleted
	}
	return false
}

// Appointment represents a scheduled visit of an animal with a vet
type Appointment struct {
	shared.HospitalAggregateRoot
	AnimalID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	GuardianID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	VetID       uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointment_vet_time,priority:1"`
	ScheduledAt time.Time         `gorm:"type:timestamptz;not null;index:idx_appointment_vet_time,priority:2"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED'"`
	Reason      string            `gorm:"type:varchar(500)"`
	Notes       string            `gorm:"type:text"`
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (Appointment) TableName() string {
	return "appointments"
}

// NewAppointment schedules a new appointment
func NewAppointment(hospitalID, animalID, guardianID, vetID uuid.UUID, scheduledAt time.Time, reason string) (*Appointment, error) {
	if animalID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ANIMAL", "Animal ID cannot be empty")
	}
	if guardianID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GUARDIAN", "Guardian ID cannot be empty")
	}
	if vetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VET", "Vet ID cannot be empty")
	}
	if scheduledAt.Before(time.Now()) {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "지난 시간으로는 예약할 수 없습니다")
	}

	return &Appointment{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		AnimalID:              animalID,
		GuardianID:            guardianID,
		VetID:                 vetID,
		ScheduledAt:           scheduledAt,
		Status:                AppointmentStatusScheduled,
		Reason:                reason,
	}, nil
}

// ChangeStatus transitions the appointment through its lifecycle
func (a *Appointment) ChangeStatus(target AppointmentStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "올바르지 않은 예약 상태입니다")
	}
	if !a.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("예약 상태를 %s에서 %s(으)로 변경할 수 없습니다", a.Status, target))
	}

	a.Status = target
	if target == AppointmentStatusCancelled {
		now := time.Now()
		a.CancelledAt = &now
	}
	a.UpdatedAt = time.Now()

	return nil
}

// Reschedule moves the appointment to a new time slot
func (a *Appointment) Reschedule(scheduledAt time.Time) error {
	if a.Status.IsTerminal() || a.Status == AppointmentStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("예약을 변경할 수 없는 상태입니다 (상태: %s)", a.Status))
	}
	if scheduledAt.Before(time.Now()) {
		return shared.NewDomainError("INVALID_SCHEDULE", "지난 시간으로는 예약할 수 없습니다")
	}

	a.ScheduledAt = scheduledAt
	a.Status = AppointmentStatusScheduled
	a.UpdatedAt = time.Now()

	return nil
}

// SetNotes records visit notes
func (a *Appointment) SetNotes(notes string) {
	a.Notes = notes
	a.UpdatedAt = time.Now()
}
