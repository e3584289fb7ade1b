package clinic

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/clinic"
)

// RegisterAnimalRequest is the input for registering a patient animal
type RegisterAnimalRequest struct {
	GuardianID uuid.UUID       `json:"guardian_id"`
	Name       string          `json:"name"`
	Species    string          `json:"species"`
	Breed      string          `json:"breed,omitempty"`
	Sex        clinic.AnimalSex `json:"sex,omitempty"`
	BirthDate  *time.Time      `json:"birth_date,omitempty"`
	WeightKg   decimal.Decimal `json:"weight_kg"`
}

// UpdateAnimalRequest is the input for updating an animal's details
type UpdateAnimalRequest struct {
	Name      string          `json:"name"`
	Species   string          `json:"species"`
	Breed     string          `json:"breed,omitempty"`
	Sex       clinic.AnimalSex `json:"sex"`
	BirthDate *time.Time      `json:"birth_date,omitempty"`
	WeightKg  decimal.Decimal `json:"weight_kg"`
	Neutered  bool            `json:"neutered"`
	Notes     string          `json:"notes,omitempty"`
}

// AnimalListFilter is the filter input for listing animals
type AnimalListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	GuardianID *uuid.UUID
	Status     *clinic.AnimalStatus
	Species    string
}

// AnimalResponse is the API representation of an animal
type AnimalResponse struct {
	ID         uuid.UUID           `json:"id"`
	GuardianID uuid.UUID           `json:"guardian_id"`
	Name       string              `json:"name"`
	Species    string              `json:"species"`
	Breed      string              `json:"breed,omitempty"`
	Sex        clinic.AnimalSex    `json:"sex"`
	BirthDate  *time.Time          `json:"birth_date,omitempty"`
	WeightKg   decimal.Decimal     `json:"weight_kg"`
	Neutered   bool                `json:"neutered"`
	Status     clinic.AnimalStatus `json:"status"`
	Notes      string              `json:"notes,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ScheduleAppointmentRequest is the input for scheduling a visit
type ScheduleAppointmentRequest struct {
	AnimalID    uuid.UUID `json:"animal_id"`
	VetID       uuid.UUID `json:"vet_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason,omitempty"`
}

// RescheduleAppointmentRequest is the input for moving an appointment
type RescheduleAppointmentRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

// ChangeAppointmentStatusRequest is the input for a status transition
type ChangeAppointmentStatusRequest struct {
	Status clinic.AppointmentStatus `json:"status"`
}

// AppointmentListFilter is the filter input for listing appointments
type AppointmentListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	AnimalID *uuid.UUID
	VetID    *uuid.UUID
	Status   *clinic.AppointmentStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// AppointmentResponse is the API representation of an appointment
type AppointmentResponse struct {
	ID          uuid.UUID                `json:"id"`
	AnimalID    uuid.UUID                `json:"animal_id"`
	GuardianID  uuid.UUID                `json:"guardian_id"`
	VetID       uuid.UUID                `json:"vet_id"`
	ScheduledAt time.Time                `json:"scheduled_at"`
	Status      clinic.AppointmentStatus `json:"status"`
	Reason      string                   `json:"reason,omitempty"`
	Notes       string                   `json:"notes,omitempty"`
	CancelledAt *time.Time               `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

// CreateMedicalRecordRequest is the input for recording a visit
type CreateMedicalRecordRequest struct {
	AnimalID      uuid.UUID            `json:"animal_id"`
	AppointmentID *uuid.UUID           `json:"appointment_id,omitempty"`
	VetID         uuid.UUID            `json:"vet_id"`
	Symptoms      string               `json:"symptoms,omitempty"`
	Diagnosis     string               `json:"diagnosis,omitempty"`
	Treatment     string               `json:"treatment,omitempty"`
	Prescriptions clinic.Prescriptions `json:"prescriptions,omitempty"`
	VisitedAt     time.Time            `json:"visited_at"`
}

// UpdateMedicalRecordRequest is the input for revising an unfinalized record
type UpdateMedicalRecordRequest struct {
	Symptoms      string               `json:"symptoms,omitempty"`
	Diagnosis     string               `json:"diagnosis,omitempty"`
	Treatment     string               `json:"treatment,omitempty"`
	Prescriptions clinic.Prescriptions `json:"prescriptions,omitempty"`
}

// MedicalRecordListFilter is the filter input for listing medical records
type MedicalRecordListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	AnimalID *uuid.UUID
	VetID    *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

// MedicalRecordResponse is the API representation of a medical record
type MedicalRecordResponse struct {
	ID            uuid.UUID            `json:"id"`
	AnimalID      uuid.UUID            `json:"animal_id"`
	AppointmentID *uuid.UUID           `json:"appointment_id,omitempty"`
	VetID         uuid.UUID            `json:"vet_id"`
	Symptoms      string               `json:"symptoms,omitempty"`
	Diagnosis     string               `json:"diagnosis,omitempty"`
	Treatment     string               `json:"treatment,omitempty"`
	Prescriptions clinic.Prescriptions `json:"prescriptions"`
	Finalized     bool                 `json:"finalized"`
	FinalizedAt   *time.Time           `json:"finalized_at,omitempty"`
	VisitedAt     time.Time            `json:"visited_at"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ToAnimalResponse converts an animal to its response representation
func ToAnimalResponse(a *clinic.Animal) AnimalResponse {
	return AnimalResponse{
		ID:         a.ID,
		GuardianID: a.GuardianID,
		Name:       a.Name,
		Species:    a.Species,
		Breed:      a.Breed,
		Sex:        a.Sex,
		BirthDate:  a.BirthDate,
		WeightKg:   a.WeightKg,
		Neutered:   a.Neutered,
		Status:     a.Status,
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ToAnimalResponses converts a slice of animals
func ToAnimalResponses(animals []clinic.Animal) []AnimalResponse {
	responses := make([]AnimalResponse, len(animals))
	for i := range animals {
		responses[i] = ToAnimalResponse(&animals[i])
	}
	return responses
}

// ToAppointmentResponse converts an appointment to its response representation
func ToAppointmentResponse(a *clinic.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		AnimalID:    a.AnimalID,
		GuardianID:  a.GuardianID,
		VetID:       a.VetID,
		ScheduledAt: a.ScheduledAt,
		Status:      a.Status,
		Reason:      a.Reason,
		Notes:       a.Notes,
		CancelledAt: a.CancelledAt,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAppointmentResponses converts a slice of appointments
func ToAppointmentResponses(appointments []clinic.Appointment) []AppointmentResponse {
	responses := make([]AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = ToAppointmentResponse(&appointments[i])
	}
	return responses
}

// ToMedicalRecordResponse converts a medical record to its response representation
func ToMedicalRecordResponse(r *clinic.MedicalRecord) MedicalRecordResponse {
	return MedicalRecordResponse{
		ID:            r.ID,
		AnimalID:      r.AnimalID,
		AppointmentID: r.AppointmentID,
		VetID:         r.VetID,
		Symptoms:      r.Symptoms,
		Diagnosis:     r.Diagnosis,
		Treatment:     r.Treatment,
		Prescriptions: r.Prescriptions,
		Finalized:     r.Finalized,
		FinalizedAt:   r.FinalizedAt,
		VisitedAt:     r.VisitedAt,
		CreatedAt:     r.CreatedAt,
	}
}

// ToMedicalRecordResponses converts a slice of medical records
func ToMedicalRecordResponses(records []clinic.MedicalRecord) []MedicalRecordResponse {
	responses := make([]MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = ToMedicalRecordResponse(&records[i])
	}
	return responses
}
