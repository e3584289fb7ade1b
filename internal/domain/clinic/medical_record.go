package clinic

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// Prescription describes one prescribed product within a medical record
type Prescription struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	Days      int       `json:"days"`
}

// Prescriptions is stored as a JSONB column on the medical record
type Prescriptions []Prescription

// Value implements driver.Valuer for JSONB storage
func (p Prescriptions) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *Prescriptions) Scan(value interface{}) error {
	if value == nil {
		*p = Prescriptions{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Prescriptions: unsupported type")
	}

	if len(bytes) == 0 {
		*p = Prescriptions{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// MedicalRecord represents the clinical record of one visit.
// Once finalized it becomes read-only.
type MedicalRecord struct {
	shared.HospitalAggregateRoot
	AnimalID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	AppointmentID *uuid.UUID    `gorm:"type:uuid;index"`
	VetID         uuid.UUID     `gorm:"type:uuid;not null;index"`
	Symptoms      string        `gorm:"type:text"`
	Diagnosis     string        `gorm:"type:text"`
	Treatment     string        `gorm:"type:text"`
	Prescriptions Prescriptions `gorm:"type:jsonb"`
	Finalized     bool          `gorm:"not null;default:false"`
	FinalizedAt   *time.Time
	VisitedAt     time.Time `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (MedicalRecord) TableName() string {
	return "medical_records"
}

// NewMedicalRecord creates a new medical record for a visit
func NewMedicalRecord(hospitalID, animalID, vetID uuid.UUID, appointmentID *uuid.UUID, symptoms, diagnosis, treatment string, prescriptions Prescriptions, visitedAt time.Time) (*MedicalRecord, error) {
	if animalID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ANIMAL", "Animal ID cannot be empty")
	}
	if vetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VET", "Vet ID cannot be empty")
	}
	if visitedAt.IsZero() {
		visitedAt = time.Now()
	}
	if prescriptions == nil {
		prescriptions = Prescriptions{}
	}

	return &MedicalRecord{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		AnimalID:              animalID,
		AppointmentID:         appointmentID,
		VetID:                 vetID,
		Symptoms:              symptoms,
		Diagnosis:             diagnosis,
		Treatment:             treatment,
		Prescriptions:         prescriptions,
		VisitedAt:             visitedAt,
	}, nil
}

// Update replaces the clinical fields. Not allowed once finalized.
func (r *MedicalRecord) Update(symptoms, diagnosis, treatment string, prescriptions Prescriptions) error {
	if r.Finalized {
		return shared.NewDomainError("INVALID_STATE", "확정된 진료 기록은 수정할 수 없습니다")
	}

	r.Symptoms = symptoms
	r.Diagnosis = diagnosis
	r.Treatment = treatment
	if prescriptions != nil {
		r.Prescriptions = prescriptions
	}
	r.UpdatedAt = time.Now()

	return nil
}

// Finalize locks the record against further edits
func (r *MedicalRecord) Finalize() error {
	if r.Finalized {
		return shared.NewDomainError("INVALID_STATE", "이미 확정된 진료 기록입니다")
	}
	if r.Diagnosis == "" {
		return shared.NewDomainError("INVALID_RECORD", "진단 내용이 없는 기록은 확정할 수 없습니다")
	}

	now := time.Now()
	r.Finalized = true
	r.FinalizedAt = &now
	r.UpdatedAt = now

	return nil
}
