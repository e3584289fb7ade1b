package clinic

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
)

// AnimalSex represents an animal's sex
type AnimalSex string

const (
	AnimalSexMale    AnimalSex = "MALE"
	AnimalSexFemale  AnimalSex = "FEMALE"
	AnimalSexUnknown AnimalSex = "UNKNOWN"
)

// IsValid checks if the sex value is valid
func (s AnimalSex) IsValid() bool {
	return s == AnimalSexMale || s == AnimalSexFemale || s == AnimalSexUnknown
}

// AnimalStatus represents an animal's registration status
type AnimalStatus string

const (
	AnimalStatusActive      AnimalStatus = "ACTIVE"
	AnimalStatusDeceased    AnimalStatus = "DECEASED"
	AnimalStatusTransferred AnimalStatus = "TRANSFERRED"
)

// IsValid checks if the status is valid
func (s AnimalStatus) IsValid() bool {
	return s == AnimalStatusActive || s == AnimalStatusDeceased || s == AnimalStatusTransferred
}

// String returns the string representation of AnimalStatus
func (s AnimalStatus) String() string {
	return string(s)
}

// Animal represents a patient animal registered at a hospital
type Animal struct {
	shared.HospitalAggregateRoot
	GuardianID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name       string          `gorm:"type:varchar(100);not null"`
	Species    string          `gorm:"type:varchar(50);not null"`
	Breed      string          `gorm:"type:varchar(100)"`
	Sex        AnimalSex       `gorm:"type:varchar(10);not null;default:'UNKNOWN'"`
	BirthDate  *time.Time      `gorm:"index"`
	WeightKg   decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	Neutered   bool            `gorm:"not null;default:false"`
	Status     AnimalStatus    `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Notes      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Animal) TableName() string {
	return "animals"
}

// NewAnimal registers a new animal
func NewAnimal(hospitalID, guardianID uuid.UUID, name, species, breed string, sex AnimalSex, birthDate *time.Time, weightKg decimal.Decimal) (*Animal, error) {
	if guardianID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GUARDIAN", "Guardian ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "동물 이름을 입력해야 합니다")
	}
	if species == "" {
		return nil, shared.NewDomainError("INVALID_SPECIES", "축종을 입력해야 합니다")
	}
	if sex == "" {
		sex = AnimalSexUnknown
	}
	if !sex.IsValid() {
		return nil, shared.NewDomainError("INVALID_SEX", "올바르지 않은 성별입니다")
	}
	if weightKg.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "체중은 음수일 수 없습니다")
	}

	return &Animal{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		GuardianID:            guardianID,
		Name:                  name,
		Species:               species,
		Breed:                 breed,
		Sex:                   sex,
		BirthDate:             birthDate,
		WeightKg:              weightKg,
		Status:                AnimalStatusActive,
	}, nil
}

// Update replaces the animal's mutable fields
func (a *Animal) Update(name, species, breed string, sex AnimalSex, birthDate *time.Time, weightKg decimal.Decimal, neutered bool, notes string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "동물 이름을 입력해야 합니다")
	}
	if species == "" {
		return shared.NewDomainError("INVALID_SPECIES", "축종을 입력해야 합니다")
	}
	if !sex.IsValid() {
		return shared.NewDomainError("INVALID_SEX", "올바르지 않은 성별입니다")
	}
	if weightKg.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "체중은 음수일 수 없습니다")
	}

	a.Name = name
	a.Species = species
	a.Breed = breed
	a.Sex = sex
	a.BirthDate = birthDate
	a.WeightKg = weightKg
	a.Neutered = neutered
	a.Notes = notes
	a.UpdatedAt = time.Now()

	return nil
}

// ChangeStatus transitions the animal's registration status.
// DECEASED is terminal.
func (a *Animal) ChangeStatus(status AnimalStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "올바르지 않은 상태입니다")
	}
	if a.Status == AnimalStatusDeceased {
		return shared.NewDomainError("INVALID_STATE", "폐사 처리된 동물의 상태는 변경할 수 없습니다")
	}

	a.Status = status
	a.UpdatedAt = time.Now()

	return nil
}
