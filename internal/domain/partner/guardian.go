package partner

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{7,20}$`)

// Guardian represents an animal's guardian (owner) registered at a hospital
type Guardian struct {
	shared.HospitalAggregateRoot
	Name    string `gorm:"type:varchar(100);not null"`
	Phone   string `gorm:"type:varchar(20);not null;uniqueIndex:idx_guardian_hospital_phone,priority:2"`
	Email   string `gorm:"type:varchar(200);index"`
	Address string `gorm:"type:text"`
	Notes   string `gorm:"type:text"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Guardian) TableName() string {
	return "guardians"
}

// NewGuardian creates a new guardian
func NewGuardian(hospitalID uuid.UUID, name, phone, email, address string) (*Guardian, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "보호자 이름을 입력해야 합니다")
	}
	if !phonePattern.MatchString(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "올바른 전화번호 형식이 아닙니다")
	}

	return &Guardian{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		Name:                  name,
		Phone:                 phone,
		Email:                 email,
		Address:               address,
		Active:                true,
	}, nil
}

// Update replaces the guardian's contact details
func (g *Guardian) Update(name, phone, email, address, notes string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "보호자 이름을 입력해야 합니다")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "올바른 전화번호 형식이 아닙니다")
	}

	g.Name = name
	g.Phone = phone
	g.Email = email
	g.Address = address
	g.Notes = notes
	g.UpdatedAt = time.Now()

	return nil
}

// Deactivate marks the guardian inactive instead of deleting the record
func (g *Guardian) Deactivate() {
	g.Active = false
	g.UpdatedAt = time.Now()
}

// Activate re-enables an inactive guardian
func (g *Guardian) Activate() {
	g.Active = true
	g.UpdatedAt = time.Now()
}
