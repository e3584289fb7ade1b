package clinic

import (
	"time"

	"github.com/vetcare/backend/internal/domain/shared"
)

// Hospital represents a veterinary hospital, the tenant unit of the
// platform. Every business record is scoped to one hospital.
type Hospital struct {
	shared.BaseAggregateRoot
	Name          string `gorm:"type:varchar(200);not null"`
	LicenseNumber string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Phone         string `gorm:"type:varchar(20)"`
	Address       string `gorm:"type:text"`
	Active        bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Hospital) TableName() string {
	return "hospitals"
}

// NewHospital creates a new hospital
func NewHospital(name, licenseNumber, phone, address string) (*Hospital, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "병원 이름을 입력해야 합니다")
	}
	if licenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_LICENSE", "병원 인허가 번호를 입력해야 합니다")
	}

	return &Hospital{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		LicenseNumber:     licenseNumber,
		Phone:             phone,
		Address:           address,
		Active:            true,
	}, nil
}

// Update replaces the hospital's details
func (h *Hospital) Update(name, phone, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "병원 이름을 입력해야 합니다")
	}

	h.Name = name
	h.Phone = phone
	h.Address = address
	h.UpdatedAt = time.Now()

	return nil
}

// Deactivate suspends the hospital
func (h *Hospital) Deactivate() {
	h.Active = false
	h.UpdatedAt = time.Now()
}

// Activate re-enables a suspended hospital
func (h *Hospital) Activate() {
	h.Active = true
	h.UpdatedAt = time.Now()
}
