package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// Supplier represents a goods supplier for a hospital
type Supplier struct {
	shared.HospitalAggregateRoot
	Name           string `gorm:"type:varchar(200);not null"`
	BusinessNumber string `gorm:"type:varchar(50);uniqueIndex:idx_supplier_hospital_bizno,priority:2"`
	ContactName    string `gorm:"type:varchar(100)"`
	Phone          string `gorm:"type:varchar(20)"`
	Email          string `gorm:"type:varchar(200)"`
	Address        string `gorm:"type:text"`
	Notes          string `gorm:"type:text"`
	Active         bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(hospitalID uuid.UUID, name, businessNumber, contactName, phone, email, address string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "공급업체 이름을 입력해야 합니다")
	}

	return &Supplier{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		Name:                  name,
		BusinessNumber:        businessNumber,
		ContactName:           contactName,
		Phone:                 phone,
		Email:                 email,
		Address:               address,
		Active:                true,
	}, nil
}

// Update replaces the supplier's details
func (s *Supplier) Update(name, businessNumber, contactName, phone, email, address, notes string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "공급업체 이름을 입력해야 합니다")
	}

	s.Name = name
	s.BusinessNumber = businessNumber
	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.Notes = notes
	s.UpdatedAt = time.Now()

	return nil
}

// Deactivate marks the supplier inactive instead of deleting the record
func (s *Supplier) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
}

// Activate re-enables an inactive supplier
func (s *Supplier) Activate() {
	s.Active = true
	s.UpdatedAt = time.Now()
}
