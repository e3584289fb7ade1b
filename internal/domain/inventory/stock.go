package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
)

// InventoryStock represents the current quantity of one product lot at a
// hospital. It is maintained exclusively as the running total of its
// inventory transactions.
type InventoryStock struct {
	shared.HospitalAggregateRoot
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_hospital_product_lot,priority:2"`
	LotNumber        string          `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_stock_hospital_product_lot,priority:3"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpirationDate   *time.Time      `gorm:"index"`
	Location         string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (InventoryStock) TableName() string {
	return "inventory_stocks"
}

// NewInventoryStock creates an empty stock row for a (hospital, product, lot)
func NewInventoryStock(hospitalID, productID uuid.UUID, lotNumber string, expirationDate *time.Time) (*InventoryStock, error) {
	if hospitalID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_HOSPITAL", "Hospital ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &InventoryStock{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		ProductID:             productID,
		LotNumber:             lotNumber,
		Quantity:              decimal.Zero,
		ReservedQuantity:      decimal.Zero,
		ExpirationDate:        expirationDate,
	}, nil
}

// AvailableQuantity returns quantity minus reserved quantity
func (s *InventoryStock) AvailableQuantity() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}

// Apply moves the stock quantity by a signed delta. An outbound delta that
// would drive the quantity negative is rejected without mutating the stock.
func (s *InventoryStock) Apply(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "수량은 0일 수 없습니다")
	}

	next := s.Quantity.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "재고가 부족합니다")
	}

	s.Quantity = next
	s.UpdatedAt = time.Now()

	return nil
}

// Reserve holds quantity against pending work (e.g. a scheduled treatment)
func (s *InventoryStock) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "예약 수량은 0보다 커야 합니다")
	}
	if quantity.GreaterThan(s.AvailableQuantity()) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "재고가 부족합니다")
	}

	s.ReservedQuantity = s.ReservedQuantity.Add(quantity)
	s.UpdatedAt = time.Now()

	return nil
}

// Release returns previously reserved quantity to the available pool
func (s *InventoryStock) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "해제 수량은 0보다 커야 합니다")
	}
	if quantity.GreaterThan(s.ReservedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "예약된 수량보다 많이 해제할 수 없습니다")
	}

	s.ReservedQuantity = s.ReservedQuantity.Sub(quantity)
	s.UpdatedAt = time.Now()

	return nil
}

// SetLocation records where the lot is stored
func (s *InventoryStock) SetLocation(location string) {
	s.Location = location
	s.UpdatedAt = time.Now()
}

// IsExpired reports whether the lot is past its expiration date
func (s *InventoryStock) IsExpired(now time.Time) bool {
	return s.ExpirationDate != nil && now.After(*s.ExpirationDate)
}
