package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
	"github.com/vetcare/backend/internal/domain/shared/valueobject"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodMobile   PaymentMethod = "MOBILE"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodMobile:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Payment represents a payment applied to an invoice
type Payment struct {
	shared.HospitalAggregateRoot
	PaymentNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_payment_hospital_number,priority:2"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RefundAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RefundReason  string          `gorm:"type:varchar(500)"`
	PaidAt        *time.Time
	RefundedAt    *time.Time
	Remark        string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment in COMPLETED status.
// Payments settle at the counter, so creation and completion coincide.
func NewPayment(hospitalID uuid.UUID, paymentNumber string, invoiceID uuid.UUID, amount valueobject.Money, method PaymentMethod) (*Payment, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "결제 금액은 0보다 커야 합니다")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "지원하지 않는 결제 수단입니다")
	}

	now := time.Now()
	p := &Payment{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		PaymentNumber:         paymentNumber,
		InvoiceID:             invoiceID,
		Amount:                amount.Amount(),
		Method:                method,
		Status:                PaymentStatusCompleted,
		RefundAmount:          decimal.Zero,
		PaidAt:                &now,
	}

	return p, nil
}

// Refund marks the payment refunded.
// The refund amount must not exceed the original payment amount.
func (p *Payment) Refund(amount valueobject.Money, reason string) error {
	if p.Status != PaymentStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("완료된 결제만 환불할 수 있습니다 (상태: %s)", p.Status))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "환불 금액은 0보다 커야 합니다")
	}
	if amount.Amount().GreaterThan(p.Amount) {
		return shared.NewDomainError("AMOUNT_EXCEEDED", "환불 금액이 원 결제 금액을 초과합니다")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "환불 사유를 입력해야 합니다")
	}

	now := time.Now()
	p.Status = PaymentStatusRefunded
	p.RefundAmount = amount.Amount()
	p.RefundReason = reason
	p.RefundedAt = &now
	p.UpdatedAt = now

	return nil
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(p.Amount)
}

// GetRefundAmountMoney returns the refunded amount as Money
func (p *Payment) GetRefundAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(p.RefundAmount)
}
