package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
	"github.com/vetcare/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
	InvoiceStatusRefunded  InvoiceStatus = "REFUNDED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsSettled returns true if the invoice no longer accepts item edits
func (s InvoiceStatus) IsSettled() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled || s == InvoiceStatusRefunded
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusOverdue:
		return true
	}
	return false
}

// InvoiceItem represents a billed line on an invoice
type InvoiceItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description    string          `gorm:"type:varchar(200);not null"`
	ProductID      *uuid.UUID      `gorm:"type:uuid;index"` // Set when the line sells a catalog product
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`  // Percent, 0-100
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Flat discount after the rate
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Quantity * UnitPrice
	FinalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a new invoice line item
func NewInvoiceItem(invoiceID uuid.UUID, description string, productID *uuid.UUID, quantity, unitPrice, discountRate, discountAmount decimal.Decimal) (*InvoiceItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "항목명을 입력해야 합니다")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "수량은 0보다 커야 합니다")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "단가는 음수일 수 없습니다")
	}
	if discountRate.IsNegative() || discountRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "할인율은 0~100 사이여야 합니다")
	}
	if discountAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "할인액은 음수일 수 없습니다")
	}

	now := time.Now()
	item := &InvoiceItem{
		ID:             uuid.New(),
		InvoiceID:      invoiceID,
		Description:    description,
		ProductID:      productID,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		DiscountRate:   discountRate,
		DiscountAmount: discountAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	item.recalculate()

	return item, nil
}

// recalculate recomputes Amount and FinalAmount from the pricing fields.
// FinalAmount = max(0, quantity*unitPrice*(1 - discountRate/100) - discountAmount)
func (i *InvoiceItem) recalculate() {
	i.Amount = i.Quantity.Mul(i.UnitPrice)
	rated := i.Amount.Mul(decimal.NewFromInt(1).Sub(i.DiscountRate.Div(decimal.NewFromInt(100))))
	final := rated.Sub(i.DiscountAmount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	i.FinalAmount = final
}

// Update replaces the item's pricing fields and recomputes its amounts
func (i *InvoiceItem) Update(description string, quantity, unitPrice, discountRate, discountAmount decimal.Decimal) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "항목명을 입력해야 합니다")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "수량은 0보다 커야 합니다")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "단가는 음수일 수 없습니다")
	}
	if discountRate.IsNegative() || discountRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "할인율은 0~100 사이여야 합니다")
	}
	if discountAmount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "할인액은 음수일 수 없습니다")
	}

	i.Description = description
	i.Quantity = quantity
	i.UnitPrice = unitPrice
	i.DiscountRate = discountRate
	i.DiscountAmount = discountAmount
	i.recalculate()
	i.UpdatedAt = time.Now()

	return nil
}

// ItemDiscount returns the total discount applied to this line
// (rate portion plus the flat amount, floored at the line amount).
func (i *InvoiceItem) ItemDiscount() decimal.Decimal {
	d := i.Amount.Sub(i.FinalAmount)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// GetFinalAmountMoney returns the final amount as Money
func (i *InvoiceItem) GetFinalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(i.FinalAmount)
}

// Invoice represents a billing document aggregate root.
// It aggregates line items charged to a guardian for an animal's care and
// tracks payment reconciliation against the due balance.
type Invoice struct {
	shared.HospitalAggregateRoot
	InvoiceNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_hospital_number,priority:2"`
	AnimalID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	GuardianID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items          []InvoiceItem   `gorm:"foreignKey:InvoiceID;references:ID"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Subtotal - DiscountAmount
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DueAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // max(0, TotalAmount - PaidAmount)
	Status         InvoiceStatus   `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	DueDate        *time.Time      `gorm:"index"`
	PaidAt         *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice in DRAFT status
func NewInvoice(hospitalID uuid.UUID, invoiceNumber string, animalID, guardianID uuid.UUID, dueDate *time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if animalID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ANIMAL", "Animal ID cannot be empty")
	}
	if guardianID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GUARDIAN", "Guardian ID cannot be empty")
	}

	inv := &Invoice{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		InvoiceNumber:         invoiceNumber,
		AnimalID:              animalID,
		GuardianID:            guardianID,
		Items:                 make([]InvoiceItem, 0),
		Subtotal:              decimal.Zero,
		DiscountAmount:        decimal.Zero,
		TotalAmount:           decimal.Zero,
		PaidAmount:            decimal.Zero,
		DueAmount:             decimal.Zero,
		Status:                InvoiceStatusDraft,
		DueDate:               dueDate,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// AddItem adds a line item and recomputes the invoice totals.
// Not allowed once the invoice is settled.
func (inv *Invoice) AddItem(description string, productID *uuid.UUID, quantity, unitPrice, discountRate, discountAmount decimal.Decimal) (*InvoiceItem, error) {
	if inv.Status.IsSettled() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("정산 완료된 청구서는 수정할 수 없습니다 (상태: %s)", inv.Status))
	}

	item, err := NewInvoiceItem(inv.ID, description, productID, quantity, unitPrice, discountRate, discountAmount)
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItem updates an existing line item and recomputes the invoice totals
func (inv *Invoice) UpdateItem(itemID uuid.UUID, description string, quantity, unitPrice, discountRate, discountAmount decimal.Decimal) error {
	if inv.Status.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("정산 완료된 청구서는 수정할 수 없습니다 (상태: %s)", inv.Status))
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			if err := inv.Items[idx].Update(description, quantity, unitPrice, discountRate, discountAmount); err != nil {
				return err
			}
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "청구 항목을 찾을 수 없습니다")
}

// RemoveItem removes a line item and recomputes the invoice totals
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("정산 완료된 청구서는 수정할 수 없습니다 (상태: %s)", inv.Status))
	}

	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "청구 항목을 찾을 수 없습니다")
}

// recalculateTotals re-sums all items and rewrites the derived amounts.
// Invariants: TotalAmount = Subtotal - DiscountAmount;
// DueAmount = max(0, TotalAmount - PaidAmount).
func (inv *Invoice) recalculateTotals() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Amount)
		discount = discount.Add(item.ItemDiscount())
	}
	inv.Subtotal = subtotal
	inv.DiscountAmount = discount
	inv.TotalAmount = subtotal.Sub(discount)

	due := inv.TotalAmount.Sub(inv.PaidAmount)
	if due.IsNegative() {
		due = decimal.Zero
	}
	inv.DueAmount = due
}

// ApplyPayment records a completed payment against the due balance.
// The amount must not exceed the current due amount.
func (inv *Invoice) ApplyPayment(amount valueobject.Money) error {
	if !inv.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("결제할 수 없는 청구서 상태입니다 (상태: %s)", inv.Status))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "결제 금액은 0보다 커야 합니다")
	}
	if amount.Amount().GreaterThan(inv.DueAmount) {
		return shared.NewDomainError("AMOUNT_EXCEEDED", "결제 금액이 미수금을 초과합니다")
	}

	inv.PaidAmount = inv.PaidAmount.Add(amount.Amount())
	due := inv.TotalAmount.Sub(inv.PaidAmount)
	if due.IsNegative() {
		due = decimal.Zero
	}
	inv.DueAmount = due

	if inv.DueAmount.LessThanOrEqual(decimal.Zero) {
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
	} else {
		inv.Status = InvoiceStatusPartial
	}

	inv.UpdatedAt = time.Now()

	return nil
}

// ApplyRefund reverses part of the paid amount after a payment refund.
// Status falls back to REFUNDED when nothing remains paid, PARTIAL otherwise.
func (inv *Invoice) ApplyRefund(amount valueobject.Money) error {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "환불 금액은 0보다 커야 합니다")
	}
	if amount.Amount().GreaterThan(inv.PaidAmount) {
		return shared.NewDomainError("AMOUNT_EXCEEDED", "환불 금액이 결제된 금액을 초과합니다")
	}

	inv.PaidAmount = inv.PaidAmount.Sub(amount.Amount())
	due := inv.TotalAmount.Sub(inv.PaidAmount)
	if due.IsNegative() {
		due = decimal.Zero
	}
	inv.DueAmount = due
	inv.PaidAt = nil

	if inv.PaidAmount.LessThanOrEqual(decimal.Zero) {
		inv.Status = InvoiceStatusRefunded
		inv.PaidAmount = decimal.Zero
	} else {
		inv.Status = InvoiceStatusPartial
	}

	inv.UpdatedAt = time.Now()

	return nil
}

// Submit transitions the invoice from DRAFT to PENDING
func (inv *Invoice) Submit() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit invoice in %s status", inv.Status))
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "청구 항목이 없는 청구서는 발행할 수 없습니다")
	}

	inv.Status = InvoiceStatusPending
	inv.UpdatedAt = time.Now()

	return nil
}

// Cancel cancels the invoice (only before any payment has been applied)
func (inv *Invoice) Cancel(reason string) error {
	if inv.Status.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}
	if inv.PaidAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("HAS_PAYMENTS", "결제 내역이 있는 청구서는 취소할 수 없습니다")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "취소 사유를 입력해야 합니다")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.DueAmount = decimal.Zero
	inv.UpdatedAt = now

	return nil
}

// UpdateDetails updates the restricted mutable fields
func (inv *Invoice) UpdateDetails(dueDate *time.Time, notes string) error {
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusRefunded {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update invoice in %s status", inv.Status))
	}

	inv.DueDate = dueDate
	inv.Notes = notes
	inv.UpdatedAt = time.Now()

	return nil
}

// RefreshOverdue marks the invoice OVERDUE when the due date has passed.
// Evaluated lazily on read; there is no background scheduler.
// Returns true when the status changed.
func (inv *Invoice) RefreshOverdue(now time.Time) bool {
	if inv.DueDate == nil {
		return false
	}
	if inv.Status != InvoiceStatusPending && inv.Status != InvoiceStatusPartial {
		return false
	}
	if !now.After(*inv.DueDate) {
		return false
	}

	inv.Status = InvoiceStatusOverdue
	inv.UpdatedAt = now
	return true
}

// HasPayments returns true if any amount has been paid
func (inv *Invoice) HasPayments() bool {
	return inv.PaidAmount.GreaterThan(decimal.Zero)
}

// GetTotalAmountMoney returns the total amount as Money
func (inv *Invoice) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(inv.TotalAmount)
}

// GetDueAmountMoney returns the due amount as Money
func (inv *Invoice) GetDueAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(inv.DueAmount)
}

// GetPaidAmountMoney returns the paid amount as Money
func (inv *Invoice) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(inv.PaidAmount)
}
