package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypePayment = "Payment"
)

// Event type constants
const (
	EventTypeInvoiceCreated   = "billing.invoice.created"
	EventTypePaymentCompleted = "billing.payment.completed"
	EventTypePaymentRefunded  = "billing.payment.refunded"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	AnimalID      uuid.UUID       `json:"animal_id"`
	GuardianID    uuid.UUID       `json:"guardian_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.HospitalID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		AnimalID:        inv.AnimalID,
		GuardianID:      inv.GuardianID,
		TotalAmount:     inv.TotalAmount,
	}
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// PaymentCompletedEvent is raised when a payment settles against an invoice
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	InvoiceStatus InvoiceStatus   `json:"invoice_status"`
}

// NewPaymentCompletedEvent creates a new PaymentCompletedEvent
func NewPaymentCompletedEvent(p *Payment, inv *Invoice) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCompleted, AggregateTypePayment, p.ID, p.HospitalID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Amount:          p.Amount,
		Method:          p.Method,
		InvoiceStatus:   inv.Status,
	}
}

// EventType returns the event type name
func (e *PaymentCompletedEvent) EventType() string {
	return EventTypePaymentCompleted
}

// PaymentRefundedEvent is raised when a payment is refunded
type PaymentRefundedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	RefundAmount  decimal.Decimal `json:"refund_amount"`
	RefundReason  string          `json:"refund_reason"`
	InvoiceStatus InvoiceStatus   `json:"invoice_status"`
}

// NewPaymentRefundedEvent creates a new PaymentRefundedEvent
func NewPaymentRefundedEvent(p *Payment, inv *Invoice) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRefunded, AggregateTypePayment, p.ID, p.HospitalID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		RefundAmount:    p.RefundAmount,
		RefundReason:    p.RefundReason,
		InvoiceStatus:   inv.Status,
	}
}

// EventType returns the event type name
func (e *PaymentRefundedEvent) EventType() string {
	return EventTypePaymentRefunded
}
