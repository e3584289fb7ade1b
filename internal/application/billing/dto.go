package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/billing"
)

// CreateInvoiceRequest is the input for creating an invoice
type CreateInvoiceRequest struct {
	AnimalID   uuid.UUID                `json:"animal_id"`
	GuardianID uuid.UUID                `json:"guardian_id"`
	DueDate    *time.Time               `json:"due_date,omitempty"`
	Notes      string                   `json:"notes,omitempty"`
	Items      []CreateInvoiceItemInput `json:"items"`
	CreatedBy  *uuid.UUID               `json:"-"`
}

// CreateInvoiceItemInput is one line of a new invoice
type CreateInvoiceItemInput struct {
	Description    string          `json:"description"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// UpdateInvoiceRequest is the input for updating invoice details
type UpdateInvoiceRequest struct {
	DueDate *time.Time `json:"due_date,omitempty"`
	Notes   *string    `json:"notes,omitempty"`
	Submit  bool       `json:"submit,omitempty"` // DRAFT -> PENDING
}

// InvoiceItemRequest is the input for adding or updating an invoice item
type InvoiceItemRequest struct {
	Description    string          `json:"description"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// InvoiceListFilter is the filter input for listing invoices
type InvoiceListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	Status     *billing.InvoiceStatus
	AnimalID   *uuid.UUID
	GuardianID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// CreatePaymentRequest is the input for applying a payment
type CreatePaymentRequest struct {
	InvoiceID uuid.UUID             `json:"invoice_id"`
	Amount    decimal.Decimal       `json:"amount"`
	Method    billing.PaymentMethod `json:"method"`
	Remark    string                `json:"remark,omitempty"`
}

// RefundPaymentRequest is the input for refunding a payment
type RefundPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// PaymentListFilter is the filter input for listing payments
type PaymentListFilter struct {
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
	InvoiceID *uuid.UUID
	Status    *billing.PaymentStatus
	Method    *billing.PaymentMethod
	StartDate *time.Time
	EndDate   *time.Time
}

// InvoiceItemResponse is the API representation of an invoice line
type InvoiceItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	Description    string          `json:"description"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Amount         decimal.Decimal `json:"amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

// InvoiceResponse is the API representation of an invoice
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	AnimalID       uuid.UUID             `json:"animal_id"`
	GuardianID     uuid.UUID             `json:"guardian_id"`
	Status         billing.InvoiceStatus `json:"status"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	PaidAmount     decimal.Decimal       `json:"paid_amount"`
	DueAmount      decimal.Decimal       `json:"due_amount"`
	DueDate        *time.Time            `json:"due_date,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Items          []InvoiceItemResponse `json:"items"`
	Version        int                   `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// InvoiceListItemResponse is the compact list representation of an invoice
type InvoiceListItemResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	AnimalID      uuid.UUID             `json:"animal_id"`
	GuardianID    uuid.UUID             `json:"guardian_id"`
	Status        billing.InvoiceStatus `json:"status"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	DueAmount     decimal.Decimal       `json:"due_amount"`
	DueDate       *time.Time            `json:"due_date,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// PaymentResponse is the API representation of a payment
type PaymentResponse struct {
	ID            uuid.UUID             `json:"id"`
	PaymentNumber string                `json:"payment_number"`
	InvoiceID     uuid.UUID             `json:"invoice_id"`
	Amount        decimal.Decimal       `json:"amount"`
	Method        billing.PaymentMethod `json:"method"`
	Status        billing.PaymentStatus `json:"status"`
	RefundAmount  decimal.Decimal       `json:"refund_amount"`
	RefundReason  string                `json:"refund_reason,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	RefundedAt    *time.Time            `json:"refunded_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToInvoiceItemResponse converts a domain invoice item to its API representation
func ToInvoiceItemResponse(item *billing.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:             item.ID,
		Description:    item.Description,
		ProductID:      item.ProductID,
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		DiscountRate:   item.DiscountRate,
		DiscountAmount: item.DiscountAmount,
		Amount:         item.Amount,
		FinalAmount:    item.FinalAmount,
	}
}

// ToInvoiceResponse converts a domain invoice to its API representation
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i := range inv.Items {
		items[i] = ToInvoiceItemResponse(&inv.Items[i])
	}

	return InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		AnimalID:       inv.AnimalID,
		GuardianID:     inv.GuardianID,
		Status:         inv.Status,
		Subtotal:       inv.Subtotal,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		DueAmount:      inv.DueAmount,
		DueDate:        inv.DueDate,
		PaidAt:         inv.PaidAt,
		Notes:          inv.Notes,
		Items:          items,
		Version:        inv.Version,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// ToInvoiceListItemResponses converts domain invoices to their list representation
func ToInvoiceListItemResponses(invoices []billing.Invoice) []InvoiceListItemResponse {
	responses := make([]InvoiceListItemResponse, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		responses[i] = InvoiceListItemResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			AnimalID:      inv.AnimalID,
			GuardianID:    inv.GuardianID,
			Status:        inv.Status,
			TotalAmount:   inv.TotalAmount,
			PaidAmount:    inv.PaidAmount,
			DueAmount:     inv.DueAmount,
			DueDate:       inv.DueDate,
			CreatedAt:     inv.CreatedAt,
		}
	}
	return responses
}

// ToPaymentResponse converts a domain payment to its API representation
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		RefundAmount:  p.RefundAmount,
		RefundReason:  p.RefundReason,
		PaidAt:        p.PaidAt,
		RefundedAt:    p.RefundedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// ToPaymentResponses converts domain payments to API representations
func ToPaymentResponses(payments []billing.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
