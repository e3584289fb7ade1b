package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID (items preloaded)
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForHospital finds an invoice by ID scoped to a hospital
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*Invoice, error)

	// FindByInvoiceNumber finds an invoice by its number for a hospital
	FindByInvoiceNumber(ctx context.Context, hospitalID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindAllForHospital finds invoices for a hospital with filtering
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindByGuardian finds invoices for a guardian
	FindByGuardian(ctx context.Context, hospitalID, guardianID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice with its items
	Save(ctx context.Context, inv *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, inv *Invoice) error

	// DeleteForHospital deletes an invoice and its items
	DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error

	// CountForHospital counts invoices for a hospital with optional filters
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateInvoiceNumber allocates the next INV-YYYYMMDD-NNNN number.
	// Allocation must be atomic per hospital and date.
	GenerateInvoiceNumber(ctx context.Context, hospitalID uuid.UUID) (string, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIDForHospital finds a payment by ID scoped to a hospital
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*Payment, error)

	// FindByInvoice finds all payments applied to an invoice
	FindByInvoice(ctx context.Context, hospitalID, invoiceID uuid.UUID) ([]Payment, error)

	// FindAllForHospital finds payments for a hospital with filtering
	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, p *Payment) error

	// CountForHospital counts payments for a hospital with optional filters
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)

	// GeneratePaymentNumber allocates the next PAY-YYYYMMDD-NNNN number
	GeneratePaymentNumber(ctx context.Context, hospitalID uuid.UUID) (string, error)
}
