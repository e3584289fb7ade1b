package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/billing"
	"github.com/vetcare/backend/internal/domain/shared"
	"github.com/vetcare/backend/internal/domain/shared/valueobject"
)

// PaymentService handles payment and refund operations.
// The payment record and the invoice balance always move together, so
// every mutation runs inside a single database transaction.
type PaymentService struct {
	paymentRepo    billing.PaymentRepository
	invoiceRepo    billing.InvoiceRepository
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo billing.PaymentRepository, invoiceRepo billing.InvoiceRepository, txManager shared.TransactionManager) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create applies a payment to an invoice. The payment amount must not
// exceed the invoice's outstanding due amount.
func (s *PaymentService) Create(ctx context.Context, hospitalID uuid.UUID, req CreatePaymentRequest) (*PaymentResponse, error) {
	var (
		payment *billing.Payment
		inv     *billing.Invoice
	)

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		inv, err = s.invoiceRepo.FindByIDForHospital(txCtx, hospitalID, req.InvoiceID)
		if err != nil {
			return err
		}

		amount := valueobject.NewMoneyKRW(req.Amount)
		if err := inv.ApplyPayment(amount); err != nil {
			return err
		}

		paymentNumber, err := s.paymentRepo.GeneratePaymentNumber(txCtx, hospitalID)
		if err != nil {
			return err
		}

		payment, err = billing.NewPayment(hospitalID, paymentNumber, inv.ID, amount, req.Method)
		if err != nil {
			return err
		}
		payment.Remark = req.Remark

		if err := s.paymentRepo.Save(txCtx, payment); err != nil {
			return err
		}
		return s.invoiceRepo.SaveWithLock(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, billing.NewPaymentCompletedEvent(payment, inv))

	response := ToPaymentResponse(payment)
	return &response, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, hospitalID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForHospital(ctx, hospitalID, paymentID)
	if err != nil {
		return nil, err
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, hospitalID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := buildPaymentFilter(filter)

	payments, err := s.paymentRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.paymentRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPaymentResponses(payments), total, nil
}

// ListByInvoice retrieves all payments applied to an invoice
func (s *PaymentService) ListByInvoice(ctx context.Context, hospitalID, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.invoiceRepo.FindByIDForHospital(ctx, hospitalID, invoiceID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByInvoice(ctx, hospitalID, invoiceID)
	if err != nil {
		return nil, err
	}

	return ToPaymentResponses(payments), nil
}

// Refund refunds a completed payment and restores the refunded amount
// to the invoice's due amount.
func (s *PaymentService) Refund(ctx context.Context, hospitalID, paymentID uuid.UUID, req RefundPaymentRequest) (*PaymentResponse, error) {
	var (
		payment *billing.Payment
		inv     *billing.Invoice
	)

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		payment, err = s.paymentRepo.FindByIDForHospital(txCtx, hospitalID, paymentID)
		if err != nil {
			return err
		}

		inv, err = s.invoiceRepo.FindByIDForHospital(txCtx, hospitalID, payment.InvoiceID)
		if err != nil {
			return err
		}

		amount := valueobject.NewMoneyKRW(req.Amount)
		if err := payment.Refund(amount, req.Reason); err != nil {
			return err
		}
		if err := inv.ApplyRefund(amount); err != nil {
			return err
		}

		if err := s.paymentRepo.Save(txCtx, payment); err != nil {
			return err
		}
		return s.invoiceRepo.SaveWithLock(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, billing.NewPaymentRefundedEvent(payment, inv))

	response := ToPaymentResponse(payment)
	return &response, nil
}

func (s *PaymentService) publishEvent(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, event)
}

func buildPaymentFilter(filter PaymentListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.InvoiceID != nil {
		domainFilter.Filters["invoice_id"] = *filter.InvoiceID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.Method != nil {
		domainFilter.Filters["method"] = string(*filter.Method)
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	return domainFilter
}
