package billing

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/backend/internal/domain/billing"
	"github.com/vetcare/backend/internal/domain/shared"
)

// In-memory fakes. The repositories key by ID and ignore filters beyond
// what the tests exercise; the transaction manager just runs the function.

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*billing.Invoice
	saveErr  error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*billing.Invoice)}
}

func (r *fakeInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "청구서를 찾을 수 없습니다")
	}
	return inv, nil
}

func (r *fakeInvoiceRepo) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*billing.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.HospitalID != hospitalID {
		return nil, shared.NewDomainError("NOT_FOUND", "청구서를 찾을 수 없습니다")
	}
	return inv, nil
}

func (r *fakeInvoiceRepo) FindByInvoiceNumber(ctx context.Context, hospitalID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.HospitalID == hospitalID && inv.InvoiceNumber == invoiceNumber {
			return inv, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "청구서를 찾을 수 없습니다")
}

func (r *fakeInvoiceRepo) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var out []billing.Invoice
	for _, inv := range r.invoices {
		if inv.HospitalID == hospitalID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) FindByGuardian(ctx context.Context, hospitalID, guardianID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) Save(ctx context.Context, inv *billing.Invoice) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *fakeInvoiceRepo) SaveWithLock(ctx context.Context, inv *billing.Invoice) error {
	return r.Save(ctx, inv)
}

func (r *fakeInvoiceRepo) DeleteForHospital(ctx context.Context, hospitalID, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	return int64(len(r.invoices)), nil
}

func (r *fakeInvoiceRepo) GenerateInvoiceNumber(ctx context.Context, hospitalID uuid.UUID) (string, error) {
	return fmt.Sprintf("INV-20260829-%04d", len(r.invoices)+1), nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*billing.Payment
	seq      int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*billing.Payment)}
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "결제를 찾을 수 없습니다")
	}
	return p, nil
}

func (r *fakePaymentRepo) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*billing.Payment, error) {
	p, ok := r.payments[id]
	if !ok || p.HospitalID != hospitalID {
		return nil, shared.NewDomainError("NOT_FOUND", "결제를 찾을 수 없습니다")
	}
	return p, nil
}

func (r *fakePaymentRepo) FindByInvoice(ctx context.Context, hospitalID, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var out []billing.Payment
	for _, p := range r.payments {
		if p.HospitalID == hospitalID && p.InvoiceID == invoiceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]billing.Payment, error) {
	var out []billing.Payment
	for _, p := range r.payments {
		if p.HospitalID == hospitalID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) Save(ctx context.Context, p *billing.Payment) error {
	r.payments[p.ID] = p
	return nil
}

func (r *fakePaymentRepo) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	for _, p := range r.payments {
		if p.HospitalID == hospitalID {
			count++
		}
	}
	return count, nil
}

func (r *fakePaymentRepo) GeneratePaymentNumber(ctx context.Context, hospitalID uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("PAY-20260829-%04d", r.seq), nil
}

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func setupPaymentService(t *testing.T) (*PaymentService, *fakeInvoiceRepo, *fakePaymentRepo, *capturingPublisher, uuid.UUID, *billing.Invoice) {
	t.Helper()
	hospitalID := uuid.New()

	inv, err := billing.NewInvoice(hospitalID, "INV-20260829-0001", uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	_, err = inv.AddItem("진료비", nil,
		decimal.NewFromInt(1), decimal.NewFromInt(30000), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, inv.Submit())

	invoiceRepo := newFakeInvoiceRepo()
	invoiceRepo.invoices[inv.ID] = inv
	paymentRepo := newFakePaymentRepo()
	publisher := &capturingPublisher{}

	svc := NewPaymentService(paymentRepo, invoiceRepo, fakeTxManager{})
	svc.SetEventPublisher(publisher)

	return svc, invoiceRepo, paymentRepo, publisher, hospitalID, inv
}

func TestPaymentServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("payment settles the invoice and publishes an event", func(t *testing.T) {
		svc, _, paymentRepo, publisher, hospitalID, inv := setupPaymentService(t)

		resp, err := svc.Create(ctx, hospitalID, CreatePaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(30000),
			Method:    billing.PaymentMethodCard,
		})
		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatusCompleted, resp.Status)
		assert.Equal(t, "PAY-20260829-0001", resp.PaymentNumber)

		assert.Equal(t, billing.InvoiceStatusPaid, inv.Status)
		assert.Len(t, paymentRepo.payments, 1)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, billing.EventTypePaymentCompleted, publisher.events[0].EventType())
	})

	t.Run("partial payment leaves the invoice partial", func(t *testing.T) {
		svc, _, _, _, hospitalID, inv := setupPaymentService(t)

		_, err := svc.Create(ctx, hospitalID, CreatePaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(10000),
			Method:    billing.PaymentMethodCash,
		})
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPartial, inv.Status)
		assert.Equal(t, int64(20000), inv.DueAmount.IntPart())
	})

	t.Run("overpayment rolls back without creating a payment", func(t *testing.T) {
		svc, _, paymentRepo, publisher, hospitalID, inv := setupPaymentService(t)

		_, err := svc.Create(ctx, hospitalID, CreatePaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(30001),
			Method:    billing.PaymentMethodCard,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "AMOUNT_EXCEEDED", domainErr.Code)
		assert.Empty(t, paymentRepo.payments)
		assert.Empty(t, publisher.events)
	})

	t.Run("unknown invoice rejected", func(t *testing.T) {
		svc, _, _, _, hospitalID, _ := setupPaymentService(t)

		_, err := svc.Create(ctx, hospitalID, CreatePaymentRequest{
			InvoiceID: uuid.New(),
			Amount:    decimal.NewFromInt(1000),
			Method:    billing.PaymentMethodCard,
		})
		assert.Error(t, err)
	})

	t.Run("invoice of another hospital not visible", func(t *testing.T) {
		svc, _, _, _, _, inv := setupPaymentService(t)

		_, err := svc.Create(ctx, uuid.New(), CreatePaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(1000),
			Method:    billing.PaymentMethodCard,
		})
		assert.Error(t, err)
	})
}

func TestPaymentServiceRefund(t *testing.T) {
	ctx := context.Background()

	pay := func(t *testing.T, svc *PaymentService, hospitalID uuid.UUID, invoiceID uuid.UUID, amount int64) uuid.UUID {
		t.Helper()
		resp, err := svc.Create(ctx, hospitalID, CreatePaymentRequest{
			InvoiceID: invoiceID,
			Amount:    decimal.NewFromInt(amount),
			Method:    billing.PaymentMethodCard,
		})
		require.NoError(t, err)
		return resp.ID
	}

	t.Run("refund restores the invoice due amount", func(t *testing.T) {
		svc, _, _, publisher, hospitalID, inv := setupPaymentService(t)
		paymentID := pay(t, svc, hospitalID, inv.ID, 30000)

		resp, err := svc.Refund(ctx, hospitalID, paymentID, RefundPaymentRequest{
			Amount: decimal.NewFromInt(30000),
			Reason: "진료 취소",
		})
		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatusRefunded, resp.Status)

		assert.Equal(t, billing.InvoiceStatusRefunded, inv.Status)
		assert.Equal(t, int64(30000), inv.DueAmount.IntPart())

		require.Len(t, publisher.events, 2)
		assert.Equal(t, billing.EventTypePaymentRefunded, publisher.events[1].EventType())
	})

	t.Run("refund beyond payment amount rejected", func(t *testing.T) {
		svc, _, _, _, hospitalID, inv := setupPaymentService(t)
		paymentID := pay(t, svc, hospitalID, inv.ID, 30000)

		_, err := svc.Refund(ctx, hospitalID, paymentID, RefundPaymentRequest{
			Amount: decimal.NewFromInt(40000),
			Reason: "진료 취소",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "AMOUNT_EXCEEDED", domainErr.Code)
	})

	t.Run("refund of unknown payment rejected", func(t *testing.T) {
		svc, _, _, _, hospitalID, _ := setupPaymentService(t)

		_, err := svc.Refund(ctx, hospitalID, uuid.New(), RefundPaymentRequest{
			Amount: decimal.NewFromInt(1000),
			Reason: "진료 취소",
		})
		assert.Error(t, err)
	})
}

func TestPaymentServiceListByInvoice(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, hospitalID, inv := setupPaymentService(t)

	_, err := svc.Create(ctx, hospitalID, CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(10000),
		Method:    billing.PaymentMethodCash,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, hospitalID, CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(20000),
		Method:    billing.PaymentMethodCard,
	})
	require.NoError(t, err)

	payments, err := svc.ListByInvoice(ctx, hospitalID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	_, err = svc.ListByInvoice(ctx, hospitalID, uuid.New())
	assert.Error(t, err)
}
