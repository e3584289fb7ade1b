package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/backend/internal/domain/shared"
	"github.com/vetcare/backend/internal/domain/shared/valueobject"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), "INV-20260829-0001", uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft invoice with zero totals", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.Subtotal.IsZero())
		assert.True(t, inv.TotalAmount.IsZero())
		assert.True(t, inv.DueAmount.IsZero())
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "", uuid.New(), uuid.New(), nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INVOICE_NUMBER", domainErr.Code)
	})

	t.Run("rejects nil animal", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-20260829-0001", uuid.Nil, uuid.New(), nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil guardian", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-20260829-0001", uuid.New(), uuid.Nil, nil)
		assert.Error(t, err)
	})
}

func TestInvoiceAddItem(t *testing.T) {
	t.Run("recalculates totals with rate discount", func(t *testing.T) {
		inv := newTestInvoice(t)

		// 2 x 10000 with 10% discount: amount 20000, discount 2000, final 18000
		_, err := inv.AddItem("진료비", nil,
			decimal.NewFromInt(2), decimal.NewFromInt(10000),
			decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)

		assert.Equal(t, int64(20000), inv.Subtotal.IntPart())
		assert.Equal(t, int64(2000), inv.DiscountAmount.IntPart())
		assert.Equal(t, int64(18000), inv.TotalAmount.IntPart())
		assert.Equal(t, int64(18000), inv.DueAmount.IntPart())
	})

	t.Run("flat discount applies after rate", func(t *testing.T) {
		inv := newTestInvoice(t)

		// 1 x 10000 with 10% plus 1000 flat: final 8000
		item, err := inv.AddItem("예방접종", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(10000),
			decimal.NewFromInt(10), decimal.NewFromInt(1000))
		require.NoError(t, err)
		assert.Equal(t, int64(8000), item.FinalAmount.IntPart())
	})

	t.Run("final amount floors at zero", func(t *testing.T) {
		inv := newTestInvoice(t)

		item, err := inv.AddItem("샘플", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(1000),
			decimal.Zero, decimal.NewFromInt(5000))
		require.NoError(t, err)
		assert.True(t, item.FinalAmount.IsZero())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("진료비", nil,
			decimal.Zero, decimal.NewFromInt(10000), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects discount rate above 100", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("진료비", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(10000),
			decimal.NewFromInt(101), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects edits on settled invoice", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("진료비", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(18000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyKRWFromInt(18000)))
		require.Equal(t, InvoiceStatusPaid, inv.Status)

		_, err = inv.AddItem("추가 진료비", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(1000), decimal.Zero, decimal.Zero)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestInvoiceUpdateAndRemoveItem(t *testing.T) {
	inv := newTestInvoice(t)
	item, err := inv.AddItem("진료비", nil,
		decimal.NewFromInt(2), decimal.NewFromInt(10000), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	t.Run("update recalculates totals", func(t *testing.T) {
		err := inv.UpdateItem(item.ID, "진료비", decimal.NewFromInt(3), decimal.NewFromInt(10000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, int64(30000), inv.TotalAmount.IntPart())
	})

	t.Run("update unknown item fails", func(t *testing.T) {
		err := inv.UpdateItem(uuid.New(), "진료비", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ITEM_NOT_FOUND", domainErr.Code)
	})

	t.Run("remove zeroes totals", func(t *testing.T) {
		require.NoError(t, inv.RemoveItem(item.ID))
		assert.Empty(t, inv.Items)
		assert.True(t, inv.TotalAmount.IsZero())
		assert.True(t, inv.DueAmount.IsZero())
	})
}

func TestInvoiceSubmit(t *testing.T) {
	t.Run("draft with items becomes pending", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("진료비", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(10000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, inv.Submit())
		assert.Equal(t, InvoiceStatusPending, inv.Status)
	})

	t.Run("empty invoice cannot be submitted", func(t *testing.T) {
		inv := newTestInvoice(t)
		err := inv.Submit()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_ITEMS", domainErr.Code)
	})

	t.Run("cannot submit twice", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("진료비", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(10000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, inv.Submit())
		assert.Error(t, inv.Submit())
	})
}

func TestInvoiceApplyPayment(t *testing.T) {
	setup := func(t *testing.T) *Invoice {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("진료비", nil,
			decimal.NewFromInt(2), decimal.NewFromInt(10000),
			decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, inv.Submit())
		return inv
	}

	t.Run("full payment settles the invoice", func(t *testing.T) {
		inv := setup(t)
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyKRWFromInt(18000)))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.DueAmount.IsZero())
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("partial payment leaves balance", func(t *testing.T) {
		inv := setup(t)
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyKRWFromInt(10000)))
		assert.Equal(t, InvoiceStatusPartial, inv.Status)
		assert.Equal(t, int64(8000), inv.DueAmount.IntPart())
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		inv := setup(t)
		err := inv.ApplyPayment(valueobject.NewMoneyKRWFromInt(18001))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "AMOUNT_EXCEEDED", domainErr.Code)
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		inv := setup(t)
		assert.Error(t, inv.ApplyPayment(valueobject.ZeroKRW()))
	})

	t.Run("cancelled invoice rejects payment", func(t *testing.T) {
		inv := setup(t)
		require.NoError(t, inv.Cancel("보호자 요청"))
		err := inv.ApplyPayment(valueobject.NewMoneyKRWFromInt(1000))
		assert.Error(t, err)
	})
}

func TestInvoiceApplyRefund(t *testing.T) {
	setup := func(t *testing.T) *Invoice {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("진료비", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(18000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, inv.Submit())
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyKRWFromInt(18000)))
		return inv
	}

	t.Run("partial refund reopens the balance", func(t *testing.T) {
		inv := setup(t)
		require.NoError(t, inv.ApplyRefund(valueobject.NewMoneyKRWFromInt(5000)))
		assert.Equal(t, InvoiceStatusPartial, inv.Status)
		assert.Equal(t, int64(13000), inv.PaidAmount.IntPart())
		assert.Equal(t, int64(5000), inv.DueAmount.IntPart())
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("full refund marks invoice refunded", func(t *testing.T) {
		inv := setup(t)
		require.NoError(t, inv.ApplyRefund(valueobject.NewMoneyKRWFromInt(18000)))
		assert.Equal(t, InvoiceStatusRefunded, inv.Status)
		assert.True(t, inv.PaidAmount.IsZero())
		assert.Equal(t, int64(18000), inv.DueAmount.IntPart())
	})

	t.Run("refund above paid amount rejected", func(t *testing.T) {
		inv := setup(t)
		err := inv.ApplyRefund(valueobject.NewMoneyKRWFromInt(20000))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "AMOUNT_EXCEEDED", domainErr.Code)
	})
}

func TestInvoiceCancel(t *testing.T) {
	t.Run("cancel requires a reason", func(t *testing.T) {
		inv := newTestInvoice(t)
		err := inv.Cancel("")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
	})

	t.Run("cancel rejected once paid", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("진료비", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(10000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyKRWFromInt(5000)))

		err = inv.Cancel("보호자 요청")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "HAS_PAYMENTS", domainErr.Code)
	})

	t.Run("cancel zeroes due amount", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("진료비", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(10000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, inv.Cancel("중복 발행"))
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		assert.True(t, inv.DueAmount.IsZero())
		assert.Equal(t, "중복 발행", inv.CancelReason)
		assert.NotNil(t, inv.CancelledAt)
	})
}

func TestInvoiceRefreshOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	t.Run("pending past due becomes overdue", func(t *testing.T) {
		inv, err := NewInvoice(uuid.New(), "INV-20260829-0001", uuid.New(), uuid.New(), &past)
		require.NoError(t, err)
		_, err = inv.AddItem("진료비", nil,
			decimal.NewFromInt(1), decimal.NewFromInt(10000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, inv.Submit())

		assert.True(t, inv.RefreshOverdue(now))
		assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	})

	t.Run("not yet due keeps status", func(t *testing.T) {
		inv, err := NewInvoice(uuid.New(), "INV-20260829-0001", uuid.New(), uuid.New(), &future)
		require.NoError(t, err)

		assert.False(t, inv.RefreshOverdue(now))
	})

	t.Run("no due date is never overdue", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.False(t, inv.RefreshOverdue(now))
	})

	t.Run("draft is not marked overdue", func(t *testing.T) {
		inv, err := NewInvoice(uuid.New(), "INV-20260829-0001", uuid.New(), uuid.New(), &past)
		require.NoError(t, err)
		assert.False(t, inv.RefreshOverdue(now))
	})
}

func TestInvoiceStatusHelpers(t *testing.T) {
	assert.True(t, InvoiceStatusPaid.IsSettled())
	assert.True(t, InvoiceStatusCancelled.IsSettled())
	assert.True(t, InvoiceStatusRefunded.IsSettled())
	assert.False(t, InvoiceStatusPartial.IsSettled())

	assert.True(t, InvoiceStatusOverdue.CanApplyPayment())
	assert.False(t, InvoiceStatusPaid.CanApplyPayment())

	assert.True(t, InvoiceStatus("DRAFT").IsValid())
	assert.False(t, InvoiceStatus("UNKNOWN").IsValid())
}

// Version bumps belong to the repository; domain mutations leaving Version
// untouched is what keeps "WHERE version = ?" aligned with the loaded row.
func TestInvoiceMutationsLeaveVersion(t *testing.T) {
	inv := newTestInvoice(t)
	inv.Version = 5

	_, err := inv.AddItem("진료비", nil,
		decimal.NewFromInt(1), decimal.NewFromInt(10000), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, inv.Submit())
	require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyKRWFromInt(4000)))
	require.NoError(t, inv.ApplyRefund(valueobject.NewMoneyKRWFromInt(1000)))

	assert.Equal(t, 5, inv.Version)
}
