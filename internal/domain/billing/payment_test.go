package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/backend/internal/domain/shared"
	"github.com/vetcare/backend/internal/domain/shared/valueobject"
)

func newTestPayment(t *testing.T) *Payment {
	t.Helper()
	p, err := NewPayment(uuid.New(), "PAY-20260829-0001", uuid.New(),
		valueobject.NewMoneyKRWFromInt(18000), PaymentMethodCard)
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("counter payment is completed immediately", func(t *testing.T) {
		p := newTestPayment(t)
		assert.Equal(t, PaymentStatusCompleted, p.Status)
		assert.Equal(t, int64(18000), p.Amount.IntPart())
		assert.True(t, p.RefundAmount.IsZero())
		assert.NotNil(t, p.PaidAt)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name     string
			number   string
			invoice  uuid.UUID
			amount   valueobject.Money
			method   PaymentMethod
			wantCode string
		}{
			{"empty payment number", "", uuid.New(), valueobject.NewMoneyKRWFromInt(1000), PaymentMethodCash, "INVALID_PAYMENT_NUMBER"},
			{"nil invoice", "PAY-20260829-0001", uuid.Nil, valueobject.NewMoneyKRWFromInt(1000), PaymentMethodCash, "INVALID_INVOICE"},
			{"zero amount", "PAY-20260829-0001", uuid.New(), valueobject.ZeroKRW(), PaymentMethodCash, "INVALID_AMOUNT"},
			{"unknown method", "PAY-20260829-0001", uuid.New(), valueobject.NewMoneyKRWFromInt(1000), PaymentMethod("CHECK"), "INVALID_METHOD"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewPayment(uuid.New(), tc.number, tc.invoice, tc.amount, tc.method)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tc.wantCode, domainErr.Code)
			})
		}
	})
}

func TestPaymentRefund(t *testing.T) {
	t.Run("refund records amount and reason", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.Refund(valueobject.NewMoneyKRWFromInt(18000), "진료 취소"))
		assert.Equal(t, PaymentStatusRefunded, p.Status)
		assert.Equal(t, int64(18000), p.RefundAmount.IntPart())
		assert.Equal(t, "진료 취소", p.RefundReason)
		assert.NotNil(t, p.RefundedAt)
	})

	t.Run("partial refund allowed once", func(t *testing.T) {
		p := newTestPayment(t)
		require.NoError(t, p.Refund(valueobject.NewMoneyKRWFromInt(5000), "일부 환불"))
		assert.Equal(t, PaymentStatusRefunded, p.Status)

		err := p.Refund(valueobject.NewMoneyKRWFromInt(1000), "추가 환불")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("refund above payment amount rejected", func(t *testing.T) {
		p := newTestPayment(t)
		err := p.Refund(valueobject.NewMoneyKRWFromInt(20000), "과다 환불")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "AMOUNT_EXCEEDED", domainErr.Code)
	})

	t.Run("refund requires a reason", func(t *testing.T) {
		p := newTestPayment(t)
		err := p.Refund(valueobject.NewMoneyKRWFromInt(1000), "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
	})

	t.Run("refund of zero amount rejected", func(t *testing.T) {
		p := newTestPayment(t)
		assert.Error(t, p.Refund(valueobject.ZeroKRW(), "사유"))
	})
}

func TestPaymentMethodAndStatus(t *testing.T) {
	assert.True(t, PaymentMethodCash.IsValid())
	assert.True(t, PaymentMethodCard.IsValid())
	assert.True(t, PaymentMethodTransfer.IsValid())
	assert.True(t, PaymentMethodMobile.IsValid())
	assert.False(t, PaymentMethod("CRYPTO").IsValid())

	assert.True(t, PaymentStatusCompleted.IsValid())
	assert.True(t, PaymentStatusRefunded.IsValid())
	assert.False(t, PaymentStatus("PENDING_X").IsValid())
}
