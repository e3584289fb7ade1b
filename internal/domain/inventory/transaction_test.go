package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/backend/internal/domain/shared"
)

func TestTransactionTypeDirection(t *testing.T) {
	inbound := []TransactionType{
		TransactionTypePurchase, TransactionTypeReturn,
		TransactionTypeTransferIn, TransactionTypeInitial,
	}
	outbound := []TransactionType{
		TransactionTypeSale, TransactionTypeTransferOut,
		TransactionTypeExpired, TransactionTypeDamaged,
	}

	for _, typ := range inbound {
		assert.True(t, typ.IsInbound(), typ)
		assert.False(t, typ.IsOutbound(), typ)
	}
	for _, typ := range outbound {
		assert.True(t, typ.IsOutbound(), typ)
		assert.False(t, typ.IsInbound(), typ)
	}

	// Adjustment carries a signed delta, so it is neither direction.
	assert.False(t, TransactionTypeAdjustment.IsInbound())
	assert.False(t, TransactionTypeAdjustment.IsOutbound())
	assert.True(t, TransactionTypeAdjustment.IsValid())
	assert.False(t, TransactionType("UNKNOWN").IsValid())
}

func TestNewInventoryTransaction(t *testing.T) {
	hospitalID := uuid.New()
	productID := uuid.New()
	stockID := uuid.New()
	refID := uuid.New()

	t.Run("records signed delta with balances", func(t *testing.T) {
		tx, err := NewInventoryTransaction(
			hospitalID, "TXN-20260829-0001", productID, stockID, "LOT-2026-01",
			TransactionTypePurchase,
			decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(10),
			ReferenceTypePurchaseOrder, &refID, "입고", nil,
		)
		require.NoError(t, err)
		assert.Equal(t, TransactionTypePurchase, tx.Type)
		assert.Equal(t, int64(10), tx.Quantity.IntPart())
		assert.True(t, tx.PreviousQuantity.IsZero())
		assert.Equal(t, int64(10), tx.CurrentQuantity.IntPart())
		assert.Equal(t, ReferenceTypePurchaseOrder, tx.ReferenceType)
		assert.False(t, tx.TransactionDate.IsZero())
	})

	t.Run("outbound quantity is negative", func(t *testing.T) {
		tx, err := NewInventoryTransaction(
			hospitalID, "TXN-20260829-0002", productID, stockID, "",
			TransactionTypeSale,
			decimal.NewFromInt(-3), decimal.NewFromInt(10), decimal.NewFromInt(7),
			ReferenceTypeInvoice, &refID, "", nil,
		)
		require.NoError(t, err)
		assert.True(t, tx.Quantity.IsNegative())
	})

	t.Run("balance mismatch rejected", func(t *testing.T) {
		_, err := NewInventoryTransaction(
			hospitalID, "TXN-20260829-0003", productID, stockID, "",
			TransactionTypeAdjustment,
			decimal.NewFromInt(5), decimal.NewFromInt(10), decimal.NewFromInt(14),
			ReferenceTypeManual, nil, "실사 조정", nil,
		)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BALANCE_MISMATCH", domainErr.Code)
	})

	t.Run("negative resulting balance rejected", func(t *testing.T) {
		_, err := NewInventoryTransaction(
			hospitalID, "TXN-20260829-0004", productID, stockID, "",
			TransactionTypeSale,
			decimal.NewFromInt(-11), decimal.NewFromInt(10), decimal.NewFromInt(-1),
			ReferenceTypeInvoice, nil, "", nil,
		)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := NewInventoryTransaction(
			hospitalID, "TXN-20260829-0005", productID, stockID, "",
			TransactionTypeAdjustment,
			decimal.Zero, decimal.NewFromInt(10), decimal.NewFromInt(10),
			ReferenceTypeManual, nil, "", nil,
		)
		assert.Error(t, err)
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		_, err := NewInventoryTransaction(
			hospitalID, "TXN-20260829-0006", productID, stockID, "",
			TransactionType("UNKNOWN"),
			decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(1),
			ReferenceTypeManual, nil, "", nil,
		)
		assert.Error(t, err)
	})

	t.Run("empty transaction number rejected", func(t *testing.T) {
		_, err := NewInventoryTransaction(
			hospitalID, "", productID, stockID, "",
			TransactionTypePurchase,
			decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(1),
			ReferenceTypePurchaseOrder, nil, "", nil,
		)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSACTION_NUMBER", domainErr.Code)
	})
}
