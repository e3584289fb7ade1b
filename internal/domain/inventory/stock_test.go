package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/backend/internal/domain/shared"
)

func newTestStock(t *testing.T) *InventoryStock {
	t.Helper()
	stock, err := NewInventoryStock(uuid.New(), uuid.New(), "LOT-2026-01", nil)
	require.NoError(t, err)
	return stock
}

func TestNewInventoryStock(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		stock := newTestStock(t)
		assert.True(t, stock.Quantity.IsZero())
		assert.True(t, stock.ReservedQuantity.IsZero())
	})

	t.Run("rejects nil hospital", func(t *testing.T) {
		_, err := NewInventoryStock(uuid.Nil, uuid.New(), "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewInventoryStock(uuid.New(), uuid.Nil, "", nil)
		assert.Error(t, err)
	})
}

func TestInventoryStockApply(t *testing.T) {
	t.Run("inbound then outbound", func(t *testing.T) {
		stock := newTestStock(t)
		require.NoError(t, stock.Apply(decimal.NewFromInt(10)))
		assert.Equal(t, int64(10), stock.Quantity.IntPart())

		require.NoError(t, stock.Apply(decimal.NewFromInt(-4)))
		assert.Equal(t, int64(6), stock.Quantity.IntPart())
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		stock := newTestStock(t)
		err := stock.Apply(decimal.Zero)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("rejects delta that drives quantity negative", func(t *testing.T) {
		stock := newTestStock(t)
		require.NoError(t, stock.Apply(decimal.NewFromInt(5)))

		err := stock.Apply(decimal.NewFromInt(-6))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, int64(5), stock.Quantity.IntPart())
	})

	t.Run("outbound to exactly zero allowed", func(t *testing.T) {
		stock := newTestStock(t)
		require.NoError(t, stock.Apply(decimal.NewFromInt(5)))
		require.NoError(t, stock.Apply(decimal.NewFromInt(-5)))
		assert.True(t, stock.Quantity.IsZero())
	})
}

// The repository owns the version bump: mutations must not touch Version,
// otherwise SaveWithLock compares against a value the database never held
// and every uncontended save reports a conflict.
func TestInventoryStockMutationsLeaveVersion(t *testing.T) {
	stock := newTestStock(t)
	stock.Version = 3

	require.NoError(t, stock.Apply(decimal.NewFromInt(10)))
	require.NoError(t, stock.Reserve(decimal.NewFromInt(4)))
	require.NoError(t, stock.Release(decimal.NewFromInt(4)))
	require.NoError(t, stock.Apply(decimal.NewFromInt(-2)))

	assert.Equal(t, 3, stock.Version)
}

func TestInventoryStockReserveRelease(t *testing.T) {
	stock := newTestStock(t)
	require.NoError(t, stock.Apply(decimal.NewFromInt(10)))

	t.Run("reserve reduces available quantity", func(t *testing.T) {
		require.NoError(t, stock.Reserve(decimal.NewFromInt(6)))
		assert.Equal(t, int64(4), stock.AvailableQuantity().IntPart())
		assert.Equal(t, int64(10), stock.Quantity.IntPart())
	})

	t.Run("reserve beyond available rejected", func(t *testing.T) {
		err := stock.Reserve(decimal.NewFromInt(5))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	})

	t.Run("release returns the hold", func(t *testing.T) {
		require.NoError(t, stock.Release(decimal.NewFromInt(6)))
		assert.Equal(t, int64(10), stock.AvailableQuantity().IntPart())
	})

	t.Run("release beyond reserved rejected", func(t *testing.T) {
		err := stock.Release(decimal.NewFromInt(1))
		assert.Error(t, err)
	})
}

func TestInventoryStockIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired, err := NewInventoryStock(uuid.New(), uuid.New(), "LOT-2025-12", &past)
	require.NoError(t, err)
	assert.True(t, expired.IsExpired(now))

	fresh, err := NewInventoryStock(uuid.New(), uuid.New(), "LOT-2026-06", &future)
	require.NoError(t, err)
	assert.False(t, fresh.IsExpired(now))

	noDate := newTestStock(t)
	assert.False(t, noDate.IsExpired(now))
}
