package procurement

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

func newTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "PO-20260829-0001", uuid.New(), "한빛 약품", nil)
	require.NoError(t, err)
	return order
}

func newApprovedOrder(t *testing.T, productID uuid.UUID, quantity int64) *PurchaseOrder {
	t.Helper()
	order := newTestOrder(t)
	_, err := order.AddItem(productID, "백신", decimal.NewFromInt(quantity), valueobject.NewMoneyKRWFromInt(5000))
	require.NoError(t, err)
	require.NoError(t, order.Submit())
	require.NoError(t, order.Approve(uuid.New()))
	return order
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("starts as draft with zero totals", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Len(t, order.GetDomainEvents(), 1)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "", uuid.New(), "한빛 약품", nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ORDER_NUMBER", domainErr.Code)
	})

	t.Run("rejects nil supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-20260829-0001", uuid.Nil, "한빛 약품", nil)
		assert.Error(t, err)
	})
}

func TestPurchaseOrderItems(t *testing.T) {
	t.Run("totals include 10 percent tax", func(t *testing.T) {
		order := newTestOrder(t)

		// 10 x 5000 = 50000 subtotal, 5000 tax, 55000 total
		_, err := order.AddItem(uuid.New(), "백신", decimal.NewFromInt(10), valueobject.NewMoneyKRWFromInt(5000))
		require.NoError(t, err)

		assert.Equal(t, int64(50000), order.Subtotal.IntPart())
		assert.Equal(t, int64(5000), order.TaxAmount.IntPart())
		assert.Equal(t, int64(55000), order.TotalAmount.IntPart())
	})

	t.Run("duplicate product rejected", func(t *testing.T) {
		order := newTestOrder(t)
		productID := uuid.New()
		_, err := order.AddItem(productID, "백신", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(5000))
		require.NoError(t, err)

		_, err = order.AddItem(productID, "백신", decimal.NewFromInt(2), valueobject.NewMoneyKRWFromInt(5000))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_PRODUCT", domainErr.Code)
	})

	t.Run("update quantity recalculates totals", func(t *testing.T) {
		order := newTestOrder(t)
		item, err := order.AddItem(uuid.New(), "백신", decimal.NewFromInt(10), valueobject.NewMoneyKRWFromInt(5000))
		require.NoError(t, err)

		require.NoError(t, order.UpdateItemQuantity(item.ID, decimal.NewFromInt(4)))
		assert.Equal(t, int64(20000), order.Subtotal.IntPart())
		assert.Equal(t, int64(22000), order.TotalAmount.IntPart())
	})

	t.Run("remove item zeroes totals", func(t *testing.T) {
		order := newTestOrder(t)
		item, err := order.AddItem(uuid.New(), "백신", decimal.NewFromInt(10), valueobject.NewMoneyKRWFromInt(5000))
		require.NoError(t, err)

		require.NoError(t, order.RemoveItem(item.ID))
		assert.Empty(t, order.Items)
		assert.True(t, order.TotalAmount.IsZero())
	})

	t.Run("items locked after submit", func(t *testing.T) {
		order := newTestOrder(t)
		item, err := order.AddItem(uuid.New(), "백신", decimal.NewFromInt(10), valueobject.NewMoneyKRWFromInt(5000))
		require.NoError(t, err)
		require.NoError(t, order.Submit())

		_, err = order.AddItem(uuid.New(), "주사기", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(1000))
		assert.Error(t, err)
		assert.Error(t, order.UpdateItemQuantity(item.ID, decimal.NewFromInt(5)))
		assert.Error(t, order.RemoveItem(item.ID))
	})
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	t.Run("submit requires items", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.Submit()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_ITEMS", domainErr.Code)
	})

	t.Run("approve requires pending status and approver", func(t *testing.T) {
		order := newTestOrder(t)
		_, err := order.AddItem(uuid.New(), "백신", decimal.NewFromInt(1), valueobject.NewMoneyKRWFromInt(5000))
		require.NoError(t, err)

		assert.Error(t, order.Approve(uuid.New()))

		require.NoError(t, order.Submit())
		assert.Error(t, order.Approve(uuid.Nil))

		approver := uuid.New()
		require.NoError(t, order.Approve(approver))
		assert.Equal(t, PurchaseOrderStatusApproved, order.Status)
		require.NotNil(t, order.ApprovedBy)
		assert.Equal(t, approver, *order.ApprovedBy)
		assert.NotNil(t, order.ApprovedAt)
	})

	t.Run("mark ordered only from approved", func(t *testing.T) {
		order := newApprovedOrder(t, uuid.New(), 1)
		require.NoError(t, order.MarkOrdered())
		assert.Equal(t, PurchaseOrderStatusOrdered, order.Status)
		assert.Error(t, order.MarkOrdered())
	})
}

func TestPurchaseOrderReceive(t *testing.T) {
	productID := uuid.New()

	t.Run("partial receipt then completion", func(t *testing.T) {
		order := newApprovedOrder(t, productID, 10)

		infos, err := order.Receive([]ReceiveItem{{ProductID: productID, Quantity: decimal.NewFromInt(3), LotNumber: "LOT-A"}})
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, PurchaseOrderStatusPartial, order.Status)
		assert.Equal(t, int64(7), order.Items[0].RemainingQuantity().IntPart())
		assert.Equal(t, "LOT-A", order.Items[0].LotNumber)

		_, err = order.Receive([]ReceiveItem{{ProductID: productID, Quantity: decimal.NewFromInt(7)}})
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
		assert.NotNil(t, order.ReceivedAt)
		assert.True(t, order.Items[0].IsFullyReceived())
	})

	t.Run("order completes only when every line is fully received", func(t *testing.T) {
		vaccineID := uuid.New()
		syringeID := uuid.New()

		order := newTestOrder(t)
		_, err := order.AddItem(vaccineID, "백신", decimal.NewFromInt(10), valueobject.NewMoneyKRWFromInt(5000))
		require.NoError(t, err)
		_, err = order.AddItem(syringeID, "주사기", decimal.NewFromInt(5), valueobject.NewMoneyKRWFromInt(1000))
		require.NoError(t, err)
		require.NoError(t, order.Submit())
		require.NoError(t, order.Approve(uuid.New()))

		// First delivery closes the vaccine line but leaves 2 syringes open.
		infos, err := order.Receive([]ReceiveItem{
			{ProductID: vaccineID, Quantity: decimal.NewFromInt(10)},
			{ProductID: syringeID, Quantity: decimal.NewFromInt(3)},
		})
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, PurchaseOrderStatusPartial, order.Status)
		assert.True(t, order.Items[0].IsFullyReceived())
		assert.False(t, order.Items[1].IsFullyReceived())
		assert.Equal(t, int64(2), order.Items[1].RemainingQuantity().IntPart())

		_, err = order.Receive([]ReceiveItem{{ProductID: syringeID, Quantity: decimal.NewFromInt(2)}})
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
		assert.NotNil(t, order.ReceivedAt)
	})

	t.Run("over-receipt rejected", func(t *testing.T) {
		order := newApprovedOrder(t, productID, 10)
		_, err := order.Receive([]ReceiveItem{{ProductID: productID, Quantity: decimal.NewFromInt(11)}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "QUANTITY_EXCEEDED", domainErr.Code)
		assert.Equal(t, PurchaseOrderStatusApproved, order.Status)
	})

	t.Run("unknown product rejected", func(t *testing.T) {
		order := newApprovedOrder(t, productID, 10)
		_, err := order.Receive([]ReceiveItem{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ITEM_NOT_FOUND", domainErr.Code)
	})

	t.Run("receiving blocked before approval", func(t *testing.T) {
		order := newTestOrder(t)
		_, err := order.AddItem(productID, "백신", decimal.NewFromInt(10), valueobject.NewMoneyKRWFromInt(5000))
		require.NoError(t, err)

		_, err = order.Receive([]ReceiveItem{{ProductID: productID, Quantity: decimal.NewFromInt(1)}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("receipt captures expiration date", func(t *testing.T) {
		order := newApprovedOrder(t, productID, 10)
		exp := time.Now().AddDate(1, 0, 0)
		_, err := order.Receive([]ReceiveItem{{ProductID: productID, Quantity: decimal.NewFromInt(10), LotNumber: "LOT-B", ExpirationDate: &exp}})
		require.NoError(t, err)
		require.NotNil(t, order.Items[0].ExpirationDate)
		assert.True(t, order.Items[0].ExpirationDate.Equal(exp))
	})
}

func TestPurchaseOrderCancel(t *testing.T) {
	productID := uuid.New()

	t.Run("cancel requires a reason", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.Cancel("")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REASON", domainErr.Code)
	})

	t.Run("cancel blocked once goods received", func(t *testing.T) {
		order := newApprovedOrder(t, productID, 10)
		_, err := order.Receive([]ReceiveItem{{ProductID: productID, Quantity: decimal.NewFromInt(3)}})
		require.NoError(t, err)

		err = order.Cancel("공급사 사정")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("approved order can be cancelled before receipt", func(t *testing.T) {
		order := newApprovedOrder(t, productID, 10)
		require.NoError(t, order.Cancel("공급사 사정"))
		assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
		assert.Equal(t, "공급사 사정", order.CancelReason)
		assert.NotNil(t, order.CancelledAt)
	})
}

func TestPurchaseOrderStatusTransitions(t *testing.T) {
	assert.True(t, PurchaseOrderStatusDraft.CanTransitionTo(PurchaseOrderStatusPending))
	assert.True(t, PurchaseOrderStatusPending.CanTransitionTo(PurchaseOrderStatusApproved))
	assert.True(t, PurchaseOrderStatusOrdered.CanTransitionTo(PurchaseOrderStatusPartial))
	assert.False(t, PurchaseOrderStatusPartial.CanTransitionTo(PurchaseOrderStatusCancelled))
	assert.False(t, PurchaseOrderStatusReceived.CanTransitionTo(PurchaseOrderStatusPartial))
	assert.False(t, PurchaseOrderStatusCancelled.CanTransitionTo(PurchaseOrderStatusDraft))

	assert.True(t, PurchaseOrderStatusApproved.CanReceive())
	assert.True(t, PurchaseOrderStatusPartial.CanReceive())
	assert.False(t, PurchaseOrderStatusDraft.CanReceive())
}

// Mutations leave Version alone; the repository bumps it when persisting.
func TestPurchaseOrderMutationsLeaveVersion(t *testing.T) {
	productID := uuid.New()
	order := newApprovedOrder(t, productID, 10)
	order.Version = 4

	_, err := order.Receive([]ReceiveItem{{ProductID: productID, Quantity: decimal.NewFromInt(10)}})
	require.NoError(t, err)

	assert.Equal(t, 4, order.Version)
}
