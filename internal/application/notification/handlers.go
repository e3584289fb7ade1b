package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vetcare/backend/internal/domain/billing"
	"github.com/vetcare/backend/internal/domain/inventory"
	"github.com/vetcare/backend/internal/domain/notification"
	"github.com/vetcare/backend/internal/domain/procurement"
	"github.com/vetcare/backend/internal/domain/shared"
)

// EventNotificationHandler turns domain events into hospital-wide notifications
type EventNotificationHandler struct {
	service *NotificationService
	logger  *zap.Logger
}

// NewEventNotificationHandler creates a new EventNotificationHandler
func NewEventNotificationHandler(service *NotificationService, logger *zap.Logger) *EventNotificationHandler {
	return &EventNotificationHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *EventNotificationHandler) EventTypes() []string {
	return []string{
		billing.EventTypePaymentCompleted,
		billing.EventTypePaymentRefunded,
		procurement.EventTypePurchaseOrderReceived,
		inventory.EventTypeLowStockDetected,
	}
}

// Handle creates a notification for the incoming event
func (h *EventNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		nType notification.Type
		title string
		body  string
	)

	switch e := event.(type) {
	case *billing.PaymentCompletedEvent:
		nType = notification.TypePaymentCompleted
		title = "결제 완료"
		body = fmt.Sprintf("청구서 %s에 %s원이 결제되었습니다 (결제번호 %s)",
			e.InvoiceNumber, e.Amount.StringFixed(0), e.PaymentNumber)
	case *billing.PaymentRefundedEvent:
		nType = notification.TypePaymentRefunded
		title = "환불 처리"
		body = fmt.Sprintf("결제 %s에서 %s원이 환불되었습니다. 사유: %s",
			e.PaymentNumber, e.RefundAmount.StringFixed(0), e.RefundReason)
	case *procurement.PurchaseOrderReceivedEvent:
		nType = notification.TypePurchaseOrderReceived
		title = "발주 입고"
		body = fmt.Sprintf("발주서 %s (%s) 입고가 처리되었습니다. 입고 품목 %d건, 상태: %s",
			e.OrderNumber, e.SupplierName, len(e.ReceivedItems), e.Status)
	case *inventory.LowStockDetectedEvent:
		nType = notification.TypeLowStock
		title = "재고 부족"
		body = fmt.Sprintf("%s 재고가 재주문 기준(%s) 이하로 떨어졌습니다. 현재 수량: %s",
			e.ProductName, e.ReorderLevel.String(), e.TotalQuantity.String())
	default:
		// Events not in EventTypes() should never arrive here
		h.logger.Warn("unhandled event type for notification",
			zap.String("event_type", event.EventType()))
		return nil
	}

	if err := h.service.Notify(ctx, event.HospitalID(), nil, nType, title, body); err != nil {
		h.logger.Error("failed to create notification",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err))
		return err
	}

	return nil
}
