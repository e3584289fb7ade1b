package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// Type classifies what a notification is about
type Type string

const (
	TypePaymentCompleted      Type = "PAYMENT_COMPLETED"
	TypePaymentRefunded       Type = "PAYMENT_REFUNDED"
	TypePurchaseOrderReceived Type = "PURCHASE_ORDER_RECEIVED"
	TypeLowStock              Type = "LOW_STOCK"
)

// IsValid checks if the type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypePaymentCompleted, TypePaymentRefunded, TypePurchaseOrderReceived, TypeLowStock:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Notification represents an in-app message for hospital staff.
// RecipientID is nil for hospital-wide notifications.
type Notification struct {
	shared.HospitalAggregateRoot
	RecipientID *uuid.UUID `gorm:"type:uuid;index"`
	Type        Type       `gorm:"type:varchar(30);not null;index"`
	Title       string     `gorm:"type:varchar(200);not null"`
	Body        string     `gorm:"type:text"`
	Read        bool       `gorm:"not null;default:false;index"`
	ReadAt      *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a new notification
func NewNotification(hospitalID uuid.UUID, recipientID *uuid.UUID, nType Type, title, body string) (*Notification, error) {
	if !nType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "지원하지 않는 알림 유형입니다")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "알림 제목을 입력해야 합니다")
	}

	return &Notification{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		RecipientID:           recipientID,
		Type:                  nType,
		Title:                 title,
		Body:                  body,
	}, nil
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
}
