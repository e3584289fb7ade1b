package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/shared"
)

// Repository defines the interface for notification persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*Notification, error)

	// FindForRecipient finds notifications addressed to a user or to the
	// whole hospital (nil recipient)
	FindForRecipient(ctx context.Context, hospitalID, recipientID uuid.UUID, filter shared.Filter) ([]Notification, error)

	FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]Notification, error)
	Save(ctx context.Context, n *Notification) error
	CountUnread(ctx context.Context, hospitalID, recipientID uuid.UUID) (int64, error)
	CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error)
}
