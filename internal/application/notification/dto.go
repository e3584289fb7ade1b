package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/notification"
)

// ListFilter is the filter input for listing notifications
type ListFilter struct {
	Page     int
	PageSize int
	Type     *notification.Type
	Unread   bool
}

// Response is the API representation of a notification
type Response struct {
	ID          uuid.UUID         `json:"id"`
	RecipientID *uuid.UUID        `json:"recipient_id,omitempty"`
	Type        notification.Type `json:"type"`
	Title       string            `json:"title"`
	Body        string            `json:"body,omitempty"`
	Read        bool              `json:"read"`
	ReadAt      *time.Time        `json:"read_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ToResponse converts a notification to its response representation
func ToResponse(n *notification.Notification) Response {
	return Response{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        n.Type,
		Title:       n.Title,
		Body:        n.Body,
		Read:        n.Read,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

// ToResponses converts a slice of notifications
func ToResponses(notifications []notification.Notification) []Response {
	responses := make([]Response, len(notifications))
	for i := range notifications {
		responses[i] = ToResponse(&notifications[i])
	}
	return responses
}
