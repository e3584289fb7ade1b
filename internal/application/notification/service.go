package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/notification"
	"github.com/vetcare/backend/internal/domain/shared"
)

// NotificationService handles in-app notifications for hospital staff
type NotificationService struct {
	repo notification.Repository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify creates a notification. A nil recipient addresses the whole hospital.
func (s *NotificationService) Notify(ctx context.Context, hospitalID uuid.UUID, recipientID *uuid.UUID, nType notification.Type, title, body string) error {
	n, err := notification.NewNotification(hospitalID, recipientID, nType, title, body)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, n)
}

// ListForRecipient retrieves a user's notifications, including hospital-wide ones
func (s *NotificationService) ListForRecipient(ctx context.Context, hospitalID, recipientID uuid.UUID, filter ListFilter) ([]Response, error) {
	notifications, err := s.repo.FindForRecipient(ctx, hospitalID, recipientID, buildFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToResponses(notifications), nil
}

// CountUnread counts a user's unread notifications
func (s *NotificationService) CountUnread(ctx context.Context, hospitalID, recipientID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, hospitalID, recipientID)
}

// MarkRead flags a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, hospitalID, notificationID uuid.UUID) (*Response, error) {
	n, err := s.repo.FindByIDForHospital(ctx, hospitalID, notificationID)
	if err != nil {
		return nil, err
	}

	n.MarkRead()
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}

	response := ToResponse(n)
	return &response, nil
}

func buildFilter(filter ListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}

	if filter.Type != nil {
		domainFilter.Filters["type"] = string(*filter.Type)
	}
	if filter.Unread {
		domainFilter.Filters["read"] = false
	}

	return domainFilter
}
