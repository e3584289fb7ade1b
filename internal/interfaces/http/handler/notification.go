package handler

import (
	"github.com/gin-gonic/gin"

	notificationapp "github.com/vetcare/backend/internal/application/notification"
	"github.com/vetcare/backend/internal/domain/notification"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List retrieves the authenticated user's notifications
func (h *NotificationHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := notificationapp.ListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		Unread:   queryBool(c, "unread"),
	}
	if typeStr := c.Query("type"); typeStr != "" {
		nType := notification.Type(typeStr)
		filter.Type = &nType
	}

	notifications, err := h.notificationService.ListForRecipient(c.Request.Context(), hospitalID, userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, notifications)
}

// UnreadCount returns how many notifications the user has not read
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.notificationService.CountUnread(c.Request.Context(), hospitalID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"unread": count})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notificationID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), hospitalID, notificationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, n)
}
