package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/notification"
	"github.com/vetcare/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNotificationRepository implements the notification Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.conn(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindByIDForHospital finds a notification by ID scoped to a hospital
func (r *GormNotificationRepository) FindByIDForHospital(ctx context.Context, hospitalID, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.conn(ctx).
		Where("hospital_id = ? AND id = ?", hospitalID, id).
		First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindForRecipient finds notifications addressed to a user or to the whole hospital
func (r *GormNotificationRepository) FindForRecipient(ctx context.Context, hospitalID, recipientID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := r.applyFilter(r.conn(ctx).Model(&notification.Notification{}).
		Where("hospital_id = ?", hospitalID).
		Where("recipient_id = ? OR recipient_id IS NULL", recipientID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, CommonSortFields, "created_at"))

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindAllForHospital finds notifications for a hospital with filtering
func (r *GormNotificationRepository) FindAllForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := r.applyFilter(r.conn(ctx).Model(&notification.Notification{}).Where("hospital_id = ?", hospitalID), filter)
	query = applyPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, CommonSortFields, "created_at"))

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.conn(ctx).Save(n).Error
}

// CountUnread counts unread notifications visible to a recipient
func (r *GormNotificationRepository) CountUnread(ctx context.Context, hospitalID, recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&notification.Notification{}).
		Where("hospital_id = ? AND read = ?", hospitalID, false).
		Where("recipient_id = ? OR recipient_id IS NULL", recipientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForHospital counts notifications for a hospital with optional filters
func (r *GormNotificationRepository) CountForHospital(ctx context.Context, hospitalID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.conn(ctx).Model(&notification.Notification{}).Where("hospital_id = ?", hospitalID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormNotificationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR body ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "read":
			query = query.Where("read = ?", value)
		}
	}
	return query
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
