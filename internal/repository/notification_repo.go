package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
)

// NotificationRepository persists in-app notifications.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*entity.Notification, error) {
	var notification entity.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]entity.Notification, int64, error) {
	var items []entity.Notification
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags one notification read; recipient scoping prevents
// reading someone else's mail.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one notification, scoped to its recipient like MarkRead.
func (r *NotificationRepository) Delete(ctx context.Context, id, recipientID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&entity.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}
