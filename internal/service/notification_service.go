package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/lanzy-lanzy/tailoring/internal/sse"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NotificationService delivers in-app notifications. Unread counts are
// cached in redis and pushed to connected clients over SSE; both are
// best effort, the database row is the source of truth.
type NotificationService struct {
	repos  *repository.Repositories
	rdb    *redis.Client
	hub    *sse.Hub
	logger *zap.Logger
}

func NewNotificationService(repos *repository.Repositories, rdb *redis.Client, hub *sse.Hub, logger *zap.Logger) *NotificationService {
	return &NotificationService{repos: repos, rdb: rdb, hub: hub, logger: logger}
}

const unreadCountTTL = 5 * time.Minute

func unreadCountKey(userID string) string {
	return "notif:unread:" + userID
}

// Notify creates a notification and pushes it to the recipient.
func (s *NotificationService) Notify(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = newID()
	}
	if n.Priority == "" {
		n.Priority = "normal"
	}
	n.CreatedAt = time.Now()
	if err := s.repos.Notification.Create(ctx, n); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, n.RecipientID)
	s.hub.SendToUser(n.RecipientID, sse.Event{
		EventType: "notification",
		Data:      fmt.Sprintf(`{"id":%q,"type":%q,"title":%q}`, n.ID, n.Type, n.Title),
	})
	return nil
}

// NotifyAdmins fans one notification out to every active admin.
func (s *NotificationService) NotifyAdmins(ctx context.Context, template entity.Notification) error {
	admins, err := s.repos.User.FindAdmins(ctx)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		n := template
		n.ID = newID()
		n.RecipientID = admin.ID
		if err := s.Notify(ctx, &n); err != nil {
			s.logger.Warn("notify admin failed",
				zap.String("admin_id", admin.ID),
				zap.Error(err))
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]entity.Notification, int64, error) {
	return s.repos.Notification.FindByRecipient(ctx, recipientID, page, pageSize, unreadOnly)
}

// UnreadCount serves from redis when warm, falling back to the database.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, unreadCountKey(recipientID)).Int64(); err == nil {
			return cached, nil
		}
	}
	count, err := s.repos.Notification.UnreadCount(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, unreadCountKey(recipientID), count, unreadCountTTL).Err(); err != nil {
			s.logger.Debug("cache unread count failed", zap.Error(err))
		}
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID string) error {
	if err := s.repos.Notification.MarkRead(ctx, id, recipientID); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, recipientID)
	return nil
}

// Delete removes one of the caller's notifications. The unread count
// cache is invalidated since the deleted row may have been unread.
func (s *NotificationService) Delete(ctx context.Context, id, recipientID string) error {
	if err := s.repos.Notification.Delete(ctx, id, recipientID); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, recipientID)
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	if err := s.repos.Notification.MarkAllRead(ctx, recipientID); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, recipientID)
	return nil
}

func (s *NotificationService) invalidateUnreadCount(ctx context.Context, recipientID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, unreadCountKey(recipientID)).Err(); err != nil {
		s.logger.Debug("invalidate unread count failed", zap.Error(err))
	}
}
