package database

import (
	"log/slog"

	"gorm.io/gorm"

	"moiport/internal/modules/notification"
)

type NotificationDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewNotificationDatabase(db *gorm.DB, log *slog.Logger) *NotificationDatabase {
	return &NotificationDatabase{
		db:  db,
		log: log,
	}
}

func (r *NotificationDatabase) CreateNotification(n *notification.Notification) (*notification.Notification, error) {
	op := "NotificationDatabase.CreateNotification"
	log := r.log.With(slog.String("op", op), slog.Uint64("userID", uint64(n.UserID)))

	if err := r.db.Create(n).Error; err != nil {
		log.Error("failed to create notification in DB", "error", err)
		return nil, notification.ErrNotificationInternal
	}

	log.Debug("notification created in DB", slog.Uint64("notificationID", uint64(n.NotificationID)))
	return n, nil
}

func (r *NotificationDatabase) GetNotifications(tenantID, userID uint, onlyUnread bool, limit, offset int) ([]*notification.Notification, error) {
	op := "NotificationDatabase.GetNotifications"
	log := r.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))
	var notifications []*notification.Notification

	query := r.db.
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("created_at DESC")

	if onlyUnread {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		log.Error("failed to get notifications from DB", "error", err)
		return nil, notification.ErrNotificationInternal
	}

	return notifications, nil
}

func (r *NotificationDatabase) CountUnread(tenantID, userID uint) (int64, error) {
	op := "NotificationDatabase.CountUnread"
	log := r.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))
	var count int64

	if err := r.db.Model(&notification.Notification{}).
		Where("tenant_id = ? AND user_id = ? AND is_read = ?", tenantID, userID, false).
		Count(&count).Error; err != nil {
		log.Error("failed to count unread notifications in DB", "error", err)
		return 0, notification.ErrNotificationInternal
	}

	return count, nil
}

func (r *NotificationDatabase) MarkRead(tenantID, userID, notificationID uint) error {
	op := "NotificationDatabase.MarkRead"
	log := r.log.With(slog.String("op", op), slog.Uint64("notificationID", uint64(notificationID)))

	result := r.db.Model(&notification.Notification{}).
		Where("notification_id = ? AND tenant_id = ? AND user_id = ?", notificationID, tenantID, userID).
		Update("is_read", true)

	if result.Error != nil {
		log.Error("failed to mark notification read in DB", "error", result.Error)
		return notification.ErrNotificationInternal
	}
	if result.RowsAffected == 0 {
		log.Warn("notification not found for recipient")
		return notification.ErrNotificationNotFound
	}

	return nil
}

func (r *NotificationDatabase) MarkAllRead(tenantID, userID uint) (int64, error) {
	op := "NotificationDatabase.MarkAllRead"
	log := r.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))

	result := r.db.Model(&notification.Notification{}).
		Where("tenant_id = ? AND user_id = ? AND is_read = ?", tenantID, userID, false).
		Update("is_read", true)

	if result.Error != nil {
		log.Error("failed to mark all notifications read in DB", "error", result.Error)
		return 0, notification.ErrNotificationInternal
	}

	log.Info("notifications marked read", slog.Int64("count", result.RowsAffected))
	return result.RowsAffected, nil
}
