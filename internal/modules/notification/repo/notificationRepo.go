package repo

import (
	"moiport/internal/modules/notification"
)

type NotificationDb interface {
	CreateNotification(n *notification.Notification) (*notification.Notification, error)
	GetNotifications(tenantID, userID uint, onlyUnread bool, limit, offset int) ([]*notification.Notification, error)
	CountUnread(tenantID, userID uint) (int64, error)
	MarkRead(tenantID, userID, notificationID uint) error
	MarkAllRead(tenantID, userID uint) (int64, error)
}

type NotificationCache interface {
	GetUnreadCount(tenantID, userID uint) (int64, bool, error)
	SaveUnreadCount(tenantID, userID uint, count int64) error
	InvalidateUnreadCount(tenantID, userID uint) error
}

type repo struct {
	db NotificationDb
	ch NotificationCache
}

func NewRepo(db NotificationDb, ch NotificationCache) notification.Repo {
	return &repo{db: db, ch: ch}
}

// CreateNotification persists the row, then drops the recipient's cached
// unread counter. The insert is the source of truth; a failed invalidation
// only leaves the counter stale until its TTL expires.
func (r *repo) CreateNotification(n *notification.Notification) (*notification.Notification, error) {
	created, err := r.db.CreateNotification(n)
	if err != nil {
		return nil, err
	}
	_ = r.ch.InvalidateUnreadCount(created.TenantID, created.UserID)
	return created, nil
}

func (r *repo) GetNotifications(tenantID, userID uint, onlyUnread bool, limit, offset int) ([]*notification.Notification, error) {
	return r.db.GetNotifications(tenantID, userID, onlyUnread, limit, offset)
}

func (r *repo) CountUnread(tenantID, userID uint) (int64, error) {
	if count, ok, err := r.ch.GetUnreadCount(tenantID, userID); err == nil && ok {
		return count, nil
	}
	count, err := r.db.CountUnread(tenantID, userID)
	if err != nil {
		return 0, err
	}
	_ = r.ch.SaveUnreadCount(tenantID, userID, count)
	return count, nil
}

func (r *repo) MarkRead(tenantID, userID, notificationID uint) error {
	if err := r.db.MarkRead(tenantID, userID, notificationID); err != nil {
		return err
	}
	return r.ch.InvalidateUnreadCount(tenantID, userID)
}

func (r *repo) MarkAllRead(tenantID, userID uint) (int64, error) {
	count, err := r.db.MarkAllRead(tenantID, userID)
	if err != nil {
		return 0, err
	}
	return count, r.ch.InvalidateUnreadCount(tenantID, userID)
}
