package usecase

import (
	"log/slog"

	"moiport/internal/modules/notification"
)

type NotificationUseCase struct {
	repo notification.Repo
	log  *slog.Logger
}

func NewNotificationUseCase(repo notification.Repo, log *slog.Logger) notification.UseCase {
	return &NotificationUseCase{
		repo: repo,
		log:  log,
	}
}

func (uc *NotificationUseCase) GetNotifications(userID, tenantID uint, req *notification.GetNotificationsRequest) ([]*notification.NotificationResponse, error) {
	op := "NotificationUseCase.GetNotifications"
	log := uc.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))

	limit := req.Limit
	if limit == 0 {
		limit = 50
	}

	notifications, err := uc.repo.GetNotifications(tenantID, userID, req.OnlyUnread, limit, req.Offset)
	if err != nil {
		log.Error("failed to get notifications", "error", err)
		return nil, err
	}

	return notification.ToNotificationResponseList(notifications), nil
}

func (uc *NotificationUseCase) GetUnreadCount(userID, tenantID uint) (int64, error) {
	op := "NotificationUseCase.GetUnreadCount"
	log := uc.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))

	count, err := uc.repo.CountUnread(tenantID, userID)
	if err != nil {
		log.Error("failed to count unread notifications", "error", err)
		return 0, err
	}
	return count, nil
}

func (uc *NotificationUseCase) MarkRead(userID, tenantID, notificationID uint) error {
	op := "NotificationUseCase.MarkRead"
	log := uc.log.With(slog.String("op", op), slog.Uint64("notificationID", uint64(notificationID)))

	if err := uc.repo.MarkRead(tenantID, userID, notificationID); err != nil {
		log.Warn("failed to mark notification read", "error", err)
		return err
	}
	return nil
}

func (uc *NotificationUseCase) MarkAllRead(userID, tenantID uint) error {
	op := "NotificationUseCase.MarkAllRead"
	log := uc.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))

	count, err := uc.repo.MarkAllRead(tenantID, userID)
	if err != nil {
		log.Error("failed to mark all notifications read", "error", err)
		return err
	}

	log.Info("marked all notifications read", slog.Int64("count", count))
	return nil
}
