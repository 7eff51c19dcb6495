package dispatcher

import (
	"context"
	"fmt"
	"log/slog"

	"moiport/internal/modules/notification"
	"moiport/internal/modules/user"
	"moiport/pkg/lib/pushsender"
)

// NotificationDispatcher is the single writer of notification rows. Module
// services hand it targeting rules; it resolves recipients and persists one
// row per recipient. The FCM push is a best-effort side effect and is only
// attempted after the row insert succeeded.
type NotificationDispatcher struct {
	repo  notification.Repo
	staff notification.StaffDirectory
	push  pushsender.Sender
	log   *slog.Logger
}

// New builds a dispatcher. push may be nil when no FCM credentials are
// configured; rows are still written.
func New(repo notification.Repo, staff notification.StaffDirectory, push pushsender.Sender, log *slog.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		repo:  repo,
		staff: staff,
		push:  push,
		log:   log.With(slog.String("service", "NotificationDispatcher")),
	}
}

func (d *NotificationDispatcher) NotifyUser(ctx context.Context, tenantID, userID uint, title, message string, typ notification.Type, ref *notification.Reference) error {
	log := d.log.With(
		slog.String("op", "NotifyUser"),
		slog.Uint64("tenantID", uint64(tenantID)),
		slog.Uint64("userID", uint64(userID)),
		slog.String("type", string(typ)),
	)

	row := &notification.Notification{
		TenantID: tenantID,
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     typ,
	}
	if ref != nil {
		refID := ref.ID
		refType := ref.Type
		row.ReferenceID = &refID
		row.ReferenceType = &refType
	}

	created, err := d.repo.CreateNotification(row)
	if err != nil {
		log.Error("failed to persist notification", "error", err)
		return err
	}

	// Push strictly after the row is durable.
	d.sendPush(ctx, created, log)
	return nil
}

func (d *NotificationDispatcher) NotifyTenantStaff(ctx context.Context, tenantID uint, title, message string, typ notification.Type, ref *notification.Reference, excludeUserID *uint) error {
	log := d.log.With(
		slog.String("op", "NotifyTenantStaff"),
		slog.Uint64("tenantID", uint64(tenantID)),
		slog.String("type", string(typ)),
	)

	staff, err := d.staff.ListActiveStaff(tenantID, user.TenantNotifyRoles, excludeUserID)
	if err != nil {
		log.Error("roster resolution failed, nothing dispatched", "error", err)
		return fmt.Errorf("%w: %v", notification.ErrRosterResolution, err)
	}

	for _, member := range staff {
		if err := d.NotifyUser(ctx, tenantID, member.UserID, title, message, typ, ref); err != nil {
			// One bad recipient must not suppress the rest of the batch.
			log.Error("skipping recipient after failed insert", "userID", member.UserID, "error", err)
		}
	}

	log.Debug("tenant staff dispatch finished", slog.Int("recipients", len(staff)))
	return nil
}

func (d *NotificationDispatcher) sendPush(ctx context.Context, n *notification.Notification, log *slog.Logger) {
	if d.push == nil {
		return
	}

	tokens, err := d.staff.GetUserDeviceTokens(n.UserID)
	if err != nil || len(tokens) == 0 {
		if err != nil {
			log.Warn("failed to get device tokens", "error", err)
		}
		return
	}

	deviceTokenValues := make([]string, 0, len(tokens))
	for _, t := range tokens {
		deviceTokenValues = append(deviceTokenValues, t.DeviceToken)
	}

	pushMsg := pushsender.PushMessage{
		Title:  n.Title,
		Body:   n.Message,
		Tokens: deviceTokenValues,
		Data: map[string]string{
			"type":           string(n.Type),
			"notificationId": fmt.Sprintf("%d", n.NotificationID),
		},
	}
	if n.ReferenceID != nil && n.ReferenceType != nil {
		pushMsg.Data["referenceId"] = fmt.Sprintf("%d", *n.ReferenceID)
		pushMsg.Data["referenceType"] = string(*n.ReferenceType)
	}

	if _, err := d.push.Send(ctx, pushMsg); err != nil {
		log.Error("failed to send push notification", "error", err)
	}
}
