package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"moiport/internal/init/cache"
	"moiport/internal/modules/notification"
)

// NotificationCache keeps per-recipient unread counters in Redis. Only the
// counter is cached; the roster and the notification rows themselves are
// always read fresh.
type NotificationCache struct {
	rdb *redis.Client
	log *slog.Logger
	ttl time.Duration
}

func NewNotificationCache(appCache *cache.Cache, log *slog.Logger, ttl time.Duration) *NotificationCache {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &NotificationCache{
		rdb: appCache.Client,
		log: log,
		ttl: ttl,
	}
}

func unreadCountKey(tenantID, userID uint) string {
	return fmt.Sprintf("tenant:%d:user:%d:unread", tenantID, userID)
}

func (c *NotificationCache) GetUnreadCount(tenantID, userID uint) (int64, bool, error) {
	op := "NotificationCache.GetUnreadCount"
	key := unreadCountKey(tenantID, userID)
	log := c.log.With(slog.String("op", op), slog.String("key", key))

	val, err := c.rdb.Get(context.Background(), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		log.Error("failed to get unread count from cache", "error", err)
		return 0, false, notification.ErrNotificationInternal
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		log.Error("corrupted unread count in cache, dropping key", "error", err)
		_ = c.rdb.Del(context.Background(), key)
		return 0, false, notification.ErrNotificationInternal
	}

	return count, true, nil
}

func (c *NotificationCache) SaveUnreadCount(tenantID, userID uint, count int64) error {
	op := "NotificationCache.SaveUnreadCount"
	key := unreadCountKey(tenantID, userID)
	log := c.log.With(slog.String("op", op), slog.String("key", key))

	if err := c.rdb.Set(context.Background(), key, count, c.ttl).Err(); err != nil {
		log.Error("failed to save unread count to cache", "error", err)
		return notification.ErrNotificationInternal
	}
	return nil
}

func (c *NotificationCache) InvalidateUnreadCount(tenantID, userID uint) error {
	op := "NotificationCache.InvalidateUnreadCount"
	key := unreadCountKey(tenantID, userID)
	log := c.log.With(slog.String("op", op), slog.String("key", key))

	if err := c.rdb.Del(context.Background(), key).Err(); err != nil {
		log.Error("failed to invalidate unread count in cache", "error", err)
		return notification.ErrNotificationInternal
	}
	return nil
}
