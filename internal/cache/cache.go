package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

const keyUnreadCount = "ideahub:notifications:unread"

// Recorder observes cache lookups. It may be nil.
type Recorder interface {
	RecordCacheHit(ctx context.Context, key string)
	RecordCacheMiss(ctx context.Context, key string)
}

// Cache holds derived counters in Redis. Without a client every lookup
// misses and every write is a no-op, so callers fall through to the database.
type Cache struct {
	client   *redis.Client
	ttl      time.Duration
	logger   *zap.SugaredLogger
	recorder Recorder
}

func New(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger, recorder Recorder) *Cache {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Cache{client: client, ttl: ttl, logger: logger, recorder: recorder}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

func unreadKey(userID string) string {
	return fmt.Sprintf("%s:%s", keyUnreadCount, userID)
}

// GetUnreadCount returns the cached unread count or ErrCacheMiss.
func (c *Cache) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	if !c.enabled() {
		return 0, ErrCacheMiss
	}
	val, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		if c.recorder != nil {
			c.recorder.RecordCacheMiss(ctx, keyUnreadCount)
		}
		if err == redis.Nil {
			return 0, ErrCacheMiss
		}
		c.logger.Warnw("Cache get error", "key", unreadKey(userID), "error", err)
		return 0, ErrCacheMiss
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrCacheMiss
	}
	if c.recorder != nil {
		c.recorder.RecordCacheHit(ctx, keyUnreadCount)
	}
	return count, nil
}

func (c *Cache) SetUnreadCount(ctx context.Context, userID string, count int64) error {
	if !c.enabled() {
		return nil
	}
	if err := c.client.Set(ctx, unreadKey(userID), count, c.ttl).Err(); err != nil {
		c.logger.Warnw("Cache set error", "key", unreadKey(userID), "error", err)
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// InvalidateUnreadCount drops the cached count after a notification write.
func (c *Cache) InvalidateUnreadCount(ctx context.Context, userID string) error {
	if !c.enabled() {
		return nil
	}
	if err := c.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		c.logger.Warnw("Cache delete error", "key", unreadKey(userID), "error", err)
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}
