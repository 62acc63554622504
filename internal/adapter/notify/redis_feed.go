package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"usertable/internal/domain/notification"
)

// RedisFeed records toasts in a capped Redis list, newest first, so every
// console instance can show the same history.
type RedisFeed struct {
	client *redis.Client
	key    string
	max    int64
	log    *zap.Logger
}

// NewRedisFeed creates a new Redis-backed notification feed.
func NewRedisFeed(client *redis.Client, key string, max int64, log *zap.Logger) *RedisFeed {
	return &RedisFeed{
		client: client,
		key:    key,
		max:    max,
		log:    log,
	}
}

// Notify appends n to the feed. Failures are logged and dropped.
func (f *RedisFeed) Notify(ctx context.Context, n notification.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		f.log.Error("failed to marshal notification", zap.Error(err))
		return
	}

	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, f.key, data)
	pipe.LTrim(ctx, f.key, 0, f.max-1)
	if _, err := pipe.Exec(ctx); err != nil {
		f.log.Warn("failed to record notification", zap.String("key", f.key), zap.Error(err))
		return
	}

	f.log.Debug("notification recorded", zap.String("key", f.key), zap.String("kind", string(n.Kind)))
}

// Recent returns up to limit toasts, newest first.
func (f *RedisFeed) Recent(ctx context.Context, limit int64) ([]notification.Notification, error) {
	if limit <= 0 || limit > f.max {
		limit = f.max
	}

	raw, err := f.client.LRange(ctx, f.key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read notification feed: %w", err)
	}

	out := make([]notification.Notification, 0, len(raw))
	for _, item := range raw {
		var n notification.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			f.log.Warn("skipping malformed notification", zap.Error(err))
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
