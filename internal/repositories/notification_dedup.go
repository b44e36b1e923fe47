package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotificationDedup tracks idempotency keys in Redis so a retried
// operation does not notify a user twice.
type NotificationDedup struct {
	Client *redis.Client
}

// Once claims the key. It returns true the first time a key is seen
// within the TTL and false for every repeat.
func (d *NotificationDedup) Once(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return d.Client.SetNX(ctx, "notify:"+key, 1, ttl).Result()
}
