package sessioncache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	invalidatedSetKey = "session:invalidated"
	activityKeyPrefix = "session:active:"
)

// RedisAdapter implements port.SessionCache on a shared Redis instance.
// Administrators add user ids to the invalidated set; each engine instance
// polls membership for its own user.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) IsInvalidated(ctx context.Context, userID string) (bool, error) {
	return r.client.SIsMember(ctx, invalidatedSetKey, userID).Result()
}

func (r *RedisAdapter) Invalidate(ctx context.Context, userID string) error {
	return r.client.SAdd(ctx, invalidatedSetKey, userID).Err()
}

func (r *RedisAdapter) Reinstate(ctx context.Context, userID string) error {
	return r.client.SRem(ctx, invalidatedSetKey, userID).Err()
}

func (r *RedisAdapter) MarkActive(ctx context.Context, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, activityKeyPrefix+userID, time.Now().Unix(), ttl).Err()
}
