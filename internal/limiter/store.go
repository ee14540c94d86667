package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type (
	// QuotaStore is the shared, process-external counter service the
	// limiter relies on. All mutation happens through atomic
	// increments; callers never read-modify-write.
	QuotaStore interface {
		// Increment atomically increments the counter stored at key,
		// creating it at 1 if absent, and returns the new value.
		Increment(ctx context.Context, key string) (int64, error)

		// Expire sets the time-to-live of the key. Re-arming an
		// existing TTL to the same duration is permitted.
		Expire(ctx context.Context, key string, ttl time.Duration) error

		// TTL reports the remaining time-to-live of the key.
		TTL(ctx context.Context, key string) (time.Duration, error)
	}

	// redisQuotaStore backs the QuotaStore with a Redis client shared
	// by every concurrently handled request for the process lifetime.
	redisQuotaStore struct {
		client *redis.Client
	}
)

func NewRedisStore(client *redis.Client) *redisQuotaStore {
	return &redisQuotaStore{client: client}
}

func (store *redisQuotaStore) Increment(ctx context.Context, key string) (int64, error) {
	return store.client.Incr(ctx, key).Result()
}

func (store *redisQuotaStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return store.client.Expire(ctx, key, ttl).Err()
}

func (store *redisQuotaStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	return store.client.TTL(ctx, key).Result()
}
