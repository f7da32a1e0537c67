package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore counts via atomic INCR on a per-day key, for deployments with
// more than one process. Keys expire a day after first use.
type RedisStore struct {
	client *redis.Client
	limit  int
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, limit int) *RedisStore {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &RedisStore{client: client, limit: limit, now: time.Now}
}

func (s *RedisStore) key(ip string) string {
	return fmt.Sprintf("quota:%s:%s", s.now().Format("2006-01-02"), ip)
}

func (s *RedisStore) Remaining(ctx context.Context, ip string) (int, error) {
	count, err := s.client.Get(ctx, s.key(ip)).Int()
	if err == redis.Nil {
		return s.limit, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota get: %w", err)
	}
	if count >= s.limit {
		return 0, nil
	}
	return s.limit - count, nil
}

func (s *RedisStore) Incr(ctx context.Context, ip string) error {
	key := s.key(ip)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("quota incr: %w", err)
	}
	if count == 1 {
		s.client.Expire(ctx, key, 24*time.Hour)
	}
	return nil
}
