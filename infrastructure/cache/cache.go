package cache

import (
	"context"

	"social-hub/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects to Redis. A nil client is returned when Redis is not
// reachable; callers fall back to in-process alternatives.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available")
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
