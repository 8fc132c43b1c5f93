package middleware

import (
	"context"
	"time"

	"taskboard/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis for the rate limiter. It returns nil when
// addr is empty or the server does not answer, and the limiter then keeps its
// windows in memory.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting in memory", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("redis rate limiter connected", "addr", addr)
	return client
}
