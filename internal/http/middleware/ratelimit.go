package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

type clientInfo struct {
	start time.Time
	count int
}

// RateLimiter is a fixed-window limiter keyed by client IP. Counters live in
// Redis when a client is configured and in process memory otherwise, or when
// Redis fails.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*clientInfo
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:   client,
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientInfo),
	}
}

// windowKey formats rl:<window_seconds>:<identifier>.
func windowKey(window time.Duration, ident string) string {
	return "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
}

// allow counts one request for ident and returns the count in the current
// window.
func (l *RateLimiter) allow(ctx context.Context, ident string) (int64, error) {
	if l.redis == nil {
		return l.allowLocal(ident), nil
	}

	// INCR and EXPIRE NX run in one MULTI, so a counter never outlives its
	// window even if an earlier request failed to set the TTL.
	key := windowKey(l.window, ident)
	var incr *redis.IntCmd
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return l.allowLocal(ident), err
	}
	return incr.Val(), nil
}

func (l *RateLimiter) allowLocal(ident string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ci, ok := l.clients[ident]
	if !ok || now.Sub(ci.start) >= l.window {
		ci = &clientInfo{start: now}
		l.clients[ident] = ci
		l.sweep(now)
	}
	ci.count++
	return int64(ci.count)
}

// sweep drops expired windows. Called with mu held.
func (l *RateLimiter) sweep(now time.Time) {
	for k, ci := range l.clients {
		if now.Sub(ci.start) >= l.window {
			delete(l.clients, k)
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		count, err := l.allow(ctx, c.ClientIP())
		cancel()
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			logger.Warn("rate limiter redis error, using local window", "error", err)
		}

		remaining := int64(l.limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(l.limit) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": domain.ErrRateLimited.Message})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
