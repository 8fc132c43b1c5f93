package db

import (
	"context"
	"fmt"
	"math"
	"time"

	"taskboard/internal/logger"
)

// RetryConfig holds the backoff used while waiting for the database.
type RetryConfig struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 200 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 5 * time.Second
	}
	if c.BackoffMultiplier < 1 {
		c.BackoffMultiplier = 2
	}
	return c
}

// Retry runs fn until it succeeds, attempts run out or ctx is done.
func Retry(ctx context.Context, cfg RetryConfig, op string, fn func(context.Context) error) error {
	cfg = cfg.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		backoff := backoffFor(attempt-1, cfg)
		logger.Warn("operation failed, retrying",
			"operation", op,
			"attempt", attempt,
			"max_attempts", cfg.MaxAttempts,
			"backoff", backoff,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("operation '%s' failed after %d attempts: %w", op, cfg.MaxAttempts, lastErr)
}

func backoffFor(attempt int, cfg RetryConfig) time.Duration {
	d := time.Duration(float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffMultiplier, float64(attempt)))
	if d > cfg.MaxBackoff {
		d = cfg.MaxBackoff
	}
	return d
}
