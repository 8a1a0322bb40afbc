package services

import (
	"context"
	"crypto/rand"
	"dallasdresses_server/structs"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService wraps Redis for rate-limit counters and the access token
// blacklist. Entities are never cached. A disabled service answers every
// call with a harmless default so callers fail open.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	cs := &CacheService{logger: logger, config: cfg}
	if cfg.Cache == nil || !cfg.Cache.Enabled {
		logger.Warn("Redis is disabled, rate limiting and token revocation are inactive")
		return cs
	}

	cs.client = redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Address,
		Username: cfg.Cache.Username,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,

		// Connection pool settings
		PoolSize:        cfg.Cache.PoolSize,
		MinIdleConns:    cfg.Cache.MinIdleConns,
		MaxIdleConns:    cfg.Cache.MaxIdleConns,
		PoolTimeout:     cfg.Cache.PoolTimeout,
		ConnMaxIdleTime: cfg.Cache.IdleTimeout,

		// Timeouts
		DialTimeout:  cfg.Cache.DialTimeout,
		ReadTimeout:  cfg.Cache.ReadTimeout,
		WriteTimeout: cfg.Cache.WriteTimeout,

		// Retry settings
		MaxRetries:      cfg.Cache.MaxRetries,
		MinRetryBackoff: cfg.Cache.MinRetryBackoff,
		MaxRetryBackoff: cfg.Cache.MaxRetryBackoff,
	})
	return cs
}

// Enabled reports whether a Redis client is configured
func (cs *CacheService) Enabled() bool {
	return cs != nil && cs.client != nil
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	if !cs.Enabled() {
		return nil
	}
	return cs.client.Close()
}

// withRetry executes a Redis operation with exponential backoff and jitter
func (cs *CacheService) withRetry(ctx context.Context, operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on the last attempt
		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableRedisError(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffWithJitter(attempt)):
		}
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// backoffWithJitter returns 50-100% of an exponential delay capped at 2s
func backoffWithJitter(attempt int) time.Duration {
	maxBackoff := 2000 // max 2000ms = 2s
	base := 100        // 100ms base

	backoff := base * (1 << attempt) // exponential
	backoff = min(backoff, maxBackoff)

	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Duration(backoff) * time.Millisecond
	}
	jitter := int(binary.BigEndian.Uint32(buf[:]) % uint32(backoff/2+1))
	return time.Duration(backoff/2+jitter) * time.Millisecond
}

// isRetryableRedisError determines if an error is worth retrying
func isRetryableRedisError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Retry on network/connection errors
	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Set sets a key with TTL and automatic retry logic
func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !cs.Enabled() {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	}, 3)
}

// Get retrieves a key; a missing key yields an empty string and no error
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	if !cs.Enabled() {
		return "", nil
	}

	var result string
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil // Don't retry on key not found
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)
	if err != nil {
		return "", err
	}

	return result, nil
}

func blacklistKey(jti uuid.UUID) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

// BlacklistToken revokes a token's jti until the token would have expired
func (cs *CacheService) BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error {
	ttl := cs.config.Auth.BlacklistTTL
	if exp.After(time.Now()) {
		ttl = time.Until(exp)
	}
	return cs.Set(ctx, blacklistKey(jti), "true", ttl)
}

// IsTokenBlacklisted checks whether a jti has been revoked
func (cs *CacheService) IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	val, err := cs.Get(ctx, blacklistKey(jti))
	if err != nil {
		return false, err
	}
	return val == "true", nil
}

// IncrementRateLimit atomically increments a rate limit counter and returns
// the number of hits in the current window
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error) {
	if !cs.Enabled() {
		return 0, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s", endpoint, ip)

	var result int64
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return cs.client.Expire(ctx, key, window).Err()
		}

		return nil
	}, 3)

	return int(result), err
}

// Ping checks the Redis connection
func (cs *CacheService) Ping(ctx context.Context) error {
	if !cs.Enabled() {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Ping(ctx).Err()
	}, 3)
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	if !cs.Enabled() {
		return map[string]any{"enabled": false}
	}

	stats := cs.client.PoolStats()
	return map[string]any{
		"enabled":     true,
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
