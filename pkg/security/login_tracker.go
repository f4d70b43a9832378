package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobspace-backend/pkg/audit"
	"jobspace-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // Failed attempts before a block (default: 5)
	AttemptWindow time.Duration // Window the attempts are counted in (default: 15min)
	BlockDuration time.Duration // How long a block lasts (default: 15min)
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed logins per email in Redis and blocks the
// address once the limit is reached. Without Redis it tracks nothing.
type LoginTracker struct {
	config LoginTrackerConfig
}

func NewLoginTracker(config LoginTrackerConfig) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config = DefaultLoginTrackerConfig()
	}
	return &LoginTracker{config: config}
}

// Redis key patterns
const (
	failLoginPrefix    = "fail:login:user:"
	blockedLoginPrefix = "blocked:login:user:"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count after increment
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked reports whether email is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	client := redis.Client()
	if client == nil {
		return false, nil
	}
	exists, err := client.Exists(ctx, blockedLoginPrefix+normalizeEmail(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailure counts a failed attempt and reports whether it triggered a
// block.
func (lt *LoginTracker) RecordFailure(ctx context.Context, email string) (bool, error) {
	client := redis.Client()
	if client == nil {
		return false, nil
	}
	email = normalizeEmail(email)

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	count, err := atomicIncrement(ctx, client, failLoginPrefix+email, ttlSeconds)
	if err != nil {
		return false, fmt.Errorf("failed to increment login counter: %w", err)
	}
	if count < lt.config.MaxAttempts {
		return false, nil
	}

	if err := client.Set(ctx, blockedLoginPrefix+email, "1", lt.config.BlockDuration).Err(); err != nil {
		return false, fmt.Errorf("failed to set login block: %w", err)
	}
	audit.Default().Log(ctx, audit.Event{
		Event: audit.EventLoginBlocked,
		Actor: audit.MaskEmail(email),
		Details: map[string]interface{}{
			"attempts":         count,
			"duration_minutes": int(lt.config.BlockDuration.Minutes()),
		},
	})
	return true, nil
}

// Clear forgets the failed attempts of email after a successful login.
func (lt *LoginTracker) Clear(ctx context.Context, email string) error {
	client := redis.Client()
	if client == nil {
		return nil
	}
	if err := client.Del(ctx, failLoginPrefix+normalizeEmail(email)).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

func atomicIncrement(ctx context.Context, client *goredis.Client, key string, ttlSeconds int) (int, error) {
	result, err := client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
