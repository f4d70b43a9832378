package security

import (
	"context"
	"fmt"
	"time"

	"jobspace-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter enforces rate limits on file uploads using Redis sliding window
type UploadLimiter struct {
	maxPerMinute int // Max uploads per minute per IP
	maxPerDay    int // Max uploads per day per IP
}

// Lua script for sliding window rate limiting
// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in seconds
// ARGV[3] = current timestamp
// Returns: 1 if allowed, 0 if rate limited
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)

if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

// NewUploadLimiter creates an upload rate limiter
// Default: 10 uploads/min and 100 uploads/day per IP
func NewUploadLimiter(perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 100
	}
	return &UploadLimiter{
		maxPerMinute: perMin,
		maxPerDay:    perDay,
	}
}

// AllowUpload checks if an upload is allowed based on rate limits.
// Returns (allowed, retryAfterSeconds, error). Without Redis every upload
// is allowed and the returned error says why.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip string) (bool, int, error) {
	client := redis.Client()
	if client == nil {
		return true, 0, fmt.Errorf("upload limiter unavailable - Redis not connected")
	}

	now := time.Now().Unix()

	minuteKey := fmt.Sprintf("ratelimit:upload:ip:%s", ip)
	allowed, err := ul.checkLimit(ctx, client, minuteKey, ul.maxPerMinute, 60, now)
	if err != nil {
		return true, 0, fmt.Errorf("upload limit check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	dayKey := fmt.Sprintf("ratelimit:upload:day:%s", ip)
	allowed, err = ul.checkLimit(ctx, client, dayKey, ul.maxPerDay, 86400, now)
	if err != nil {
		return true, 0, fmt.Errorf("upload limit check failed: %w", err)
	}
	if !allowed {
		return false, 3600, nil
	}

	return true, 0, nil
}

// checkLimit performs the atomic sliding window rate limit check
func (ul *UploadLimiter) checkLimit(ctx context.Context, client *goredis.Client, key string, limit, window int, now int64) (bool, error) {
	result, err := client.Eval(ctx, uploadRateLimitScript, []string{key}, limit, window, now).Result()
	if err != nil {
		return false, err
	}
	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from rate limit script")
	}
	return allowed == 1, nil
}
