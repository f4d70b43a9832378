package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"jobspace-backend/internal/delivery/http/response"
	"jobspace-backend/pkg/audit"
	"jobspace-backend/pkg/redis"
	"jobspace-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig describes one fixed window. KeyFunc defaults to the
// client IP; FailClosed rejects requests when Redis errors instead of
// falling back to memory.
type RateLimitConfig struct {
	Limit      int
	Window     time.Duration
	KeyFunc    func(*gin.Context) string
	KeyPrefix  string
	FailClosed bool
}

type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// memoryStore is the fallback used when Redis is not configured.
type memoryStore struct {
	entries sync.Map
	once    sync.Once
}

var fallbackStore = &memoryStore{}

// rateLimitLuaScript increments KEYS[1], starting its TTL (ARGV[1]) on the
// first hit, and returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// startCleanup runs a background goroutine to clean up expired entries
func (s *memoryStore) startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			now := time.Now()
			s.entries.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					s.entries.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}

// DefaultRateLimitConfig is the global per-IP limit.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     300,
		Window:    time.Minute,
		KeyPrefix: "rl:ip:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// LoginRateLimitConfig guards POST /auth/login.
func LoginRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:      5,
		Window:     time.Minute,
		KeyPrefix:  "rl:login:",
		FailClosed: true,
		KeyFunc:    func(c *gin.Context) string { return c.ClientIP() },
	}
}

// RateLimitMiddleware counts requests in Redis when it is connected and in
// process memory otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return rateLimit(config, fallbackStore)
}

func rateLimit(config RateLimitConfig, store *memoryStore) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time
		var err error

		if redisClient := redis.Client(); redisClient != nil {
			count, resetAt, err = checkRateLimitRedis(c.Request.Context(), redisClient, fullKey, config)
			if err != nil {
				if config.FailClosed {
					logRateLimitEvent(c, map[string]interface{}{"error_type": "redis_error", "error": err.Error()})
					response.Error(c, http.StatusServiceUnavailable, "Service temporairement indisponible, réessayez plus tard.")
					c.Abort()
					return
				}
				count, resetAt = store.check(fullKey, config, now)
			}
		} else {
			count, resetAt = store.check(fullKey, config, now)
		}

		if count > config.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logRateLimitEvent(c, map[string]interface{}{"endpoint": c.FullPath()})

			response.Error(c, http.StatusTooManyRequests, "Trop de requêtes, réessayez plus tard.")
			c.Abort()
			return
		}

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		c.Next()
	}
}

func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

// check counts a request against the in-memory window of key.
func (s *memoryStore) check(key string, config RateLimitConfig, now time.Time) (int, time.Time) {
	s.once.Do(s.startCleanup)

	entryI, _ := s.entries.LoadOrStore(key, &rateLimitEntry{
		resetAt: now.Add(config.Window),
	})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

func logRateLimitEvent(c *gin.Context, details map[string]interface{}) {
	audit.Default().Log(c.Request.Context(), audit.Event{
		Event:   audit.EventRateLimitTriggered,
		IP:      c.ClientIP(),
		Details: details,
	})
}

// UploadLimitMiddleware applies the per-IP sliding windows of limiter to
// upload requests.
func UploadLimitMiddleware(limiter *security.UploadLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := limiter.AllowUpload(c.Request.Context(), c.ClientIP())
		if err != nil {
			// fail open: availability of uploads beats strict limiting
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimitEvent(c, map[string]interface{}{"endpoint": "upload"})
			response.Error(c, http.StatusTooManyRequests, "Trop d'envois de fichiers, réessayez plus tard.")
			c.Abort()
			return
		}
		c.Next()
	}
}
