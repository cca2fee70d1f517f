package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"go-procurement-backend/internal/delivery/http/response"
	"go-procurement-backend/pkg/logger"
)

// RateLimitConfig holds the fixed-window limiter settings.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// Key prefix for the Redis counters
	KeyPrefix string
}

type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// in-memory fallback when Redis is not configured
var (
	rateLimitStore sync.Map
	cleanupOnce    sync.Once
)

// Counter TTL is set atomically with the first increment so a crashed
// request cannot leave a counter without expiry.
const rateLimitScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			now := time.Now()
			rateLimitStore.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rateLimitStore.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}

// RateLimit applies a per-IP fixed window. Redis keeps the counters shared
// across instances; without Redis each instance counts on its own.
func RateLimit(rdb *goredis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	cleanupOnce.Do(startCleanup)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + c.ClientIP()

		var count int
		if rdb != nil {
			res, err := rdb.Eval(c.Request.Context(), rateLimitScript, []string{key},
				int(cfg.Window.Seconds())).Int()
			if err != nil {
				// degrade to in-memory rather than rejecting or waving through
				logger.Log.Warn("rate limit redis unavailable, using in-memory counter", "error", err)
				count = memoryCount(key, cfg.Window)
			} else {
				count = res
			}
		} else {
			count = memoryCount(key, cfg.Window)
		}

		if count > cfg.Limit {
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, "Too many attempts, try again later", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func memoryCount(key string, window time.Duration) int {
	now := time.Now()
	value, _ := rateLimitStore.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
	entry := value.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++
	return entry.count
}
