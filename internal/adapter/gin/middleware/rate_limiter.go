package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-auth-service/internal/adapter/gin/response"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	WindowSeconds     int
	Enabled           bool
}

// maxRequests is the number of requests allowed per window, at least one.
func (c RateLimiterConfig) maxRequests() int64 {
	n := int64(c.RequestsPerSecond * float64(c.WindowSeconds))
	if n < 1 {
		return 1
	}
	return n
}

// fixedWindow increments the counter and starts its expiry on first use.
// It returns the count and the remaining TTL in seconds.
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// RateLimiter throttles requests per client IP and route using a fixed
// window counter in Redis. Redis errors let the request through.
type RateLimiter struct {
	client redis.UniversalClient
	config RateLimiterConfig
	log    *zap.Logger
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client redis.UniversalClient, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	if config.WindowSeconds <= 0 {
		config.WindowSeconds = 1
	}
	return &RateLimiter{client: client, config: config, log: log}
}

// Middleware returns the gin handler. A nil limiter or a disabled config
// passes every request.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.client == nil || !rl.config.Enabled {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		key := fmt.Sprintf("ratelimit:%s:%s:%s", c.Request.Method, route, c.ClientIP())
		limit := rl.config.maxRequests()

		res, err := fixedWindow.Run(c.Request.Context(), rl.client, []string{key}, rl.config.WindowSeconds).Int64Slice()
		if err != nil || len(res) != 2 {
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", c.ClientIP()),
				zap.String("route", route),
				zap.Error(err),
			)
			c.Next()
			return
		}

		count, ttl := res[0], res[1]
		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > limit {
			rl.log.Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("route", route),
				zap.Int64("count", count),
			)
			if ttl > 0 {
				c.Header("Retry-After", strconv.FormatInt(ttl, 10))
			}
			response.Write(c, http.StatusTooManyRequests, "Too many requests")
			return
		}

		c.Next()
	}
}
