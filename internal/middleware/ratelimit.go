package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Counter is the slice of cache.Store the rate limiter uses.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// RateLimit is a per-IP fixed window counter in redis. The window starts at
// the first request; the n+1th request inside it gets a 429. Redis being down
// lets requests through rather than blocking the public site.
func RateLimit(counter Counter, log zerolog.Logger, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rl:%s:%s", scope, c.ClientIP())

		count, err := counter.Incr(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limit counter unavailable")
			c.Next()
			return
		}
		if count == 1 {
			if err := counter.Expire(c.Request.Context(), key, window); err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limit expire failed")
			}
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "rate_limit_exceeded",
			})
			return
		}

		c.Next()
	}
}
