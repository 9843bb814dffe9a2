package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

// RateLimiter is a Redis fixed-window counter per client IP and route, so
// it holds across instances sharing one Redis.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger logger.Interface
}

// NewRateLimiter limits to limit requests per window. A nil client or a
// limit of 0 lets every request through.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, log logger.Interface) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, logger: log}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil || rl.limit <= 0 {
			c.Next()
			return
		}

		bucket := time.Now().Unix() / int64(rl.window.Seconds())
		key := fmt.Sprintf("ticketry:ratelimit:%s:%s:%d", c.FullPath(), c.ClientIP(), bucket)
		ctx := c.Request.Context()

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.client.Expire(ctx, key, rl.window+time.Second).Err(); err != nil {
				rl.logger.Warnw("failed to set rate limit expiry", "key", key, "error", err)
			}
		}

		if count > int64(rl.limit) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
