package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atlashq/backend/pkg/response"
)

// RateLimit returns a middleware that caps requests per client IP within a
// rolling window, counted in Redis. Fails open when Redis is unavailable so
// an infra outage does not lock everyone out.
func RateLimit(rdb *redis.Client, prefix string, max int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", prefix, c.ClientIP())
		n, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}
		if n == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}
		if n > int64(max) {
			response.TooManyRequests(c, "too many attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
