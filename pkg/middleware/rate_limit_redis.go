package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopseed/shopseed/pkg/logger"
	"github.com/shopseed/shopseed/pkg/metrics"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every API
// replica. Each window admits floor(rps*window)+burst requests per caller.
// A nil client falls back to the in-process limiter.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	windowSeconds := int64(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowed := int64(rps*float64(windowSeconds)) + int64(burst)
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		bucket := time.Now().Unix() / windowSeconds
		key := fmt.Sprintf("rl:%s:%d", limiterKey(c), bucket)

		pipe := client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Duration(windowSeconds+1)*time.Second)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Errorf("rate limit check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			return
		}
		if incr.Val() > allowed {
			c.Header("Retry-After", strconv.FormatInt(windowSeconds, 10))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
