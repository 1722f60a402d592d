package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shopseed/shopseed/pkg/metrics"
	"golang.org/x/time/rate"
)

// limiterKey prefers the authenticated subject so operators behind one NAT
// don't share a bucket; anonymous callers are keyed by client IP.
func limiterKey(c *gin.Context) string {
	if sub := Subject(c); sub != "" {
		return "sub:" + sub
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

type limiterStore struct {
	rps   rate.Limit
	burst int
	m     sync.Map // map[string]*rate.Limiter
}

func (s *limiterStore) get(key string) *rate.Limiter {
	if v, ok := s.m.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := s.m.LoadOrStore(key, rate.NewLimiter(s.rps, s.burst))
	return v.(*rate.Limiter)
}

// RateLimitMiddleware enforces an in-process token bucket per caller.
// rps is the refill rate, burst the bucket size.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := &limiterStore{rps: rate.Limit(rps), burst: burst}
	return func(c *gin.Context) {
		if !store.get(limiterKey(c)).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
