package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopseed/shopseed/pkg/metrics"
	"github.com/stretchr/testify/require"
)

func hit(r *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2))
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	require.Equal(t, http.StatusOK, hit(r, "/ok"))
	require.Equal(t, http.StatusOK, hit(r, "/ok"))
	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory"))
	require.Equal(t, http.StatusOK, hit(r, "/limited"))
	require.Equal(t, http.StatusTooManyRequests, hit(r, "/limited"))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory")))

	// one token refills after 500ms
	time.Sleep(600 * time.Millisecond)
	require.Equal(t, http.StatusOK, hit(r, "/limited"))
}

func TestRateLimitMiddleware_SeparateBucketsPerSubject(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ClaimsKey, map[string]interface{}{"sub": c.Query("sub")})
		c.Next()
	})
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, hit(r, "/u?sub=a"))
	require.Equal(t, http.StatusTooManyRequests, hit(r, "/u?sub=a"))
	require.Equal(t, http.StatusOK, hit(r, "/u?sub=b"))
}

func TestRateLimitMiddleware_InstancesDoNotShareBuckets(t *testing.T) {
	strict := gin.New()
	strict.Use(RateLimitMiddleware(0.1, 1))
	strict.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	loose := gin.New()
	loose.Use(RateLimitMiddleware(100, 10))
	loose.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, hit(strict, "/"))
	require.Equal(t, http.StatusTooManyRequests, hit(strict, "/"))
	require.Equal(t, http.StatusOK, hit(loose, "/"))
}
