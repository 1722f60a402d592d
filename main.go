package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopseed/shopseed/handlers"
	"github.com/shopseed/shopseed/internal/app"
	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/internal/customer/handler"
	"github.com/shopseed/shopseed/internal/oidc"
	"github.com/shopseed/shopseed/internal/seed"
	"github.com/shopseed/shopseed/internal/tokens"
	"github.com/shopseed/shopseed/pkg/logger"
	"github.com/shopseed/shopseed/pkg/metrics"
	"github.com/shopseed/shopseed/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v redis=%v jwt_secret_set=%v", cfg.Keycloak.URL != "", cfg.Redis.Host != "", cfg.JWT.Secret != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("startup: %v", err)
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(a, verifiers(ctx, cfg)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("shopseed-api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		logger.Errorf("close backends: %v", err)
	}
}

// verifiers returns the token checks guarding seed runs: operator HMAC tokens
// when JWT_SECRET is set, Keycloak ID tokens when Keycloak is configured.
func verifiers(ctx context.Context, cfg *config.Config) []middleware.Verifier {
	var out []middleware.Verifier
	if cfg.JWT.Secret != "" {
		out = append(out, tokens.NewHMACVerifier(cfg.JWT.Secret))
	}
	if cfg.Keycloak.URL != "" && cfg.Keycloak.Realm != "" && cfg.Keycloak.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, oidc.IssuerURL(cfg.Keycloak.URL, cfg.Keycloak.Realm), cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			out = append(out, ver)
		}
	}
	if len(out) == 0 {
		logger.Warn("neither JWT_SECRET nor KEYCLOAK_URL is set; POST /api/seed/runs is unauthenticated")
	}
	return out
}

func newRouter(a *app.App, vers []middleware.Verifier) *gin.Engine {
	cfg := a.Config
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), gin.Logger())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ready := true
		deps := map[string]bool{}
		for name, err := range a.Ready(ctx) {
			deps[name] = err == nil
			if err != nil {
				logger.Warnf("readiness: %s: %v", name, err)
				ready = false
			}
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)
	handler.RegisterCustomerRoutes(r, a.Customers)

	var protect []gin.HandlerFunc
	if len(vers) > 0 {
		protect = append(protect, middleware.AuthMiddleware(vers...))
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && a.Redis() != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			protect = append(protect, middleware.RedisRateLimitMiddleware(a.Redis(), cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			protect = append(protect, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	api := &handlers.SeedAPI{Runner: a.Runner(), Store: a.Customers, Plan: seed.DefaultPlan()}
	if a.History != nil {
		api.History = a.History
	}
	handlers.RegisterSeedRoutes(r, api, protect...)
	return r
}
