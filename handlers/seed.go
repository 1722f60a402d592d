package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopseed/shopseed/internal/customer/repository"
	"github.com/shopseed/shopseed/internal/lock"
	"github.com/shopseed/shopseed/internal/seed"
	"github.com/shopseed/shopseed/pkg/logger"
	"github.com/shopseed/shopseed/pkg/middleware"
)

// Applier runs a seed plan. *seed.Runner implements it.
type Applier interface {
	Apply(ctx context.Context, plan seed.Plan) (*seed.Report, error)
}

// RunHistory lists past seed runs. *history.Store implements it.
type RunHistory interface {
	Recent(ctx context.Context, limit int64) ([]seed.Report, error)
}

// SeedAPI holds what the seed endpoints need.
type SeedAPI struct {
	Runner  Applier
	History RunHistory
	Store   repository.Reader
	Plan    seed.Plan
}

func (a *SeedAPI) plan() seed.Plan {
	if a.Plan != nil {
		return a.Plan
	}
	return seed.DefaultPlan()
}

// RegisterSeedRoutes registers the seed endpoints. The protect handlers (auth,
// rate limit) guard only POST /api/seed/runs; the read endpoints are open.
//   - POST /api/seed/runs    apply the plan: 201 ok, 409 lock held, 422 step failed
//   - GET  /api/seed/runs    run history, ?limit=n
//   - GET  /api/seed/plan    the plan steps
//   - GET  /api/seed/verify  plan post-conditions checked against the collection
func RegisterSeedRoutes(r gin.IRouter, api *SeedAPI, protect ...gin.HandlerFunc) {
	post := append(append([]gin.HandlerFunc{}, protect...), api.createRun)
	r.POST("/api/seed/runs", post...)
	r.GET("/api/seed/runs", api.listRuns)
	r.GET("/api/seed/plan", api.getPlan)
	r.GET("/api/seed/verify", api.verify)
}

func (a *SeedAPI) createRun(c *gin.Context) {
	if sub := middleware.Subject(c); sub != "" {
		logger.Infof("seed run requested by %s", sub)
	}
	rep, err := a.Runner.Apply(c.Request.Context(), a.plan())
	switch {
	case errors.Is(err, lock.ErrHeld):
		c.JSON(http.StatusConflict, gin.H{"error": "a seed run is already in progress"})
	case err != nil && rep != nil:
		c.JSON(http.StatusUnprocessableEntity, rep)
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, rep)
	}
}

func (a *SeedAPI) listRuns(c *gin.Context) {
	limit := int64(20)
	if q := c.Query("limit"); q != "" {
		n, err := strconv.ParseInt(q, 10, 64)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 500"})
			return
		}
		limit = n
	}
	if a.History == nil {
		c.JSON(http.StatusOK, []seed.Report{})
		return
	}
	runs, err := a.History.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []seed.Report{}
	}
	c.JSON(http.StatusOK, runs)
}

func (a *SeedAPI) getPlan(c *gin.Context) {
	p := a.plan()
	steps := make([]gin.H, 0, len(p))
	for i, m := range p {
		steps = append(steps, gin.H{"index": i + 1, "op": m.Kind, "target": m.Target(), "summary": m.String()})
	}
	c.JSON(http.StatusOK, gin.H{"steps": steps})
}

func (a *SeedAPI) verify(c *gin.Context) {
	violations, err := seed.Verify(c.Request.Context(), a.Store, a.plan())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if violations == nil {
		violations = []seed.Violation{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": len(violations) == 0, "violations": violations})
}
