// Package api exposes the ops surface: health, run trigger, run status and cost summary.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolscout/budget"
	"toolscout/logging"
	"toolscout/pipeline"
)

// Runner is the pipeline as seen by the HTTP layer
type Runner interface {
	RunOnce(ctx context.Context, bypassMinPicks bool) (pipeline.Outcome, error)
	LastSummary() (pipeline.Summary, bool)
	CostSummary() budget.Summary
	Status() pipeline.Status
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(runner Runner, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterHealthRoutes(r)
	RegisterCurationRoutes(r, runner, logging.OrNop(log))
	return r
}
