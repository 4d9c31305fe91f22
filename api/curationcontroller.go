package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolscout/curation"
	"toolscout/pipeline"
)

// RegisterCurationRoutes registers the run trigger and summary endpoints.
func RegisterCurationRoutes(r *gin.Engine, runner Runner, log *zap.SugaredLogger) {
	h := &curationHandler{runner: runner, log: log}
	g := r.Group("/api/curation")
	g.POST("/run", h.run)
	g.GET("/summary", h.summary)
	g.GET("/status", h.status)
}

type curationHandler struct {
	runner Runner
	log    *zap.SugaredLogger
}

// RunResponse is the body of a finished synchronous run
type RunResponse struct {
	Status  string           `json:"status"` // "ok", "scrapped", "started"
	Outcome pipeline.Outcome `json:"outcome"`
}

// run executes one compilation cycle. With async=true it starts the run in the
// background and returns 202 immediately.
func (h *curationHandler) run(c *gin.Context) {
	bypass, err := queryBool(c, "bypass")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bypass must be a boolean"})
		return
	}
	async, err := queryBool(c, "async")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "async must be a boolean"})
		return
	}

	if async {
		go func() {
			_, err := h.runner.RunOnce(context.Background(), bypass)
			if err != nil && !errors.Is(err, pipeline.ErrRunInProgress) {
				h.log.Warnf("⚠️  Background run failed: %v", err)
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"status": "started"})
		return
	}

	out, err := h.runner.RunOnce(c.Request.Context(), bypass)
	switch {
	case errors.Is(err, pipeline.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, curation.ErrInsufficientDiscoveries):
		c.JSON(http.StatusUnprocessableEntity, RunResponse{Status: "scrapped", Outcome: out})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, RunResponse{Status: "ok", Outcome: out})
	}
}

// summary returns the live cost ledger and the last finished run, if any
func (h *curationHandler) summary(c *gin.Context) {
	resp := gin.H{"cost": h.runner.CostSummary()}
	if last, ok := h.runner.LastSummary(); ok {
		resp["lastRun"] = last
	}
	c.JSON(http.StatusOK, resp)
}

// status returns the current run phase with its recent log lines
func (h *curationHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.runner.Status())
}

func queryBool(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
