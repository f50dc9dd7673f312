package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/filescope/filescope/internal/infrastructure/monitoring"
	"github.com/filescope/filescope/internal/logging"
	"github.com/filescope/filescope/internal/service"
	"github.com/filescope/filescope/internal/shared/types"
	"github.com/filescope/filescope/internal/shell"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "FileScope Backend"

// Version is stamped at build time.
var Version = "0.3.0"

const actionTimeout = 30 * time.Second

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	opener   *shell.Opener
	metrics  *monitoring.Metrics
	log      *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, opener *shell.Opener, metrics *monitoring.Metrics, log *logging.Logger) *Handlers {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handlers{
		registry: registry,
		opener:   opener,
		metrics:  metrics,
		log:      log,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if categoryStr := c.Query("category"); categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	services := h.registry.List(category)
	stats := h.registry.Stats()

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"stats":    stats,
	})
}

// ExecuteService runs one service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ToolID == "" || !strings.Contains(req.ToolID, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tool_id must be service.tool"})
		return
	}

	var appCtx *types.Context
	if req.TabID != nil || req.TransferID != nil {
		appCtx = &types.Context{TabID: req.TabID, TransferID: req.TransferID}
	}

	serviceID := req.ToolID[:strings.Index(req.ToolID, ".")]
	var timer *monitoring.Timer
	if h.metrics != nil {
		timer = monitoring.NewTimer(h.metrics, serviceID, req.ToolID)
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		if timer != nil {
			timer.Stop("error")
			h.metrics.RecordServiceError(serviceID, req.ToolID, "dispatch")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if timer != nil {
		if result.Success {
			timer.Stop("success")
		} else {
			timer.Stop("failure")
			h.metrics.RecordServiceError(serviceID, req.ToolID, "tool")
		}
	}

	c.JSON(http.StatusOK, result)
}

// Action hands a path to the desktop environment. The response only
// acknowledges the request; outcomes are logged server side.
func (h *Handlers) Action(c *gin.Context) {
	var req types.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path required"})
		return
	}

	switch req.Action {
	case "open":
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
			defer cancel()
			h.opener.Open(ctx, req.Path)
		}()
	case "reveal":
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
			defer cancel()
			h.opener.Reveal(ctx, req.Path)
		}()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action: " + req.Action})
		return
	}

	h.log.Debug("desktop action dispatched",
		zap.String("action", req.Action), zap.String("path", req.Path))
	c.JSON(http.StatusAccepted, gin.H{"accepted": true, "action": req.Action})
}

// MetricsJSON reports aggregate request counters for dashboards that do
// not scrape Prometheus.
func (h *Handlers) MetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	snap := h.metrics.Snapshot()
	avg := 0.0
	if snap.RequestCount > 0 {
		avg = snap.TotalDuration / float64(snap.RequestCount)
	}
	c.JSON(http.StatusOK, gin.H{
		"total_requests":       snap.TotalRequests,
		"total_errors":         snap.TotalErrors,
		"avg_duration_seconds": avg,
	})
}
