package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/graphmem"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store *graphmem.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *graphmem.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "graphmem",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// ReadinessCheck handles GET /ready - verifies the store is usable
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	if h.store != nil {
		start := time.Now()
		g := h.store.ReadGraph()
		checks["store"] = gin.H{
			"status":   "healthy",
			"entities": len(g.Entities),
			"duration": time.Since(start).String(),
		}
	} else {
		checks["store"] = gin.H{"status": "unhealthy", "error": "store not configured"}
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"service":   "graphmem",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "alive",
		"go_version": GoVersion,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
