package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bginsber/docketcalc/internal/application/docket"
)

// HealthChecker is any backend whose availability gates readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	service  *docket.Service
	checkers map[string]HealthChecker
}

// NewHealthHandler builds the probe handler.  checkers maps a backend name to
// its checker; optional backends simply are not registered.
func NewHealthHandler(service *docket.Service, checkers map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{service: service, checkers: checkers}
}

// Liveness handles GET /healthz.  It reports only that the process serves.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz.  Ready means the engine has jurisdictions
// loaded and every registered backend answers a ping.
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := http.StatusOK
	backends := gin.H{}

	if len(h.service.Jurisdictions()) == 0 {
		status = http.StatusServiceUnavailable
		backends["engine"] = "no jurisdictions loaded"
	} else {
		backends["engine"] = "ok"
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for name, checker := range h.checkers {
		if err := checker.HealthCheck(ctx); err != nil {
			status = http.StatusServiceUnavailable
			backends[name] = err.Error()
			continue
		}
		backends[name] = "ok"
	}

	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"backends": backends,
	})
}
