// Package http assembles the gin route tree and the HTTP server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/metrics"
	"github.com/bginsber/docketcalc/internal/interfaces/http/handlers"
	"github.com/bginsber/docketcalc/internal/interfaces/http/middleware"
)

// RouterConfig aggregates every handler and cross-cutting dependency the
// route tree needs.  Nil optional handlers leave their routes unregistered.
type RouterConfig struct {
	DeadlineHandler *handlers.DeadlineHandler
	RulePackHandler *handlers.RulePackHandler
	AuditHandler    *handlers.AuditHandler
	HealthHandler   *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *metrics.Metrics
	Mode    string
}

// NewRouter constructs the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(cfg.Mode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Probes and metrics sit outside the API group.
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
			cfg.Metrics.Registry(),
			promhttp.HandlerOpts{},
		)))
	}

	api := r.Group("/api/v1")
	{
		if cfg.DeadlineHandler != nil {
			api.POST("/deadlines/calculate", cfg.DeadlineHandler.Calculate)
			api.GET("/deadlines/service-methods", cfg.DeadlineHandler.ServiceMethods)
		}
		if cfg.RulePackHandler != nil {
			api.GET("/rulepacks", cfg.RulePackHandler.List)
			api.GET("/rulepacks/:jurisdiction", cfg.RulePackHandler.Show)
		}
		if cfg.AuditHandler != nil {
			api.GET("/audit", cfg.AuditHandler.List)
			api.GET("/audit/:id", cfg.AuditHandler.Show)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}
