package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jurko22/xml-import/internal/reconcile"
	"github.com/jurko22/xml-import/internal/store"
	"github.com/jurko22/xml-import/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers for the watcher daemon
type Handler struct {
	store *store.Store
	sync  *reconcile.SyncService
}

// NewHandler creates a new HTTP handler
func NewHandler(store *store.Store, sync *reconcile.SyncService) *Handler {
	return &Handler{
		store: store,
		sync:  sync,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sync", h.triggerSync)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck verifies database connectivity
func (h *Handler) readinessCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// triggerSync runs one feed sync and returns its summary
func (h *Handler) triggerSync(c *gin.Context) {
	if h.sync == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Feed sync is not configured",
		})
		return
	}

	summary, err := h.sync.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Feed sync failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// prometheusMiddleware records request metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		util.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		util.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
