package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"messenger-service/internal/service"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RegisterOpsRoutes wires health and metrics endpoints.
func RegisterOpsRoutes(router *gin.Engine, db Pinger) {
	router.GET("/healthz", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, events service.EventEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/event-test", func(c *gin.Context) {
		if events == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event emitter not configured"})
			return
		}
		events.Emit(c.Request.Context(), "debug.test", 0, gin.H{"request_id": requestIDFromContext(c)})
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
