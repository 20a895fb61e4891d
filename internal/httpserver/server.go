package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/heartbeat-collector/internal/auth"
	"github.com/PratikDhanave/heartbeat-collector/internal/config"
	"github.com/PratikDhanave/heartbeat-collector/internal/handlers"
	"github.com/PratikDhanave/heartbeat-collector/internal/metrics"
	"github.com/PratikDhanave/heartbeat-collector/internal/store"
)

// NewRouter wires the public endpoints.
// Operational: /health, /ready, /metrics
// Clients: GET /version, POST /ping
func NewRouter(cfg config.Config, st store.Store, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	// GET /ping must answer 405, not 404.
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger, m))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			logger.WarnContext(c.Request.Context(), "readiness check failed",
				"request_id", c.GetString(handlers.RequestIDKey),
				"error", err,
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(m.Handler()))

	handlers.RegisterVersionRoutes(r, cfg.Version)
	handlers.RegisterPingRoutes(r, handlers.PingDeps{
		Store:        st,
		Metrics:      m,
		Logger:       logger,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, auth.IngestKeyMiddleware(cfg.IngestKeys))

	return r
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
