package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/PratikDhanave/heartbeat-collector/internal/auth"
	"github.com/PratikDhanave/heartbeat-collector/internal/metrics"
	"github.com/PratikDhanave/heartbeat-collector/internal/models"
	"github.com/PratikDhanave/heartbeat-collector/internal/ping"
	"github.com/PratikDhanave/heartbeat-collector/internal/store"
)

// PingDeps carries what the ingestion endpoint needs.
type PingDeps struct {
	Store        store.Store
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	MaxBodyBytes int64
	Now          func() time.Time // defaults to time.Now
}

// RegisterPingRoutes registers the ingestion-path endpoint.
//
// POST /ping
// - Content-Type must be application/json (406 otherwise)
// - Durable: returns "success" only after the DB write completes
// - mw runs before the handler, e.g. the ingest key check
func RegisterPingRoutes(r gin.IRoutes, d PingDeps, mw ...gin.HandlerFunc) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	handle := func(c *gin.Context) {
		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || mediaType != "application/json" {
			reject(c, d, http.StatusNotAcceptable, gin.H{"error": "Content-Type must be application/json"})
			return
		}

		if d.MaxBodyBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, d.MaxBodyBytes)
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				reject(c, d, http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
				return
			}
			reject(c, d, http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		// The whole body must be one JSON value; a decoder would stop after the first.
		var req models.PingRequest
		if !json.Valid(body) || binding.JSON.BindBody(body, &req) != nil {
			reject(c, d, http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		row, err := ping.Normalize(req, d.Now())
		if err != nil {
			var fe *ping.FieldError
			switch {
			case errors.As(err, &fe):
				reject(c, d, http.StatusBadRequest, gin.H{"error": fe.Error(), "field": fe.Field})
			case errors.Is(err, ping.ErrEmptyPing):
				reject(c, d, http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				reject(c, d, http.StatusBadRequest, gin.H{"error": "invalid ping"})
			}
			return
		}

		start := time.Now()
		err = d.Store.InsertPing(c.Request.Context(), &row)
		if d.Metrics != nil {
			d.Metrics.InsertDuration.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			d.Logger.ErrorContext(c.Request.Context(), "ping insert failed",
				"request_id", c.GetString(RequestIDKey),
				"error", err,
			)
			count(d, metrics.ResultFailed)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db insert failed"})
			return
		}

		count(d, metrics.ResultAccepted)
		d.Logger.InfoContext(c.Request.Context(), "ping stored",
			"request_id", c.GetString(RequestIDKey),
			"ping_id", row.PingID,
			"source", auth.Source(c),
		)
		c.String(http.StatusOK, "success")
	}

	// countAborted records pings turned away by mw (e.g. 401) as rejected.
	countAborted := func(c *gin.Context) {
		c.Next()
		if c.IsAborted() {
			count(d, metrics.ResultRejected)
		}
	}

	chain := append([]gin.HandlerFunc{countAborted}, mw...)
	chain = append(chain, handle)
	r.POST("/ping", chain...)
}

// reject answers a 4xx and counts the ping as rejected.
func reject(c *gin.Context, d PingDeps, status int, body gin.H) {
	count(d, metrics.ResultRejected)
	d.Logger.DebugContext(c.Request.Context(), "ping rejected",
		"request_id", c.GetString(RequestIDKey),
		"status", status,
		"reason", body["error"],
	)
	c.JSON(status, body)
}

func count(d PingDeps, result string) {
	if d.Metrics != nil {
		d.Metrics.Pings.WithLabelValues(result).Inc()
	}
}
