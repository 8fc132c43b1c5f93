package handlers

import (
	"context"
	"net/http"
	"time"

	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness checks.
type HealthHandler struct {
	db      Pinger
	started time.Time
	version string
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now(), version: version}
}

type ReadinessReport struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// pingDB reports whether the database answered within timeout. Failures are
// logged here and never returned to clients.
func (h *HealthHandler) pingDB(c *gin.Context, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.WithContext(c.Request.Context()).Warn("database ping failed",
			"route", c.FullPath(),
			"error", err,
		)
		return false
	}
	return true
}

// Liveness answers as long as the process serves HTTP.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports 503 until the database answers a ping.
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := ReadinessReport{
		Status:    "ready",
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]string{"database": "ok"},
	}
	code := http.StatusOK
	if !h.pingDB(c, 5*time.Second) {
		report.Status = "unavailable"
		report.Checks["database"] = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

// Health answers {"status":"ok"} while the database is reachable.
func (h *HealthHandler) Health(c *gin.Context) {
	if !h.pingDB(c, 3*time.Second) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "database unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
