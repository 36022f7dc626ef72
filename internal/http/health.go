package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mrlokans/bookreviews/internal/database"
)

const healthCheckTimeout = 2 * time.Second

type HealthResponse struct {
	Status            string            `json:"status"`
	Time              string            `json:"time"`
	Version           string            `json:"version,omitempty"`
	Checks            map[string]string `json:"checks"`
	SnapshotUpdatedAt string            `json:"snapshotUpdatedAt,omitempty"`
	NextRuns          map[string]string `json:"nextRuns,omitempty"`
}

type HealthController struct {
	db       *database.Database
	redis    *redis.Client
	persist  PersistStatus
	schedule JobSchedule
	snapshot SnapshotClock
	version  string
}

// NewHealthController creates the controller. Every dependency is optional;
// missing ones are reported as "not configured".
func NewHealthController(db *database.Database, rdb *redis.Client, persist PersistStatus, version string) *HealthController {
	return &HealthController{
		db:      db,
		redis:   rdb,
		persist: persist,
		version: version,
	}
}

// WithSchedule adds the scheduler state and next run times to the report.
func (h *HealthController) WithSchedule(schedule JobSchedule) *HealthController {
	h.schedule = schedule
	return h
}

// WithSnapshotClock adds the time of the last persisted write to the report.
func (h *HealthController) WithSnapshotClock(clock SnapshotClock) *HealthController {
	h.snapshot = clock
	return h
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// The cache is optional, so a failing Redis degrades but does not fail
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["cache"] = "degraded: " + err.Error()
		} else {
			checks["cache"] = "ok"
		}
	} else {
		checks["cache"] = "not configured"
	}

	if h.persist != nil {
		if err := h.persist.LastError(); err != nil {
			checks["persistence"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["persistence"] = "ok"
		}
	} else {
		checks["persistence"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	// A stopped scheduler is reported but does not fail the check
	if h.schedule != nil {
		if h.schedule.IsRunning() {
			checks["scheduler"] = "running"
			health.NextRuns = make(map[string]string)
			for _, name := range h.schedule.Jobs() {
				if next := h.schedule.NextRun(name); next != nil {
					health.NextRuns[name] = next.UTC().Format(time.RFC3339)
				}
			}
		} else {
			checks["scheduler"] = "stopped"
		}
	} else {
		checks["scheduler"] = "not configured"
	}

	if h.snapshot != nil {
		if at, err := h.snapshot.UpdatedAt(ctx); err == nil {
			health.SnapshotUpdatedAt = at.UTC().Format(time.RFC3339)
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
