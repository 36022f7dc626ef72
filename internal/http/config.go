package http

import (
	"github.com/redis/go-redis/v9"

	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/events"
	"github.com/mrlokans/bookreviews/internal/store"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Store  *store.Store
	Relay  *events.Relay
	Recent *events.Recent

	// Data endpoint backing file; nil disables /api/data
	DataGateway store.Gateway
	Auditor     *audit.Auditor

	// Login protection (optional)
	LoginLimiter *auth.RateLimiter

	// Health checks (all optional)
	Database      *database.Database
	Redis         *redis.Client
	PersistStatus PersistStatus
	Schedule      JobSchedule
	SnapshotClock SnapshotClock

	// Application info
	Version string

	ReadOnly       bool
	MetricsEnabled bool
}
