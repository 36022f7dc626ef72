package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/http"
	"github.com/mrlokans/bookreviews/internal/metrics"
	"github.com/mrlokans/bookreviews/internal/persistence"
	"github.com/mrlokans/bookreviews/internal/scheduler"
	"github.com/mrlokans/bookreviews/internal/store"
	"github.com/mrlokans/bookreviews/internal/tasks"
)

// =============================================================================
// Persistence
// =============================================================================

// Gateway implementations
var _ store.Gateway = (*persistence.FileGateway)(nil)
var _ store.Gateway = (*persistence.HTTPGateway)(nil)
var _ store.Gateway = (*persistence.CachedGateway)(nil)
var _ store.Gateway = (*database.SnapshotRepository)(nil)

// Cache layers expose the underlying source for reloads
var _ store.SourceLoader = (*persistence.CachedGateway)(nil)

// Persister implementations
var _ store.Persister = (*store.AsyncPersister)(nil)
var _ store.Persister = (*tasks.OutboxPersister)(nil)

// =============================================================================
// HTTP Controllers
// =============================================================================

var _ http.BookStore = (*store.Store)(nil)
var _ http.ReviewStore = (*store.Store)(nil)
var _ http.AccountStore = (*store.Store)(nil)
var _ http.AdminStore = (*store.Store)(nil)

var _ http.PersistStatus = (*store.AsyncPersister)(nil)
var _ http.PersistStatus = (*tasks.OutboxPersister)(nil)
var _ http.JobSchedule = (*scheduler.Scheduler)(nil)
var _ http.SnapshotClock = (*database.SnapshotRepository)(nil)

// =============================================================================
// Background Jobs
// =============================================================================

var _ scheduler.Job = (*scheduler.ReleaseWatcher)(nil)
var _ scheduler.Job = (*scheduler.PeriodicFlush)(nil)
var _ scheduler.BookLister = (*store.Store)(nil)
var _ scheduler.Flusher = (*store.Store)(nil)

// =============================================================================
// Metrics
// =============================================================================

var _ metrics.Snapshotter = (*store.Store)(nil)
