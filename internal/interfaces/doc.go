// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Persistence
//
//   - store.Gateway: load and save the whole snapshot (internal/store/store.go).
//     Implemented by the JSON file, the remote data endpoint, the sqlite
//     snapshot table and the Redis cache layer.
//   - store.SourceLoader: read past a cache layer (used by admin reloads)
//   - store.Persister: receives the state after every mutation
//     (AsyncPersister, tasks.OutboxPersister)
//
// ## HTTP Controllers
//
//   - BookStore, ReviewStore, AccountStore, AdminStore (internal/http/stores.go)
//   - PersistStatus: last background write result, shown on /health
//
// ## Background Jobs
//
//   - scheduler.Job: a named unit of work run on a cron schedule
//
// # Adding a New Storage Backend
//
// To keep the snapshot somewhere else (e.g. S3):
//
//  1. Implement store.Gateway in internal/persistence/
//
//     type S3Gateway struct {
//         bucket string
//         key    string
//     }
//
//     func (g *S3Gateway) Load(ctx context.Context) (*entities.Snapshot, error)
//     func (g *S3Gateway) Save(ctx context.Context, snap *entities.Snapshot) error
//
//     Load must return entities.ErrSnapshotNotFound when nothing is stored
//     and decode with entities.DecodeSnapshot so invalid documents are
//     reported as entities.ErrInvalidSnapshot.
//
//  2. Add a StorageBackend constant in internal/config and a case in
//     entrypoint.openGateway
//
//  3. Add a compile-time check in checks.go
//
// # Adding a New Scheduled Job
//
//  1. Implement scheduler.Job in internal/scheduler/
//
//     func (j *DigestJob) Name() string { return "digest" }
//     func (j *DigestJob) Run(ctx context.Context)
//
//  2. Add its schedule to config.Scheduler and register it in
//     entrypoint.startScheduler
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
