package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/events"
	http_controllers "github.com/mrlokans/bookreviews/internal/http"
	"github.com/mrlokans/bookreviews/internal/metrics"
	"github.com/mrlokans/bookreviews/internal/persistence"
	"github.com/mrlokans/bookreviews/internal/scheduler"
	"github.com/mrlokans/bookreviews/internal/store"
	"github.com/mrlokans/bookreviews/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App is the assembled service. Build wires it, Shutdown releases it in
// reverse order.
type App struct {
	Store  *store.Store
	Relay  *events.Relay
	Recent *events.Recent
	Router *gin.Engine

	db         *database.Database
	snapshots  *database.SnapshotRepository
	redis      *redis.Client
	taskClient *tasks.Client
	taskCancel context.CancelFunc
	scheduler  *scheduler.Scheduler
	limiter    *auth.RateLimiter
	collector  prometheus.Collector
	unsubs     []func()
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s", cfg.Address())
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop taking requests before the final flush so no mutation is lost
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Book Reviews v%s", version)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app, err := Build(context.Background(), cfg, version)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	Serve(app.Router, cfg, app.Shutdown)
}

// Build opens storage, loads the store and assembles the router.
func Build(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	app := &App{
		Relay:  events.NewRelay(),
		Recent: events.NewRecent(50),
	}
	ok := false
	defer func() {
		if !ok {
			app.Shutdown(ctx)
		}
	}()

	app.unsubs = append(app.unsubs, app.Recent.Attach(app.Relay), LogEvents(app.Relay))
	if cfg.Metrics.Enabled {
		app.unsubs = append(app.unsubs, metrics.ObserveEvents(app.Relay))
	}

	gateway, dataGateway, err := app.openGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}

	persister, persistStatus, err := app.newPersister(cfg, gateway)
	if err != nil {
		return nil, err
	}

	app.Store = store.New(gateway, app.Relay, store.WithPersister(persister))
	if err := app.Store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	if cfg.Bootstrap.AdminEmail != "" {
		admin, created, err := app.Store.EnsureAdmin(cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		switch {
		case err != nil:
			log.Printf("WARNING: Could not create admin %s: %v", cfg.Bootstrap.AdminEmail, err)
		case created:
			log.Printf("Created admin account %s", admin.Email)
		}
	}

	if app.taskClient != nil {
		var taskCtx context.Context
		taskCtx, app.taskCancel = context.WithCancel(context.Background())
		go app.taskClient.Start(taskCtx)
	}

	if cfg.Metrics.Enabled {
		collector := metrics.NewStoreCollector(app.Store, nil)
		if err := prometheus.Register(collector); err != nil {
			log.Printf("WARNING: Store metrics not registered: %v", err)
		} else {
			app.collector = collector
		}
	}

	if cfg.Scheduler.Enabled {
		if err := app.startScheduler(cfg); err != nil {
			return nil, err
		}
	}

	app.limiter = auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		WindowDuration:  cfg.Auth.RateLimitWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	})

	var auditor *audit.Auditor
	if cfg.Audit.Enabled {
		auditor = audit.NewAuditor(cfg.Audit.Dir)
	}

	if cfg.ReadOnly {
		log.Printf("Read-only mode enabled - write operations will be blocked")
	}

	routerCfg := http_controllers.RouterConfig{
		Store:          app.Store,
		Relay:          app.Relay,
		Recent:         app.Recent,
		DataGateway:    dataGateway,
		Auditor:        auditor,
		LoginLimiter:   app.limiter,
		Database:       app.db,
		Redis:          app.redis,
		PersistStatus:  persistStatus,
		Version:        version,
		ReadOnly:       cfg.ReadOnly,
		MetricsEnabled: cfg.Metrics.Enabled,
	}
	if app.scheduler != nil {
		routerCfg.Schedule = app.scheduler
	}
	if app.snapshots != nil {
		routerCfg.SnapshotClock = app.snapshots
	}
	app.Router = http_controllers.NewRouter(routerCfg)

	ok = true
	return app, nil
}

// openGateway returns the store gateway for the configured backend and the
// file gateway served on /api/data.
func (app *App) openGateway(ctx context.Context, cfg *config.Config) (store.Gateway, store.Gateway, error) {
	dataGateway := persistence.NewFileGateway(cfg.Storage.DataPath)

	var gateway store.Gateway
	switch cfg.Storage.Backend {
	case config.StorageFile:
		log.Printf("Storage: JSON file %s", cfg.Storage.DataPath)
		gateway = dataGateway
	case config.StorageSQLite:
		db, err := database.NewDatabase(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		app.db = db
		log.Printf("Storage: sqlite %s", cfg.Storage.DatabasePath)
		app.snapshots = database.NewSnapshotRepository(db.DB, database.DefaultSnapshotKey)
		gateway = app.snapshots
	case config.StorageHTTP:
		log.Printf("Storage: remote endpoint %s", cfg.Storage.URL)
		gateway = persistence.NewHTTPGateway(cfg.Storage.URL, cfg.Storage.Timeout)
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if !cfg.Cache.Enabled {
		return gateway, dataGateway, nil
	}

	rdb, err := persistence.ConnectRedis(ctx, persistence.RedisConfig{
		Addr: cfg.Cache.RedisAddr,
		DB:   cfg.Cache.RedisDB,
	})
	if err != nil {
		// The cache only speeds up startup; run without it
		log.Printf("WARNING: Cache disabled: %v", err)
		return gateway, dataGateway, nil
	}
	app.redis = rdb
	log.Printf("Cache: redis %s key %s", cfg.Cache.RedisAddr, cfg.Cache.Key)
	return persistence.NewCachedGateway(rdb, gateway, cfg.Cache.Key, cfg.Cache.TTL), dataGateway, nil
}

func (app *App) newPersister(cfg *config.Config, gateway store.Gateway) (store.Persister, http_controllers.PersistStatus, error) {
	onResult := func(err error, took time.Duration) {
		if cfg.Metrics.Enabled {
			metrics.RecordSnapshotWrite(err, took)
		}
		if err != nil {
			app.Relay.Emit(events.Error("Could not save changes"))
		}
	}

	switch cfg.Persist.Mode {
	case config.PersistOutbox:
		client, err := tasks.NewClient(cfg.Tasks.DBPath, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open task queue: %w", err)
		}
		app.taskClient = client
		log.Printf("Persistence: outbox %s", cfg.Tasks.DBPath)
		p := tasks.NewOutboxPersister(client, gateway, onResult)
		return p, p, nil
	default:
		log.Printf("Persistence: async")
		p := store.NewAsyncPersister(gateway, cfg.Persist.Timeout, onResult)
		return p, p, nil
	}
}

func (app *App) startScheduler(cfg *config.Config) error {
	sched := scheduler.New()
	if err := sched.Add(cfg.Scheduler.ReleaseWatchSchedule, scheduler.NewReleaseWatcher(app.Store, app.Relay, time.Now)); err != nil {
		return fmt.Errorf("schedule release watch: %w", err)
	}
	if err := sched.Add(cfg.Scheduler.FlushSchedule, scheduler.NewPeriodicFlush(app.Store, cfg.Persist.Timeout)); err != nil {
		return fmt.Errorf("schedule flush: %w", err)
	}
	sched.Start(context.Background())
	app.scheduler = sched
	return nil
}

// Shutdown stops background work, writes the final state and closes
// storage. It is safe to call on a partially built App.
func (app *App) Shutdown(ctx context.Context) {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.Store != nil {
		if err := app.Store.Shutdown(ctx); err != nil {
			log.Printf("Error saving final state: %v", err)
		}
	}

	if app.taskClient != nil {
		if app.taskCancel != nil {
			app.taskClient.Stop(ctx)
			app.taskCancel()
		}
		if err := app.taskClient.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}

	if app.limiter != nil {
		app.limiter.Stop()
	}
	if app.collector != nil {
		prometheus.Unregister(app.collector)
	}
	for _, unsub := range app.unsubs {
		unsub()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			log.Printf("Error closing redis: %v", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}
