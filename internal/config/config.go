package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Storage
		Cache
		Persist
		Tasks
		Scheduler
		Bootstrap
		Audit
		Metrics
		Auth
		ReadOnly bool
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Storage struct {
		Backend      StorageBackend
		DataPath     string // JSON snapshot file (file backend, /api/data endpoint)
		DatabasePath string // sqlite backend
		URL          string // remote data endpoint (http backend)
		Timeout      time.Duration
	}
	Cache struct {
		Enabled   bool
		RedisAddr string
		RedisDB   int
		Key       string
		TTL       time.Duration
	}
	Persist struct {
		Mode    PersistMode
		Timeout time.Duration
	}
	Tasks struct {
		DBPath          string
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Scheduler struct {
		Enabled              bool
		ReleaseWatchSchedule string // Cron format: "* * * * *" = every minute
		FlushSchedule        string // Cron format: "*/5 * * * *" = every 5 minutes
	}
	Bootstrap struct {
		AdminName     string
		AdminEmail    string
		AdminPassword string
	}
	Audit struct {
		Enabled bool
		Dir     string
	}
	Metrics struct {
		Enabled bool
	}
	Auth struct {
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("read_only", false)

	v.SetDefault("storage_backend", string(StorageFile))
	v.SetDefault("data_path", DefaultDataPath)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("storage_url", "")
	v.SetDefault("storage_timeout", "10s")

	v.SetDefault("cache_enabled", false)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_key", "brs:data:v3")
	v.SetDefault("cache_ttl", "0s") // no expiry

	v.SetDefault("persist_mode", string(PersistAsync))
	v.SetDefault("persist_timeout", "10s")

	v.SetDefault("tasks_db_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("scheduler_enabled", true)
	v.SetDefault("release_watch_schedule", "* * * * *")
	v.SetDefault("flush_schedule", "*/5 * * * *")

	// Demo admin account, created on startup when missing
	v.SetDefault("admin_name", "Admin")
	v.SetDefault("admin_email", "admin@example.com")
	v.SetDefault("admin_password", "admin123")

	v.SetDefault("audit_enabled", false)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("metrics_enabled", true)

	v.SetDefault("login_max_attempts", 5)
	v.SetDefault("login_window", "15m")
	v.SetDefault("login_lockout", "30m")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Storage: Storage{
			Backend:      StorageBackend(v.GetString("STORAGE_BACKEND")),
			DataPath:     v.GetString("DATA_PATH"),
			DatabasePath: v.GetString("DATABASE_PATH"),
			URL:          v.GetString("STORAGE_URL"),
			Timeout:      v.GetDuration("STORAGE_TIMEOUT"),
		},
		Cache: Cache{
			Enabled:   v.GetBool("CACHE_ENABLED"),
			RedisAddr: v.GetString("REDIS_ADDR"),
			RedisDB:   v.GetInt("REDIS_DB"),
			Key:       v.GetString("CACHE_KEY"),
			TTL:       v.GetDuration("CACHE_TTL"),
		},
		Persist: Persist{
			Mode:    PersistMode(v.GetString("PERSIST_MODE")),
			Timeout: v.GetDuration("PERSIST_TIMEOUT"),
		},
		Tasks: Tasks{
			DBPath:          v.GetString("TASKS_DB_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Scheduler: Scheduler{
			Enabled:              v.GetBool("SCHEDULER_ENABLED"),
			ReleaseWatchSchedule: v.GetString("RELEASE_WATCH_SCHEDULE"),
			FlushSchedule:        v.GetString("FLUSH_SCHEDULE"),
		},
		Bootstrap: Bootstrap{
			AdminName:     v.GetString("ADMIN_NAME"),
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		Audit: Audit{
			Enabled: v.GetBool("AUDIT_ENABLED"),
			Dir:     v.GetString("AUDIT_DIR"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Auth: Auth{
			MaxLoginAttempts: v.GetInt("LOGIN_MAX_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("LOGIN_WINDOW"),
			LockoutDuration:  v.GetDuration("LOGIN_LOCKOUT"),
		},
		ReadOnly: v.GetBool("READ_ONLY"),
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageFile, StorageSQLite:
	case StorageHTTP:
		if c.Storage.URL == "" {
			return fmt.Errorf("STORAGE_URL is required for the %s backend", StorageHTTP)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	switch c.Persist.Mode {
	case PersistAsync, PersistOutbox:
	default:
		return fmt.Errorf("unknown PERSIST_MODE %q", c.Persist.Mode)
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
