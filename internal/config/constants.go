package config

// Default paths for local storage
const (
	// DefaultDataPath is the JSON snapshot written by the file backend
	DefaultDataPath = "./data/seed.json"

	// DefaultDatabasePath is used by the sqlite snapshot backend
	DefaultDatabasePath = "./data/bookreviews.db"

	// DefaultTasksDatabasePath holds the outbox task queue
	DefaultTasksDatabasePath = "./data/bookreviews-tasks.db"
)

type StorageBackend string

const (
	StorageFile   StorageBackend = "file"
	StorageSQLite StorageBackend = "sqlite"
	StorageHTTP   StorageBackend = "http"
)

type PersistMode string

const (
	PersistAsync  PersistMode = "async"  // coalescing background writer (default)
	PersistOutbox PersistMode = "outbox" // task queue with retries
)
