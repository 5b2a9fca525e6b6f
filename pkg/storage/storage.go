// Package storage persists encoded timelines by name.
package storage

import internalstorage "github.com/SmitUplenchwar2687/Rewind/internal/storage"

// Store saves and loads encoded timelines.
type Store = internalstorage.Store

type (
	Config       = internalstorage.Config
	FileConfig   = internalstorage.FileConfig
	RedisConfig  = internalstorage.RedisConfig
	SQLiteConfig = internalstorage.SQLiteConfig
)

type (
	FileStore   = internalstorage.FileStore
	MemoryStore = internalstorage.MemoryStore
	RedisStore  = internalstorage.RedisStore
	SQLiteStore = internalstorage.SQLiteStore
)

const (
	BackendFile   = internalstorage.BackendFile
	BackendMemory = internalstorage.BackendMemory
	BackendRedis  = internalstorage.BackendRedis
	BackendSQLite = internalstorage.BackendSQLite
)

// ErrNotFound is returned for names that are not stored.
var ErrNotFound = internalstorage.ErrNotFound

// DefaultConfig returns the file backend under ./timelines.
func DefaultConfig() Config {
	return internalstorage.DefaultConfig()
}

// Open creates the store selected by cfg.Backend.
func Open(cfg Config) (Store, error) {
	return internalstorage.Open(cfg)
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return internalstorage.NewMemoryStore()
}

// NewFileStore creates a store that keeps one file per timeline in dir.
func NewFileStore(dir string) (*FileStore, error) {
	return internalstorage.NewFileStore(dir)
}

// NewRedisStore connects to Redis.
func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	return internalstorage.NewRedisStore(cfg)
}

// NewSQLiteStore opens or creates a SQLite database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return internalstorage.NewSQLiteStore(path)
}

// ValidateName reports whether name is usable on every backend.
func ValidateName(name string) error {
	return internalstorage.ValidateName(name)
}
