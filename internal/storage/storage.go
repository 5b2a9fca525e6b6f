// Package storage persists encoded timelines under a name.
package storage

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when no timeline is stored under a name.
var ErrNotFound = errors.New("storage: timeline not found")

// Store holds encoded timeline documents by name. Stores treat the bytes
// as opaque; callers encode and decode through the codec package.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores data under name, replacing any previous document.
	Save(ctx context.Context, name string, data []byte) error

	// Load returns the document stored under name or ErrNotFound.
	Load(ctx context.Context, name string) ([]byte, error)

	// List returns every stored name in ascending order.
	List(ctx context.Context) ([]string, error)

	// Delete removes name. Missing names return ErrNotFound.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config selects and configures a backend.
type Config struct {
	Backend string       `json:"backend" env:"BACKEND"`
	File    FileConfig   `json:"file" envPrefix:"FILE_"`
	Redis   RedisConfig  `json:"redis" envPrefix:"REDIS_"`
	SQLite  SQLiteConfig `json:"sqlite" envPrefix:"SQLITE_"`
}

// FileConfig configures the directory backend.
type FileConfig struct {
	Dir string `json:"dir" env:"DIR"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Host         string        `json:"host" env:"HOST"`
	Port         int           `json:"port" env:"PORT"`
	Password     string        `json:"password" env:"PASSWORD"`
	DB           int           `json:"db" env:"DB"`
	Cluster      bool          `json:"cluster" env:"CLUSTER"`
	ClusterNodes []string      `json:"cluster_nodes" env:"CLUSTER_NODES" envSeparator:","`
	PoolSize     int           `json:"pool_size" env:"POOL_SIZE"`
	MaxRetries   int           `json:"max_retries" env:"MAX_RETRIES"`
	DialTimeout  time.Duration `json:"dial_timeout" env:"DIAL_TIMEOUT"`
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	Path string `json:"path" env:"PATH"`
}

// DefaultConfig returns a file backend rooted at ./timelines.
func DefaultConfig() Config {
	return Config{
		Backend: BackendFile,
		File:    FileConfig{Dir: DefaultDir},
		Redis: RedisConfig{
			Host:        "localhost",
			Port:        6379,
			PoolSize:    defaultRedisPoolSize,
			MaxRetries:  defaultRedisMaxRetries,
			DialTimeout: defaultRedisDialTimeout,
		},
		SQLite: SQLiteConfig{Path: "rewind.db"},
	}
}

// Open constructs the backend named by cfg.Backend.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.File.Dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(&cfg.Redis)
	case BackendSQLite:
		return NewSQLiteStore(cfg.SQLite.Path)
	default:
		return nil, errors.Errorf("unknown storage backend %q, must be one of: file, memory, redis, sqlite", cfg.Backend)
	}
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateName reports whether name can be used as a timeline name on every
// backend: 1 to 128 characters of letters, digits, '.', '_' or '-', not
// starting with a separator.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("timeline name is required")
	}
	if !namePattern.MatchString(name) {
		return errors.Errorf("invalid timeline name %q", name)
	}
	return nil
}
