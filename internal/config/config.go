package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Rewind/internal/capture"
	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/logging"
	"github.com/SmitUplenchwar2687/Rewind/internal/storage"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "REWIND_"

// Config is the top-level configuration for a Rewind process.
type Config struct {
	Server  ServerConfig    `json:"server" envPrefix:"SERVER_"`
	Storage storage.Config  `json:"storage" envPrefix:"STORAGE_"`
	Codec   CodecConfig     `json:"codec" envPrefix:"CODEC_"`
	Capture CaptureConfig   `json:"capture" envPrefix:"CAPTURE_"`
	Log     logging.Options `json:"log" envPrefix:"LOG_"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `json:"addr" env:"ADDR"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// CodecConfig selects the encoding used when writing timelines.
type CodecConfig struct {
	Format string `json:"format" env:"FORMAT"`
}

// CaptureConfig selects which input modalities are recorded.
type CaptureConfig struct {
	Modes string `json:"modes" env:"MODES"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Storage: storage.DefaultConfig(),
		Codec:   CodecConfig{Format: string(codec.FormatJSON)},
		Capture: CaptureConfig{Modes: capture.ModeAll},
		Log:     logging.DefaultOptions(),
	}
}

// Validate checks that the config is valid.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.Errorf("server.shutdown_timeout must be non-negative, got %s", c.Server.ShutdownTimeout)
	}
	if _, err := codec.ParseFormat(c.Codec.Format); err != nil {
		return errors.Wrap(err, "codec.format")
	}
	if _, err := capture.ParseModes(c.Capture.Modes); err != nil {
		return errors.Wrap(err, "capture.modes")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	switch c.Log.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return errors.Errorf("unknown log.format %q, must be one of: text, json", c.Log.Format)
	}
	return c.validateStorage()
}

func (c Config) validateStorage() error {
	s := c.Storage
	switch s.Backend {
	case storage.BackendFile:
		if strings.TrimSpace(s.File.Dir) == "" {
			return errors.New("storage.file.dir is required when storage.backend=file")
		}
	case storage.BackendMemory:
	case storage.BackendRedis:
		if s.Redis.Cluster {
			if len(s.Redis.ClusterNodes) == 0 {
				return errors.New("storage.redis.cluster_nodes is required when storage.redis.cluster=true")
			}
		} else {
			if strings.TrimSpace(s.Redis.Host) == "" {
				return errors.New("storage.redis.host is required when storage.backend=redis")
			}
			if s.Redis.Port <= 0 {
				return errors.Errorf("storage.redis.port must be positive, got %d", s.Redis.Port)
			}
		}
		if s.Redis.DialTimeout < 0 {
			return errors.Errorf("storage.redis.dial_timeout must be non-negative, got %s", s.Redis.DialTimeout)
		}
	case storage.BackendSQLite:
		if strings.TrimSpace(s.SQLite.Path) == "" {
			return errors.New("storage.sqlite.path is required when storage.backend=sqlite")
		}
	default:
		return errors.Errorf("unknown storage backend %q, must be one of: file, memory, redis, sqlite", s.Backend)
	}
	return nil
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any REWIND_* environment variables that are
// set. Unset variables leave the current value alone.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Wrap(err, "parsing environment")
	}
	return nil
}

// LoadFile reads a JSON config file and merges it with defaults.
// Fields not specified in the file retain their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}

	// Use a raw intermediate struct to handle duration parsing.
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, errors.Wrap(err, "parsing config file")
	}

	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	if raw.Server.ShutdownTimeout != "" {
		d, err := time.ParseDuration(raw.Server.ShutdownTimeout)
		if err != nil {
			return cfg, errors.Wrap(err, "parsing server.shutdown_timeout")
		}
		cfg.Server.ShutdownTimeout = d
	}

	if raw.Storage.Backend != "" {
		cfg.Storage.Backend = raw.Storage.Backend
	}
	if raw.Storage.File.Dir != "" {
		cfg.Storage.File.Dir = raw.Storage.File.Dir
	}
	if raw.Storage.SQLite.Path != "" {
		cfg.Storage.SQLite.Path = raw.Storage.SQLite.Path
	}
	r := raw.Storage.Redis
	if r.Host != "" {
		cfg.Storage.Redis.Host = r.Host
	}
	if r.Port > 0 {
		cfg.Storage.Redis.Port = r.Port
	}
	if r.Password != "" {
		cfg.Storage.Redis.Password = r.Password
	}
	if r.DB != nil {
		cfg.Storage.Redis.DB = *r.DB
	}
	if r.Cluster != nil {
		cfg.Storage.Redis.Cluster = *r.Cluster
	}
	if len(r.ClusterNodes) > 0 {
		cfg.Storage.Redis.ClusterNodes = append([]string(nil), r.ClusterNodes...)
	}
	if r.PoolSize > 0 {
		cfg.Storage.Redis.PoolSize = r.PoolSize
	}
	if r.MaxRetries > 0 {
		cfg.Storage.Redis.MaxRetries = r.MaxRetries
	}
	if r.DialTimeout != "" {
		d, err := time.ParseDuration(r.DialTimeout)
		if err != nil {
			return cfg, errors.Wrap(err, "parsing storage.redis.dial_timeout")
		}
		cfg.Storage.Redis.DialTimeout = d
	}

	if raw.Codec.Format != "" {
		cfg.Codec.Format = raw.Codec.Format
	}
	if raw.Capture.Modes != nil {
		cfg.Capture.Modes = *raw.Capture.Modes
	}
	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
	if raw.Log.Format != "" {
		cfg.Log.Format = raw.Log.Format
	}

	return cfg, nil
}

// rawConfig is the JSON-friendly representation with string durations.
type rawConfig struct {
	Server struct {
		Addr            string `json:"addr"`
		ShutdownTimeout string `json:"shutdown_timeout"`
	} `json:"server"`
	Storage struct {
		Backend string `json:"backend"`
		File    struct {
			Dir string `json:"dir"`
		} `json:"file"`
		Redis struct {
			Host         string   `json:"host"`
			Port         int      `json:"port"`
			Password     string   `json:"password"`
			DB           *int     `json:"db"`
			Cluster      *bool    `json:"cluster"`
			ClusterNodes []string `json:"cluster_nodes"`
			PoolSize     int      `json:"pool_size"`
			MaxRetries   int      `json:"max_retries"`
			DialTimeout  string   `json:"dial_timeout"`
		} `json:"redis"`
		SQLite struct {
			Path string `json:"path"`
		} `json:"sqlite"`
	} `json:"storage"`
	Codec struct {
		Format string `json:"format"`
	} `json:"codec"`
	Capture struct {
		Modes *string `json:"modes"`
	} `json:"capture"`
	Log struct {
		Level  string `json:"level"`
		Format string `json:"format"`
	} `json:"log"`
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	example := `{
  "server": {
    "addr": ":8080",
    "shutdown_timeout": "5s"
  },
  "storage": {
    "backend": "file",
    "file": {
      "dir": "timelines"
    },
    "redis": {
      "host": "localhost",
      "port": 6379,
      "password": "",
      "db": 0,
      "cluster": false,
      "cluster_nodes": [],
      "pool_size": 20,
      "max_retries": 3,
      "dial_timeout": "5s"
    },
    "sqlite": {
      "path": "rewind.db"
    }
  },
  "codec": {
    "format": "json"
  },
  "capture": {
    "modes": "all"
  },
  "log": {
    "level": "info",
    "format": "text"
  }
}
`
	return os.WriteFile(path, []byte(example), 0o644)
}
