package cli

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Rewind/internal/storage"
)

type storageOptions struct {
	backend           string
	dir               string
	sqlitePath        string
	redisHost         string
	redisPort         int
	redisPassword     string
	redisDB           int
	redisCluster      bool
	redisClusterNodes []string
	redisPoolSize     int
	redisMaxRetries   int
	redisDialTimeout  time.Duration
}

func (o *storageOptions) addFlags(cmd *cobra.Command) {
	d := storage.DefaultConfig()
	cmd.Flags().StringVar(&o.backend, "storage", d.Backend, "storage backend (file, memory, redis, sqlite)")
	cmd.Flags().StringVar(&o.dir, "storage-dir", d.File.Dir, "directory for the file storage backend")
	cmd.Flags().StringVar(&o.sqlitePath, "sqlite-path", d.SQLite.Path, "database file for the sqlite storage backend")
	cmd.Flags().StringVar(&o.redisHost, "redis-host", d.Redis.Host, "redis host (or host:port)")
	cmd.Flags().IntVar(&o.redisPort, "redis-port", d.Redis.Port, "redis port")
	cmd.Flags().StringVar(&o.redisPassword, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&o.redisDB, "redis-db", 0, "redis database index")
	cmd.Flags().BoolVar(&o.redisCluster, "redis-cluster", false, "enable redis cluster mode")
	cmd.Flags().StringSliceVar(&o.redisClusterNodes, "redis-cluster-nodes", nil, "redis cluster nodes host:port list")
	cmd.Flags().IntVar(&o.redisPoolSize, "redis-pool-size", d.Redis.PoolSize, "redis connection pool size")
	cmd.Flags().IntVar(&o.redisMaxRetries, "redis-max-retries", d.Redis.MaxRetries, "redis max retries")
	cmd.Flags().DurationVar(&o.redisDialTimeout, "redis-dial-timeout", d.Redis.DialTimeout, "redis dial timeout")
}

func (o *storageOptions) applyConfigIfUnset(cmd *cobra.Command, cfg *storage.Config) {
	if cfg == nil {
		return
	}

	if !cmd.Flags().Changed("storage") {
		o.backend = cfg.Backend
	}
	if !cmd.Flags().Changed("storage-dir") {
		o.dir = cfg.File.Dir
	}
	if !cmd.Flags().Changed("sqlite-path") {
		o.sqlitePath = cfg.SQLite.Path
	}
	if !cmd.Flags().Changed("redis-host") {
		o.redisHost = cfg.Redis.Host
	}
	if !cmd.Flags().Changed("redis-port") {
		o.redisPort = cfg.Redis.Port
	}
	if !cmd.Flags().Changed("redis-password") {
		o.redisPassword = cfg.Redis.Password
	}
	if !cmd.Flags().Changed("redis-db") {
		o.redisDB = cfg.Redis.DB
	}
	if !cmd.Flags().Changed("redis-cluster") {
		o.redisCluster = cfg.Redis.Cluster
	}
	if !cmd.Flags().Changed("redis-cluster-nodes") {
		o.redisClusterNodes = cfg.Redis.ClusterNodes
	}
	if !cmd.Flags().Changed("redis-pool-size") {
		o.redisPoolSize = cfg.Redis.PoolSize
	}
	if !cmd.Flags().Changed("redis-max-retries") {
		o.redisMaxRetries = cfg.Redis.MaxRetries
	}
	if !cmd.Flags().Changed("redis-dial-timeout") {
		o.redisDialTimeout = cfg.Redis.DialTimeout
	}
}

func (o *storageOptions) normalize() error {
	if o.backend != storage.BackendRedis || o.redisCluster {
		return nil
	}

	host, port, err := normalizeRedisHostPort(o.redisHost, o.redisPort)
	if err != nil {
		return err
	}
	o.redisHost = host
	o.redisPort = port
	return nil
}

func (o *storageOptions) toConfig() storage.Config {
	return storage.Config{
		Backend: o.backend,
		File:    storage.FileConfig{Dir: o.dir},
		SQLite:  storage.SQLiteConfig{Path: o.sqlitePath},
		Redis: storage.RedisConfig{
			Host:         o.redisHost,
			Port:         o.redisPort,
			Password:     o.redisPassword,
			DB:           o.redisDB,
			Cluster:      o.redisCluster,
			ClusterNodes: append([]string(nil), o.redisClusterNodes...),
			PoolSize:     o.redisPoolSize,
			MaxRetries:   o.redisMaxRetries,
			DialTimeout:  o.redisDialTimeout,
		},
	}
}

// open resolves flags against the loaded config and opens the store.
func (o *storageOptions) open(cmd *cobra.Command, a *app) (storage.Store, error) {
	o.applyConfigIfUnset(cmd, &a.cfg.Storage)
	if err := o.normalize(); err != nil {
		return nil, err
	}
	cfg := o.toConfig()
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s storage", cfg.Backend)
	}
	a.log.WithField("backend", cfg.Backend).Debug("storage opened")
	return store, nil
}

func normalizeRedisHostPort(host string, port int) (string, int, error) {
	if strings.Contains(host, ":") {
		h, p, err := net.SplitHostPort(host)
		if err != nil {
			return "", 0, errors.Wrapf(err, "invalid --redis-host value %q", host)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, errors.Wrapf(err, "invalid redis port in --redis-host %q", host)
		}
		host = h
		port = n
	}

	if host == "" {
		return "", 0, errors.New("redis host cannot be empty")
	}
	if port <= 0 {
		return "", 0, errors.Errorf("redis port must be positive, got %d", port)
	}

	return host, port, nil
}
