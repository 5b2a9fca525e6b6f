package storage

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPoolSize    = 20
	defaultRedisMaxRetries  = 3
	defaultRedisDialTimeout = 5 * time.Second

	// RedisKeyPrefix namespaces timeline keys.
	RedisKeyPrefix = "rewind:timeline:"

	redisScanCount = 100
)

// RedisStore is a Redis-backed Store. Each timeline is one string key.
type RedisStore struct {
	client redis.UniversalClient

	closeOnce sync.Once
	closeErr  error
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	conf, err := normalizeRedisConfig(cfg)
	if err != nil {
		return nil, err
	}

	s := &RedisStore{client: newRedisClient(conf)}
	if err := s.pingWithRetry(context.Background(), conf.MaxRetries); err != nil {
		_ = s.client.Close()
		return nil, errors.Wrap(err, "redis ping failed")
	}
	return s, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := s.client.Set(ctx, RedisKeyPrefix+name, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "saving timeline %q", name)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, RedisKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading timeline %q", name)
	}
	return data, nil
}

// List scans the key space. In cluster mode every master is scanned.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var (
		mu    sync.Mutex
		names []string
	)
	scan := func(ctx context.Context, c redis.Cmdable) error {
		iter := c.Scan(ctx, 0, RedisKeyPrefix+"*", redisScanCount).Iterator()
		for iter.Next(ctx) {
			mu.Lock()
			names = append(names, strings.TrimPrefix(iter.Val(), RedisKeyPrefix))
			mu.Unlock()
		}
		return iter.Err()
	}

	var err error
	if cc, ok := s.client.(*redis.ClusterClient); ok {
		err = cc.ForEachMaster(ctx, func(ctx context.Context, c *redis.Client) error {
			return scan(ctx, c)
		})
	} else {
		err = scan(ctx, s.client)
	}
	if err != nil {
		return nil, errors.Wrap(err, "listing timelines")
	}

	sort.Strings(names)
	return dedupe(names), nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	n, err := s.client.Del(ctx, RedisKeyPrefix+name).Result()
	if err != nil {
		return errors.Wrapf(err, "deleting timeline %q", name)
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	return nil
}

// Close releases Redis resources. It is idempotent.
func (s *RedisStore) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}

func (s *RedisStore) pingWithRetry(ctx context.Context, maxRetries int) error {
	attempts := maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	backoff := 100 * time.Millisecond
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := s.client.Ping(ctx).Err(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
	}

	if lastErr == nil {
		lastErr = errors.New("ping failed with unknown error")
	}
	return lastErr
}

func normalizeRedisConfig(cfg *RedisConfig) (*RedisConfig, error) {
	if cfg == nil {
		return nil, errors.New("redis config is required")
	}

	conf := *cfg
	if conf.PoolSize <= 0 {
		conf.PoolSize = defaultRedisPoolSize
	}
	if conf.MaxRetries <= 0 {
		conf.MaxRetries = defaultRedisMaxRetries
	}
	if conf.DialTimeout <= 0 {
		conf.DialTimeout = defaultRedisDialTimeout
	}

	if conf.Cluster {
		if len(conf.ClusterNodes) == 0 {
			return nil, errors.New("cluster_nodes is required when cluster=true")
		}
	} else {
		if conf.Host == "" {
			return nil, errors.New("host is required when cluster=false")
		}
		if conf.Port <= 0 {
			return nil, errors.Errorf("port must be positive when cluster=false, got %d", conf.Port)
		}
	}

	return &conf, nil
}

func newRedisClient(cfg *RedisConfig) redis.UniversalClient {
	if cfg.Cluster {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:       cfg.ClusterNodes,
			Password:    cfg.Password,
			PoolSize:    cfg.PoolSize,
			MaxRetries:  cfg.MaxRetries,
			DialTimeout: cfg.DialTimeout,
		})
	}

	return redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: cfg.DialTimeout,
	})
}

func dedupe(sorted []string) []string {
	out := make([]string, 0, len(sorted))
	for _, s := range sorted {
		if n := len(out); n > 0 && out[n-1] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}
