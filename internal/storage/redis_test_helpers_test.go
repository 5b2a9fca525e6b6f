package storage

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"testing"

	testcontainers "github.com/testcontainers/testcontainers-go"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
)

// newRedisStoreForTest starts a throwaway redis and connects a store to it.
// The test is skipped when no container runtime is reachable.
func newRedisStoreForTest(t *testing.T) (*RedisStore, func()) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := rediscontainer.Run(ctx, "redis:7.2-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	terminate := func() { _ = container.Terminate(context.Background()) }

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		terminate()
		t.Fatalf("ConnectionString() error = %v", err)
	}
	cfg, err := redisConfigFromURI(uri)
	if err != nil {
		terminate()
		t.Fatalf("redisConfigFromURI(%q) error = %v", uri, err)
	}

	store, err := NewRedisStore(&cfg)
	if err != nil {
		terminate()
		t.Fatalf("NewRedisStore() error = %v", err)
	}

	return store, func() {
		_ = store.Close()
		terminate()
	}
}

func redisConfigFromURI(uri string) (RedisConfig, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return RedisConfig{}, err
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		return RedisConfig{}, err
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return RedisConfig{}, err
	}

	cfg := DefaultConfig().Redis
	cfg.Host, cfg.Port = host, p
	return cfg, nil
}
