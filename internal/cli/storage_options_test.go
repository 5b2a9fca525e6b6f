package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmitUplenchwar2687/Rewind/internal/storage"
)

func TestNormalizeRedisHostPort(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     int
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{name: "separate", host: "localhost", port: 6379, wantHost: "localhost", wantPort: 6379},
		{name: "combined", host: "redis.local:6380", port: 6379, wantHost: "redis.local", wantPort: 6380},
		{name: "ipv6", host: "[::1]:7000", port: 6379, wantHost: "::1", wantPort: 7000},
		{name: "empty host", host: "", port: 6379, wantErr: true},
		{name: "bad port", host: "localhost:abc", port: 6379, wantErr: true},
		{name: "zero port", host: "localhost", port: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := normalizeRedisHostPort(tt.host, tt.port)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func newOptionsCmd(t *testing.T, args ...string) (*cobra.Command, *storageOptions) {
	t.Helper()

	var o storageOptions
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	o.addFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, &o
}

func TestStorageOptions_ConfigFillsUnsetFlags(t *testing.T) {
	cmd, o := newOptionsCmd(t, "--redis-port", "7000")

	cfg := storage.DefaultConfig()
	cfg.Backend = storage.BackendRedis
	cfg.Redis.Host = "cache.internal"
	cfg.Redis.Port = 6390
	cfg.Redis.DialTimeout = 2 * time.Second
	o.applyConfigIfUnset(cmd, &cfg)

	got := o.toConfig()
	assert.Equal(t, storage.BackendRedis, got.Backend)
	assert.Equal(t, "cache.internal", got.Redis.Host)
	assert.Equal(t, 7000, got.Redis.Port, "explicit flags win over config")
	assert.Equal(t, 2*time.Second, got.Redis.DialTimeout)
}

func TestStorageOptions_Normalize(t *testing.T) {
	_, o := newOptionsCmd(t, "--storage", "redis", "--redis-host", "10.0.0.5:6400")
	require.NoError(t, o.normalize())
	assert.Equal(t, "10.0.0.5", o.redisHost)
	assert.Equal(t, 6400, o.redisPort)

	_, o = newOptionsCmd(t, "--storage", "file", "--redis-host", "not:a:host")
	assert.NoError(t, o.normalize(), "redis settings are ignored for other backends")

	_, o = newOptionsCmd(t, "--storage", "redis", "--redis-cluster", "--redis-host", "")
	assert.NoError(t, o.normalize(), "cluster mode uses the node list")
}

func TestStorageOptions_NilConfig(t *testing.T) {
	cmd, o := newOptionsCmd(t, "--storage", "memory")
	o.applyConfigIfUnset(cmd, nil)
	assert.Equal(t, storage.BackendMemory, o.toConfig().Backend)
}
