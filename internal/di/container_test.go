package di

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/reshetovitsme/chat-alert-bot/internal/shared/config"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdown_SkipsRedisWithFileBackend(t *testing.T) {
	injector := do.New()
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		return &config.Config{StorageBackend: config.StorageBackendFile}, nil
	})

	invoked := false
	do.Provide(injector, func(i do.Injector) (*redis.Client, error) {
		invoked = true
		return redis.NewClient(&redis.Options{}), nil
	})

	require.NoError(t, Shutdown(injector))
	assert.False(t, invoked, "file backend must not construct a redis client at shutdown")
}

func TestShutdown_ClosesRedisWithRedisBackend(t *testing.T) {
	injector := do.New()
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		return &config.Config{StorageBackend: config.StorageBackendRedis}, nil
	})

	invoked := false
	do.Provide(injector, func(i do.Injector) (*redis.Client, error) {
		invoked = true
		return redis.NewClient(&redis.Options{}), nil
	})

	require.NoError(t, Shutdown(injector))
	assert.True(t, invoked)
}
