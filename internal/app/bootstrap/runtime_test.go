package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/chatops-lab/sparkrelay/internal/config"
	"github.com/chatops-lab/sparkrelay/internal/events"
	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

func TestBuildRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	logger := logging.Default()

	t.Run("nil config", func(t *testing.T) {
		assert.Nil(t, BuildRedisClient(ctx, nil, logger, true))
	})

	t.Run("no address configured", func(t *testing.T) {
		cfg := &appconfig.Config{}
		assert.Nil(t, BuildRedisClient(ctx, cfg, logger, true))
	})

	t.Run("reachable server", func(t *testing.T) {
		cfg := &appconfig.Config{RedisAddr: mr.Addr()}
		client := BuildRedisClient(ctx, cfg, logger, true)
		require.NotNil(t, client)
		defer client.Close()
		assert.NoError(t, client.Ping(ctx).Err())
	})

	t.Run("unreachable server with verify", func(t *testing.T) {
		cfg := &appconfig.Config{RedisAddr: "127.0.0.1:1"}
		assert.Nil(t, BuildRedisClient(ctx, cfg, logger, true))
	})

	t.Run("unreachable server without verify", func(t *testing.T) {
		cfg := &appconfig.Config{RedisAddr: "127.0.0.1:1"}
		client := BuildRedisClient(ctx, cfg, logger, false)
		require.NotNil(t, client)
		client.Close()
	})
}

func TestBuildProcessedTracker(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	logger := logging.Default()

	t.Run("redis tracker when reachable", func(t *testing.T) {
		cfg := &appconfig.Config{RedisAddr: mr.Addr()}
		tracker := BuildProcessedTracker(ctx, cfg, logger)
		require.NotNil(t, tracker)
		_, ok := tracker.(*events.RedisTracker)
		assert.True(t, ok, "expected a redis-backed tracker")

		fresh, err := tracker.MarkProcessed(ctx, "spark", "evt-1")
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("memory fallback when redis missing", func(t *testing.T) {
		cfg := &appconfig.Config{}
		tracker := BuildProcessedTracker(ctx, cfg, logger)
		require.NotNil(t, tracker)
		_, ok := tracker.(*events.MemoryTracker)
		assert.True(t, ok, "expected the in-memory fallback")
	})

	t.Run("memory fallback when redis unreachable", func(t *testing.T) {
		cfg := &appconfig.Config{RedisAddr: "127.0.0.1:1"}
		tracker := BuildProcessedTracker(ctx, cfg, logger)
		require.NotNil(t, tracker)
		_, ok := tracker.(*events.MemoryTracker)
		assert.True(t, ok, "expected the in-memory fallback")
	})
}
