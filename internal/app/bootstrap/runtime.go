package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/chatops-lab/sparkrelay/internal/config"
	"github.com/chatops-lab/sparkrelay/internal/events"
	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildProcessedTracker wires webhook deduplication. Falls back to the
// in-memory tracker when Redis is not configured or unreachable, which is
// fine for a single instance but not across replicas.
func BuildProcessedTracker(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) events.Tracker {
	if logger == nil {
		logger = logging.Default()
	}
	if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
		logger.Info("using redis processed tracker", "addr", cfg.RedisAddr)
		return events.NewRedisTracker(client)
	}
	logger.Info("using in-memory processed tracker")
	return events.NewMemoryTracker()
}
