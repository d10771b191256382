// Package events tracks webhook event ids that were already handled so the
// chat platform's redeliveries do not trigger duplicate NLU turns.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	processedKeyPrefix = "processed:"
	processedTTL       = 24 * time.Hour
)

// Tracker is the dedupe contract shared by the redis and in-memory
// implementations.
type Tracker interface {
	AlreadyProcessed(ctx context.Context, provider, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

// RedisTracker records processed event ids in redis with a TTL, so the
// dedupe window survives restarts and is shared across replicas.
type RedisTracker struct {
	redis *redis.Client
}

func NewRedisTracker(client *redis.Client) *RedisTracker {
	if client == nil {
		return nil
	}
	return &RedisTracker{redis: client}
}

// AlreadyProcessed checks if we've seen this provider event id.
func (t *RedisTracker) AlreadyProcessed(ctx context.Context, provider, eventID string) (bool, error) {
	n, err := t.redis.Exists(ctx, processedKey(provider, eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("events: check processed: %w", err)
	}
	return n > 0, nil
}

// MarkProcessed records an event id for the provider, returning false if it
// was already present. SetNX keeps the check-and-set atomic.
func (t *RedisTracker) MarkProcessed(ctx context.Context, provider, eventID string) (bool, error) {
	ok, err := t.redis.SetNX(ctx, processedKey(provider, eventID), 1, processedTTL).Result()
	if err != nil {
		return false, fmt.Errorf("events: mark processed: %w", err)
	}
	return ok, nil
}

func processedKey(provider, eventID string) string {
	return processedKeyPrefix + provider + ":" + eventID
}

// MemoryTracker is the in-process fallback used when redis is not
// configured. The set grows for the process lifetime.
type MemoryTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{seen: make(map[string]struct{})}
}

func (t *MemoryTracker) AlreadyProcessed(_ context.Context, provider, eventID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[processedKey(provider, eventID)]
	return ok, nil
}

func (t *MemoryTracker) MarkProcessed(_ context.Context, provider, eventID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := processedKey(provider, eventID)
	if _, ok := t.seen[key]; ok {
		return false, nil
	}
	t.seen[key] = struct{}{}
	return true, nil
}
