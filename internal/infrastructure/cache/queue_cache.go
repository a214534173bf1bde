package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a queue snapshot is not cached
var ErrCacheMiss = errors.New("queue state not cached")

// QueueCache caches queue snapshots so displays can poll without
// hitting the database. Callers fall back to the repository on any
// cache error, so a degraded Redis never blocks queue operations.
type QueueCache interface {
	GetState(ctx context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*queueing.QueueState, error)
	SetState(ctx context.Context, state *queueing.QueueState) error
	Invalidate(ctx context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) error
	InvalidateService(ctx context.Context, serviceTypeID uuid.UUID) error
}

// RedisQueueCache implements QueueCache on Redis. Snapshots are stored
// as JSON under queue:{service} or queue:{service}:{station} with a
// short TTL, so stale entries age out on their own.
type RedisQueueCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisQueueCache creates a queue cache with an existing Redis client
func NewRedisQueueCache(client *redis.Client, ttl time.Duration) *RedisQueueCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisQueueCache{
		client:    client,
		keyPrefix: "queue:",
		ttl:       ttl,
	}
}

func (c *RedisQueueCache) key(serviceTypeID uuid.UUID, stationID *uuid.UUID) string {
	if stationID == nil {
		return c.keyPrefix + serviceTypeID.String()
	}
	return c.keyPrefix + serviceTypeID.String() + ":" + stationID.String()
}

// GetState reads a cached queue snapshot
func (c *RedisQueueCache) GetState(ctx context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*queueing.QueueState, error) {
	data, err := c.client.Get(ctx, c.key(serviceTypeID, stationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read queue cache: %w", err)
	}

	var state queueing.QueueState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode cached queue state: %w", err)
	}
	return &state, nil
}

// SetState caches a queue snapshot with the configured TTL
func (c *RedisQueueCache) SetState(ctx context.Context, state *queueing.QueueState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode queue state: %w", err)
	}
	if err := c.client.Set(ctx, c.key(state.ServiceTypeID, state.StationID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write queue cache: %w", err)
	}
	return nil
}

// Invalidate drops one cached snapshot
func (c *RedisQueueCache) Invalidate(ctx context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(serviceTypeID, stationID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate queue cache: %w", err)
	}
	return nil
}

// InvalidateService drops every cached snapshot of a service,
// including its per-station entries
func (c *RedisQueueCache) InvalidateService(ctx context.Context, serviceTypeID uuid.UUID) error {
	pattern := c.keyPrefix + serviceTypeID.String() + "*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan queue cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate queue cache: %w", err)
	}
	return nil
}

var _ QueueCache = (*RedisQueueCache)(nil)
