package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/queueing"
)

// InMemoryQueueCache implements QueueCache with a local map. Suitable
// for tests and single-instance deployments without Redis.
type InMemoryQueueCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
	ttl     time.Duration
}

type inMemoryEntry struct {
	state     queueing.QueueState
	expiresAt time.Time
}

// NewInMemoryQueueCache creates an in-memory queue cache
func NewInMemoryQueueCache(ttl time.Duration) *InMemoryQueueCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &InMemoryQueueCache{
		entries: make(map[string]inMemoryEntry),
		ttl:     ttl,
	}
}

func inMemoryKey(serviceTypeID uuid.UUID, stationID *uuid.UUID) string {
	if stationID == nil {
		return serviceTypeID.String()
	}
	return serviceTypeID.String() + ":" + stationID.String()
}

// GetState reads a cached queue snapshot
func (c *InMemoryQueueCache) GetState(_ context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*queueing.QueueState, error) {
	c.mu.RLock()
	entry, ok := c.entries[inMemoryKey(serviceTypeID, stationID)]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	state := entry.state
	return &state, nil
}

// SetState caches a queue snapshot
func (c *InMemoryQueueCache) SetState(_ context.Context, state *queueing.QueueState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[inMemoryKey(state.ServiceTypeID, state.StationID)] = inMemoryEntry{
		state:     *state,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops one cached snapshot
func (c *InMemoryQueueCache) Invalidate(_ context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, inMemoryKey(serviceTypeID, stationID))
	return nil
}

// InvalidateService drops every cached snapshot of a service
func (c *InMemoryQueueCache) InvalidateService(_ context.Context, serviceTypeID uuid.UUID) error {
	prefix := serviceTypeID.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

var _ QueueCache = (*InMemoryQueueCache)(nil)
