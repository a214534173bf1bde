package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedState(t *testing.T, stationID *uuid.UUID) *queueing.QueueState {
	t.Helper()
	state, err := queueing.NewQueueState(uuid.New(), stationID)
	require.NoError(t, err)
	return state
}

func TestInMemoryQueueCache_SetAndGet(t *testing.T) {
	t.Run("returns cached state", func(t *testing.T) {
		cache := NewInMemoryQueueCache(time.Minute)
		state := newCachedState(t, nil)
		state.QueueLength = 3

		require.NoError(t, cache.SetState(context.Background(), state))

		got, err := cache.GetState(context.Background(), state.ServiceTypeID, nil)
		assert.NoError(t, err)
		assert.Equal(t, 3, got.QueueLength)
	})

	t.Run("misses for unknown key", func(t *testing.T) {
		cache := NewInMemoryQueueCache(time.Minute)

		_, err := cache.GetState(context.Background(), uuid.New(), nil)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("keeps general and station entries apart", func(t *testing.T) {
		cache := NewInMemoryQueueCache(time.Minute)
		stationID := uuid.New()
		general := newCachedState(t, nil)
		perStation := newCachedState(t, &stationID)
		perStation.ServiceTypeID = general.ServiceTypeID
		perStation.QueueLength = 7

		require.NoError(t, cache.SetState(context.Background(), general))
		require.NoError(t, cache.SetState(context.Background(), perStation))

		got, err := cache.GetState(context.Background(), general.ServiceTypeID, &stationID)
		assert.NoError(t, err)
		assert.Equal(t, 7, got.QueueLength)
	})

	t.Run("expires entries after the TTL", func(t *testing.T) {
		cache := NewInMemoryQueueCache(time.Nanosecond)
		state := newCachedState(t, nil)

		require.NoError(t, cache.SetState(context.Background(), state))
		time.Sleep(time.Millisecond)

		_, err := cache.GetState(context.Background(), state.ServiceTypeID, nil)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestInMemoryQueueCache_Invalidate(t *testing.T) {
	t.Run("drops a single entry", func(t *testing.T) {
		cache := NewInMemoryQueueCache(time.Minute)
		state := newCachedState(t, nil)

		require.NoError(t, cache.SetState(context.Background(), state))
		require.NoError(t, cache.Invalidate(context.Background(), state.ServiceTypeID, nil))

		_, err := cache.GetState(context.Background(), state.ServiceTypeID, nil)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("InvalidateService drops station entries too", func(t *testing.T) {
		cache := NewInMemoryQueueCache(time.Minute)
		stationID := uuid.New()
		general := newCachedState(t, nil)
		perStation := newCachedState(t, &stationID)
		perStation.ServiceTypeID = general.ServiceTypeID

		require.NoError(t, cache.SetState(context.Background(), general))
		require.NoError(t, cache.SetState(context.Background(), perStation))

		require.NoError(t, cache.InvalidateService(context.Background(), general.ServiceTypeID))

		_, err := cache.GetState(context.Background(), general.ServiceTypeID, nil)
		assert.ErrorIs(t, err, ErrCacheMiss)
		_, err = cache.GetState(context.Background(), general.ServiceTypeID, &stationID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
