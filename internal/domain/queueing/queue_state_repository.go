package queueing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// QueueStateRepository defines the persistence operations for queue snapshots
type QueueStateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*QueueState, error)
	// FindByKey resolves the snapshot for a (service, station) pair;
	// a nil stationID addresses the service's general queue
	FindByKey(ctx context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*QueueState, error)
	FindByService(ctx context.Context, serviceTypeID uuid.UUID) ([]QueueState, error)
	FindByStation(ctx context.Context, stationID uuid.UUID) ([]QueueState, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]QueueState, error)
	// FindActive returns snapshots that currently hold tickets
	FindActive(ctx context.Context) ([]QueueState, error)
	// FindIdleSince returns idle snapshots not updated since the cutoff
	FindIdleSince(ctx context.Context, cutoff time.Time) ([]QueueState, error)
	Save(ctx context.Context, state *QueueState) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
