package queueing

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// StationRepository defines the persistence operations for workstations
type StationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Station, error)
	FindByCode(ctx context.Context, code string) (*Station, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Station, error)
	FindAvailable(ctx context.Context) ([]Station, error)
	Save(ctx context.Context, station *Station) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// CountOperational counts active stations currently serving or able
	// to serve tickets, used for wait-time estimation
	CountOperational(ctx context.Context) (int64, error)
	CountBusy(ctx context.Context) (int64, error)
}
