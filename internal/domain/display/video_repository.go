package display

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// VideoRepository defines the persistence operations for playlist videos
type VideoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Video, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Video, error)
	// FindActive returns the active playlist in display order, capped at limit
	FindActive(ctx context.Context, limit int) ([]Video, error)
	Save(ctx context.Context, video *Video) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByYouTubeID(ctx context.Context, youtubeID string) (bool, error)
	// MaxDisplayOrder returns the highest order in use, or -1 when the
	// playlist is empty
	MaxDisplayOrder(ctx context.Context) (int, error)
}
