package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// ServiceTypeRepository defines the persistence operations for service types
type ServiceTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceType, error)
	FindByCode(ctx context.Context, code string) (*ServiceType, error)
	FindByTicketPrefix(ctx context.Context, prefix string) (*ServiceType, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ServiceType, error)
	FindActive(ctx context.Context) ([]ServiceType, error)
	Save(ctx context.Context, serviceType *ServiceType) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByTicketPrefix(ctx context.Context, prefix string) (bool, error)
}
