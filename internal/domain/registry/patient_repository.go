package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// PatientRepository defines the persistence operations for patients
type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	FindByDocument(ctx context.Context, documentNumber string) (*Patient, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Patient, error)
	Search(ctx context.Context, term string, filter shared.Filter) ([]Patient, error)
	Save(ctx context.Context, patient *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByDocument(ctx context.Context, documentNumber string) (bool, error)
}
