package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var serviceTypeSortColumns = map[string]bool{
	"created_at": true,
	"code":       true,
	"name":       true,
	"priority":   true,
}

// GormServiceTypeRepository implements catalog.ServiceTypeRepository using GORM
type GormServiceTypeRepository struct {
	db *gorm.DB
}

// NewGormServiceTypeRepository creates a new GormServiceTypeRepository
func NewGormServiceTypeRepository(db *gorm.DB) *GormServiceTypeRepository {
	return &GormServiceTypeRepository{db: db}
}

// FindByID finds a service type by its ID
func (r *GormServiceTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ServiceType, error) {
	var st catalog.ServiceType
	if err := r.db.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindByCode finds a service type by its code
func (r *GormServiceTypeRepository) FindByCode(ctx context.Context, code string) (*catalog.ServiceType, error) {
	var st catalog.ServiceType
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindByTicketPrefix finds a service type by its ticket prefix
func (r *GormServiceTypeRepository) FindByTicketPrefix(ctx context.Context, prefix string) (*catalog.ServiceType, error) {
	var st catalog.ServiceType
	if err := r.db.WithContext(ctx).
		Where("ticket_prefix = ?", strings.ToUpper(prefix)).
		First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindAll finds all service types matching the filter
func (r *GormServiceTypeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ServiceType, error) {
	var serviceTypes []catalog.ServiceType
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.ServiceType{}), filter)
	if err := query.Find(&serviceTypes).Error; err != nil {
		return nil, err
	}
	return serviceTypes, nil
}

// FindActive returns all active service types ordered by priority
func (r *GormServiceTypeRepository) FindActive(ctx context.Context) ([]catalog.ServiceType, error) {
	var serviceTypes []catalog.ServiceType
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC, code ASC").
		Find(&serviceTypes).Error; err != nil {
		return nil, err
	}
	return serviceTypes, nil
}

// Save creates or updates a service type
func (r *GormServiceTypeRepository) Save(ctx context.Context, serviceType *catalog.ServiceType) error {
	return r.db.WithContext(ctx).Save(serviceType).Error
}

// Delete removes a service type
func (r *GormServiceTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ServiceType{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts service types matching the filter
func (r *GormServiceTypeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.ServiceType{})
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", term, term)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a service type code is taken
func (r *GormServiceTypeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.ServiceType{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByTicketPrefix checks whether a ticket prefix is taken
func (r *GormServiceTypeRepository) ExistsByTicketPrefix(ctx context.Context, prefix string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.ServiceType{}).
		Where("ticket_prefix = ?", strings.ToUpper(prefix)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormServiceTypeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", term, term)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}
	query = applySort(query, filter, serviceTypeSortColumns)
	return applyPagination(query, filter)
}

// Ensure interface compliance
var _ catalog.ServiceTypeRepository = (*GormServiceTypeRepository)(nil)
