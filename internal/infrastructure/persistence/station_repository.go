package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var stationSortColumns = map[string]bool{
	"created_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
}

// GormStationRepository implements queueing.StationRepository using GORM
type GormStationRepository struct {
	db *gorm.DB
}

// NewGormStationRepository creates a new GormStationRepository
func NewGormStationRepository(db *gorm.DB) *GormStationRepository {
	return &GormStationRepository{db: db}
}

// FindByID finds a station by ID
func (r *GormStationRepository) FindByID(ctx context.Context, id uuid.UUID) (*queueing.Station, error) {
	var station queueing.Station
	if err := r.db.WithContext(ctx).First(&station, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &station, nil
}

// FindByCode finds a station by its code
func (r *GormStationRepository) FindByCode(ctx context.Context, code string) (*queueing.Station, error) {
	var station queueing.Station
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&station).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &station, nil
}

// FindAll finds stations matching the filter
func (r *GormStationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]queueing.Station, error) {
	var stations []queueing.Station
	query := r.applyConditions(r.db.WithContext(ctx).Model(&queueing.Station{}), filter)
	query = applySort(query, filter, stationSortColumns)
	query = applyPagination(query, filter)
	if err := query.Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}

// FindAvailable returns the active stations currently free to take tickets
func (r *GormStationRepository) FindAvailable(ctx context.Context) ([]queueing.Station, error) {
	var stations []queueing.Station
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND status = ?", true, queueing.StationStatusAvailable).
		Order("code ASC").
		Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}

// Save creates or updates a station
func (r *GormStationRepository) Save(ctx context.Context, station *queueing.Station) error {
	return r.db.WithContext(ctx).Save(station).Error
}

// Delete removes a station
func (r *GormStationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&queueing.Station{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts stations matching the filter
func (r *GormStationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&queueing.Station{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a station code is taken
func (r *GormStationRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&queueing.Station{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountOperational counts active stations able to serve tickets
func (r *GormStationRepository) CountOperational(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&queueing.Station{}).
		Where("is_active = ? AND status IN ?", true,
			[]queueing.StationStatus{queueing.StationStatusAvailable, queueing.StationStatusBusy}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBusy counts stations currently attending a ticket
func (r *GormStationRepository) CountBusy(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&queueing.Station{}).
		Where("status = ?", queueing.StationStatusBusy).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStationRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", term, term)
	}
	return query
}

var _ queueing.StationRepository = (*GormStationRepository)(nil)
