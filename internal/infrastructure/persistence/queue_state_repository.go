package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var queueStateSortColumns = map[string]bool{
	"created_at":     true,
	"last_update_at": true,
	"queue_length":   true,
}

// GormQueueStateRepository implements queueing.QueueStateRepository using GORM
type GormQueueStateRepository struct {
	db *gorm.DB
}

// NewGormQueueStateRepository creates a new GormQueueStateRepository
func NewGormQueueStateRepository(db *gorm.DB) *GormQueueStateRepository {
	return &GormQueueStateRepository{db: db}
}

// FindByID finds a queue snapshot by ID
func (r *GormQueueStateRepository) FindByID(ctx context.Context, id uuid.UUID) (*queueing.QueueState, error) {
	var state queueing.QueueState
	if err := r.db.WithContext(ctx).First(&state, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

// FindByKey resolves the snapshot for a (service, station) pair
func (r *GormQueueStateRepository) FindByKey(ctx context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*queueing.QueueState, error) {
	query := r.db.WithContext(ctx).Where("service_type_id = ?", serviceTypeID)
	if stationID == nil {
		query = query.Where("station_id IS NULL")
	} else {
		query = query.Where("station_id = ?", *stationID)
	}
	var state queueing.QueueState
	if err := query.First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

// FindByService returns all snapshots of a service, general queue first
func (r *GormQueueStateRepository) FindByService(ctx context.Context, serviceTypeID uuid.UUID) ([]queueing.QueueState, error) {
	var states []queueing.QueueState
	if err := r.db.WithContext(ctx).
		Where("service_type_id = ?", serviceTypeID).
		Order("station_id ASC NULLS FIRST").
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// FindByStation returns all snapshots bound to a station
func (r *GormQueueStateRepository) FindByStation(ctx context.Context, stationID uuid.UUID) ([]queueing.QueueState, error) {
	var states []queueing.QueueState
	if err := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("last_update_at DESC").
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// FindAll finds queue snapshots matching the filter
func (r *GormQueueStateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]queueing.QueueState, error) {
	var states []queueing.QueueState
	query := r.db.WithContext(ctx).Model(&queueing.QueueState{})
	if serviceTypeID, ok := filter.Filters["service_type_id"]; ok {
		query = query.Where("service_type_id = ?", serviceTypeID)
	}
	query = applySort(query, filter, queueStateSortColumns)
	query = applyPagination(query, filter)
	if err := query.Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// FindActive returns snapshots that currently hold tickets
func (r *GormQueueStateRepository) FindActive(ctx context.Context) ([]queueing.QueueState, error) {
	var states []queueing.QueueState
	if err := r.db.WithContext(ctx).
		Where("queue_length > 0 OR current_ticket_id IS NOT NULL").
		Order("last_update_at DESC").
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// FindIdleSince returns idle snapshots not updated since the cutoff
func (r *GormQueueStateRepository) FindIdleSince(ctx context.Context, cutoff time.Time) ([]queueing.QueueState, error) {
	var states []queueing.QueueState
	if err := r.db.WithContext(ctx).
		Where("queue_length = 0 AND current_ticket_id IS NULL AND last_update_at < ?", cutoff).
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// Save creates or updates a queue snapshot
func (r *GormQueueStateRepository) Save(ctx context.Context, state *queueing.QueueState) error {
	return r.db.WithContext(ctx).Save(state).Error
}

// Delete removes a queue snapshot
func (r *GormQueueStateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&queueing.QueueState{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts queue snapshots matching the filter
func (r *GormQueueStateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&queueing.QueueState{})
	if serviceTypeID, ok := filter.Filters["service_type_id"]; ok {
		query = query.Where("service_type_id = ?", serviceTypeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ queueing.QueueStateRepository = (*GormQueueStateRepository)(nil)
