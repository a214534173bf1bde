package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/reporting"
	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var activitySortColumns = map[string]bool{
	"created_at": true,
	"action":     true,
}

// GormActivityLogRepository implements reporting.ActivityLogRepository using GORM
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Save appends an audit entry
func (r *GormActivityLogRepository) Save(ctx context.Context, log *reporting.ActivityLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

// FindAll finds audit entries matching the filter
func (r *GormActivityLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]reporting.ActivityLog, error) {
	var entries []reporting.ActivityLog
	query := r.applyConditions(r.db.WithContext(ctx).Model(&reporting.ActivityLog{}), filter)
	query = applySort(query, filter, activitySortColumns)
	query = applyPagination(query, filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByTicket returns the audit trail of a ticket, oldest first
func (r *GormActivityLogRepository) FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]reporting.ActivityLog, error) {
	var entries []reporting.ActivityLog
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts audit entries matching the filter
func (r *GormActivityLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&reporting.ActivityLog{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormActivityLogRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	if stationID, ok := filter.Filters["station_id"]; ok {
		query = query.Where("station_id = ?", stationID)
	}
	if from, ok := filter.Filters["from"].(time.Time); ok {
		query = query.Where("created_at >= ?", from)
	}
	if to, ok := filter.Filters["to"].(time.Time); ok {
		query = query.Where("created_at < ?", to)
	}
	return query
}

var _ reporting.ActivityLogRepository = (*GormActivityLogRepository)(nil)
