package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/reporting"
	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDailyMetricsRepository implements reporting.DailyMetricsRepository using GORM
type GormDailyMetricsRepository struct {
	db *gorm.DB
}

// NewGormDailyMetricsRepository creates a new GormDailyMetricsRepository
func NewGormDailyMetricsRepository(db *gorm.DB) *GormDailyMetricsRepository {
	return &GormDailyMetricsRepository{db: db}
}

// FindByKey resolves the metrics row for a (date, service, station) key
func (r *GormDailyMetricsRepository) FindByKey(ctx context.Context, date time.Time, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*reporting.DailyMetrics, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	query := r.db.WithContext(ctx).
		Where("date = ? AND service_type_id = ?", day, serviceTypeID)
	if stationID == nil {
		query = query.Where("station_id IS NULL")
	} else {
		query = query.Where("station_id = ?", *stationID)
	}
	var metrics reporting.DailyMetrics
	if err := query.First(&metrics).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &metrics, nil
}

// FindByDateRange returns the metrics rows within [from, to]
func (r *GormDailyMetricsRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]reporting.DailyMetrics, error) {
	var rows []reporting.DailyMetrics
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save creates or updates a metrics row
func (r *GormDailyMetricsRepository) Save(ctx context.Context, metrics *reporting.DailyMetrics) error {
	return r.db.WithContext(ctx).Save(metrics).Error
}

var _ reporting.DailyMetricsRepository = (*GormDailyMetricsRepository)(nil)
