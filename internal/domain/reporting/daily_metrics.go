package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// DailyMetrics holds the aggregated figures for one service (and
// optionally one station) on one calendar day. The rollup job upserts
// rows idempotently, so recomputing a day is always safe.
type DailyMetrics struct {
	shared.BaseEntity
	Date               time.Time  `gorm:"type:date;not null;uniqueIndex:idx_daily_metrics_key"`
	ServiceTypeID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_daily_metrics_key"`
	StationID          *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_daily_metrics_key"`
	TotalTickets       int        `gorm:"not null;default:0"`
	CompletedTickets   int        `gorm:"not null;default:0"`
	CancelledTickets   int        `gorm:"not null;default:0"`
	NoShowTickets      int        `gorm:"not null;default:0"`
	AverageWaitTime    float64    `gorm:"not null;default:0"`
	AverageServiceTime float64    `gorm:"not null;default:0"`
	PeakHour           *int
}

// TableName returns the database table name
func (DailyMetrics) TableName() string {
	return "daily_metrics"
}

// NewDailyMetrics creates a metrics row for a (date, service, station) key
func NewDailyMetrics(date time.Time, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*DailyMetrics, error) {
	if serviceTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SERVICE_TYPE", "Metrics require a service type")
	}
	return &DailyMetrics{
		BaseEntity:    shared.NewBaseEntity(),
		Date:          date.Truncate(24 * time.Hour),
		ServiceTypeID: serviceTypeID,
		StationID:     stationID,
	}, nil
}

// Record overwrites the aggregated figures
func (m *DailyMetrics) Record(total, completed, cancelled, noShow int, avgWait, avgService float64, peakHour *int) {
	m.TotalTickets = total
	m.CompletedTickets = completed
	m.CancelledTickets = cancelled
	m.NoShowTickets = noShow
	m.AverageWaitTime = avgWait
	m.AverageServiceTime = avgService
	m.PeakHour = peakHour
	m.Touch()
}

// DailyMetricsRepository defines the persistence operations for daily rollups
type DailyMetricsRepository interface {
	FindByKey(ctx context.Context, date time.Time, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*DailyMetrics, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]DailyMetrics, error)
	Save(ctx context.Context, metrics *DailyMetrics) error
}
