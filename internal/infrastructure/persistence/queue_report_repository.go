package persistence

import (
	"context"
	"time"

	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/reporting"
	"gorm.io/gorm"
)

// GormQueueReportRepository implements reporting.QueueReportRepository
// with aggregate queries over the tickets table
type GormQueueReportRepository struct {
	db *gorm.DB
}

// NewGormQueueReportRepository creates a new GormQueueReportRepository
func NewGormQueueReportRepository(db *gorm.DB) *GormQueueReportRepository {
	return &GormQueueReportRepository{db: db}
}

func (r *GormQueueReportRepository) scoped(ctx context.Context, filter reporting.QueueReportFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Table("tickets t").
		Where("t.created_at >= ? AND t.created_at < ?", filter.From, filter.To)
	if filter.ServiceTypeID != nil {
		query = query.Where("t.service_type_id = ?", *filter.ServiceTypeID)
	}
	return query
}

// TicketsByDay returns the daily ticket trend for the period
func (r *GormQueueReportRepository) TicketsByDay(ctx context.Context, filter reporting.QueueReportFilter) ([]reporting.TicketsByDay, error) {
	type dailyResult struct {
		Date      time.Time
		Total     int64
		Completed int64
		Cancelled int64
		NoShow    int64
	}

	var results []dailyResult
	err := r.scoped(ctx, filter).
		Select(`
			DATE(t.created_at) as date,
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE t.status = ?) as completed,
			COUNT(*) FILTER (WHERE t.status = ?) as cancelled,
			COUNT(*) FILTER (WHERE t.status = ?) as no_show
		`, queueing.TicketStatusCompleted, queueing.TicketStatusCancelled, queueing.TicketStatusNoShow).
		Group("DATE(t.created_at)").
		Order("date").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rows := make([]reporting.TicketsByDay, len(results))
	for i, res := range results {
		rows[i] = reporting.TicketsByDay{
			Date:      res.Date,
			Total:     res.Total,
			Completed: res.Completed,
			Cancelled: res.Cancelled,
			NoShow:    res.NoShow,
		}
	}
	return rows, nil
}

// TicketsByHour returns ticket creation counts per hour of day
func (r *GormQueueReportRepository) TicketsByHour(ctx context.Context, filter reporting.QueueReportFilter) ([]reporting.TicketsByHour, error) {
	var results []reporting.TicketsByHour
	err := r.scoped(ctx, filter).
		Select("EXTRACT(HOUR FROM t.created_at)::int as hour, COUNT(*) as total").
		Group("hour").
		Order("hour").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ServiceBreakdown aggregates ticket figures per service type. Wait time
// is measured creation to call, service time attention start to completion.
func (r *GormQueueReportRepository) ServiceBreakdown(ctx context.Context, filter reporting.QueueReportFilter) ([]reporting.ServiceBreakdown, error) {
	var results []reporting.ServiceBreakdown
	err := r.scoped(ctx, filter).
		Select(`
			t.service_type_id,
			st.code as service_code,
			st.name as service_name,
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE t.status = ?) as completed,
			COALESCE(AVG(EXTRACT(EPOCH FROM (t.called_at - t.created_at)) / 60) FILTER (WHERE t.called_at IS NOT NULL), 0) as average_wait_time,
			COALESCE(AVG(EXTRACT(EPOCH FROM (t.completed_at - t.attended_at)) / 60) FILTER (WHERE t.completed_at IS NOT NULL AND t.attended_at IS NOT NULL), 0) as average_service_time
		`, queueing.TicketStatusCompleted).
		Joins("JOIN service_types st ON st.id = t.service_type_id").
		Group("t.service_type_id, st.code, st.name").
		Order("total DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// StationBreakdown aggregates attended tickets per station
func (r *GormQueueReportRepository) StationBreakdown(ctx context.Context, filter reporting.QueueReportFilter) ([]reporting.StationBreakdown, error) {
	var results []reporting.StationBreakdown
	err := r.scoped(ctx, filter).
		Select(`
			t.station_id,
			s.code as station_code,
			s.name as station_name,
			COUNT(*) as attended,
			COUNT(*) FILTER (WHERE t.status = ?) as completed,
			COALESCE(AVG(EXTRACT(EPOCH FROM (t.completed_at - t.attended_at)) / 60) FILTER (WHERE t.completed_at IS NOT NULL AND t.attended_at IS NOT NULL), 0) as average_service_time
		`, queueing.TicketStatusCompleted).
		Joins("JOIN stations s ON s.id = t.station_id").
		Where("t.station_id IS NOT NULL").
		Group("t.station_id, s.code, s.name").
		Order("attended DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// waitTimeBuckets defines the histogram bounds in minutes
var waitTimeBuckets = []struct {
	label string
	upTo  int
}{
	{"0-5 min", 5},
	{"5-15 min", 15},
	{"15-30 min", 30},
	{"30-60 min", 60},
	{"60+ min", -1},
}

// WaitTimeDistribution buckets called tickets by observed wait minutes
func (r *GormQueueReportRepository) WaitTimeDistribution(ctx context.Context, filter reporting.QueueReportFilter) ([]reporting.WaitTimeBucket, error) {
	type bucketResult struct {
		Bucket int
		Count  int64
	}

	var results []bucketResult
	err := r.scoped(ctx, filter).
		Select(`
			CASE
				WHEN EXTRACT(EPOCH FROM (t.called_at - t.created_at)) / 60 <= 5 THEN 0
				WHEN EXTRACT(EPOCH FROM (t.called_at - t.created_at)) / 60 <= 15 THEN 1
				WHEN EXTRACT(EPOCH FROM (t.called_at - t.created_at)) / 60 <= 30 THEN 2
				WHEN EXTRACT(EPOCH FROM (t.called_at - t.created_at)) / 60 <= 60 THEN 3
				ELSE 4
			END as bucket,
			COUNT(*) as count
		`).
		Where("t.called_at IS NOT NULL").
		Group("bucket").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(results))
	for _, res := range results {
		counts[res.Bucket] = res.Count
	}

	buckets := make([]reporting.WaitTimeBucket, len(waitTimeBuckets))
	for i, def := range waitTimeBuckets {
		buckets[i] = reporting.WaitTimeBucket{
			Label:       def.label,
			UpToMinutes: def.upTo,
			Count:       counts[i],
		}
	}
	return buckets, nil
}

// Ensure GormQueueReportRepository implements reporting.QueueReportRepository
var _ reporting.QueueReportRepository = (*GormQueueReportRepository)(nil)
