package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/reporting"
	"github.com/labqueue/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MetricsService recomputes daily rollups from the tickets table.
// Rollups are keyed by (date, service, station) and upserted, so the
// job can run repeatedly over the same day.
type MetricsService struct {
	metricsRepo     reporting.DailyMetricsRepository
	ticketRepo      queueing.TicketRepository
	serviceTypeRepo catalog.ServiceTypeRepository
	reportRepo      reporting.QueueReportRepository
	logger          *zap.Logger
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(
	metricsRepo reporting.DailyMetricsRepository,
	ticketRepo queueing.TicketRepository,
	serviceTypeRepo catalog.ServiceTypeRepository,
	reportRepo reporting.QueueReportRepository,
	logger *zap.Logger,
) *MetricsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsService{
		metricsRepo:     metricsRepo,
		ticketRepo:      ticketRepo,
		serviceTypeRepo: serviceTypeRepo,
		reportRepo:      reportRepo,
		logger:          logger,
	}
}

// RollupDay recomputes the rollup rows of one calendar day for every
// active service. Returns the number of rows written. Failures on a
// single service are logged and skipped so one bad aggregate does not
// starve the rest of the rollup.
func (s *MetricsService) RollupDay(ctx context.Context, day time.Time) (int, error) {
	services, err := s.serviceTypeRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	for i := range services {
		if err := s.rollupService(ctx, day, &services[i]); err != nil {
			s.logger.Error("daily rollup failed for service",
				zap.String("service_code", services[i].Code),
				zap.Error(err))
			continue
		}
		written++
	}

	s.logger.Info("daily metrics rollup finished",
		zap.Time("day", day),
		zap.Int("rows", written))
	return written, nil
}

// RollupToday recomputes the current day, the scheduler entry point
func (s *MetricsService) RollupToday(ctx context.Context) (int, error) {
	return s.RollupDay(ctx, time.Now())
}

func (s *MetricsService) rollupService(ctx context.Context, day time.Time, serviceType *catalog.ServiceType) error {
	counts, err := s.ticketRepo.StatusCountsOn(ctx, &serviceType.ID, day)
	if err != nil {
		return err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	completed, err := s.ticketRepo.FindCompletedBetween(ctx, serviceType.ID, start, end)
	if err != nil {
		return err
	}
	avgWait, avgService := averageDurations(completed)

	peakHour, err := s.peakHour(ctx, serviceType.ID, start, end)
	if err != nil {
		return err
	}

	metrics, err := s.metricsRepo.FindByKey(ctx, start, serviceType.ID, nil)
	if errors.Is(err, shared.ErrNotFound) {
		metrics, err = reporting.NewDailyMetrics(start, serviceType.ID, nil)
	}
	if err != nil {
		return err
	}

	metrics.Record(
		int(total),
		int(counts[queueing.TicketStatusCompleted]),
		int(counts[queueing.TicketStatusCancelled]),
		int(counts[queueing.TicketStatusNoShow]),
		avgWait,
		avgService,
		peakHour,
	)
	return s.metricsRepo.Save(ctx, metrics)
}

// peakHour finds the busiest creation hour of the day, nil when no tickets
func (s *MetricsService) peakHour(ctx context.Context, serviceTypeID uuid.UUID, from, to time.Time) (*int, error) {
	rows, err := s.reportRepo.TicketsByHour(ctx, reporting.QueueReportFilter{
		From:          from,
		To:            to,
		ServiceTypeID: &serviceTypeID,
	})
	if err != nil {
		return nil, err
	}

	var peak *int
	var peakCount int64
	for _, row := range rows {
		if row.Total > peakCount {
			hour := row.Hour
			peak = &hour
			peakCount = row.Total
		}
	}
	return peak, nil
}

// ListRange returns the stored rollup rows for a date range
func (s *MetricsService) ListRange(ctx context.Context, from, to time.Time) ([]DailyMetricsResponse, error) {
	rows, err := s.metricsRepo.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	responses := make([]DailyMetricsResponse, len(rows))
	for i := range rows {
		responses[i] = ToDailyMetricsResponse(&rows[i])
	}
	return responses, nil
}

// averageDurations computes mean wait (creation to call) and service
// (attention start to completion) minutes over completed tickets
func averageDurations(tickets []queueing.Ticket) (float64, float64) {
	var waitSum, serviceSum float64
	var waitCount, serviceCount int
	for i := range tickets {
		t := &tickets[i]
		if t.CalledAt != nil {
			waitSum += t.CalledAt.Sub(t.CreatedAt).Minutes()
			waitCount++
		}
		if t.CompletedAt != nil && t.AttendedAt != nil {
			serviceSum += t.CompletedAt.Sub(*t.AttendedAt).Minutes()
			serviceCount++
		}
	}

	var avgWait, avgService float64
	if waitCount > 0 {
		avgWait = waitSum / float64(waitCount)
	}
	if serviceCount > 0 {
		avgService = serviceSum / float64(serviceCount)
	}
	return avgWait, avgService
}
