package reporting

import (
	"context"
	"time"

	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/reporting"
)

// defaultReportDays is the range used when a query omits its bounds
const defaultReportDays = 7

// ReportService provides read-only report queries over the ticket history
type ReportService struct {
	reportRepo reporting.QueueReportRepository
	ticketRepo queueing.TicketRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo reporting.QueueReportRepository,
	ticketRepo queueing.TicketRepository,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		ticketRepo: ticketRepo,
	}
}

// domainFilter converts the request range to a half-open window,
// defaulting to the last week when bounds are missing
func (s *ReportService) domainFilter(filter ReportRangeFilter) reporting.QueueReportFilter {
	now := time.Now()
	to := now
	if filter.To != nil {
		day := *filter.To
		to = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	}
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(defaultReportDays - 1))
	if filter.From != nil {
		day := *filter.From
		from = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	}
	return reporting.QueueReportFilter{
		From:          from,
		To:            to,
		ServiceTypeID: filter.ServiceTypeID,
	}
}

// Dashboard returns today's operational snapshot
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	now := time.Now()
	counts, err := s.ticketRepo.StatusCountsOn(ctx, nil, now)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	breakdown, err := s.reportRepo.ServiceBreakdown(ctx, reporting.QueueReportFilter{
		From: start,
		To:   start.Add(24 * time.Hour),
	})
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Date:             start,
		TotalToday:       total,
		Waiting:          counts[queueing.TicketStatusWaiting],
		InAttention:      counts[queueing.TicketStatusCalled] + counts[queueing.TicketStatusInProgress],
		CompletedToday:   counts[queueing.TicketStatusCompleted],
		CancelledToday:   counts[queueing.TicketStatusCancelled],
		NoShowToday:      counts[queueing.TicketStatusNoShow],
		ServiceBreakdown: breakdown,
	}, nil
}

// TicketsByDay returns the daily ticket trend for the range
func (s *ReportService) TicketsByDay(ctx context.Context, filter ReportRangeFilter) ([]reporting.TicketsByDay, error) {
	return s.reportRepo.TicketsByDay(ctx, s.domainFilter(filter))
}

// TicketsByHour returns intraday load for the range
func (s *ReportService) TicketsByHour(ctx context.Context, filter ReportRangeFilter) ([]reporting.TicketsByHour, error) {
	return s.reportRepo.TicketsByHour(ctx, s.domainFilter(filter))
}

// ByService returns the per-service breakdown for the range
func (s *ReportService) ByService(ctx context.Context, filter ReportRangeFilter) ([]reporting.ServiceBreakdown, error) {
	return s.reportRepo.ServiceBreakdown(ctx, s.domainFilter(filter))
}

// ByStation returns the per-station breakdown for the range
func (s *ReportService) ByStation(ctx context.Context, filter ReportRangeFilter) ([]reporting.StationBreakdown, error) {
	return s.reportRepo.StationBreakdown(ctx, s.domainFilter(filter))
}

// WaitTimeDistribution returns the wait-time histogram for the range
func (s *ReportService) WaitTimeDistribution(ctx context.Context, filter ReportRangeFilter) ([]reporting.WaitTimeBucket, error) {
	return s.reportRepo.WaitTimeDistribution(ctx, s.domainFilter(filter))
}
