package reporting

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/reporting"
	"github.com/labqueue/backend/internal/domain/shared"
)

// ActivityService exposes read access to the audit trail
type ActivityService struct {
	activityRepo reporting.ActivityLogRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo reporting.ActivityLogRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// List returns audit entries matching the filter
func (s *ActivityService) List(ctx context.Context, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Action != "" {
		domainFilter.Filters["action"] = filter.Action
	}
	if filter.UserID != nil {
		domainFilter.Filters["user_id"] = *filter.UserID
	}
	if filter.StationID != nil {
		domainFilter.Filters["station_id"] = *filter.StationID
	}
	if filter.From != nil {
		domainFilter.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["to"] = *filter.To
	}

	entries, err := s.activityRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.activityRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToActivityResponses(entries), total, nil
}

// ListByTicket returns the full audit trail of one ticket
func (s *ActivityService) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]ActivityResponse, error) {
	entries, err := s.activityRepo.FindByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return ToActivityResponses(entries), nil
}
