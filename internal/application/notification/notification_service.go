package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/notification"
	"github.com/labqueue/backend/internal/domain/shared"
)

// NotificationService exposes read access to the notification history
type NotificationService struct {
	notificationRepo notification.NotificationLogRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notification.NotificationLogRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List returns notifications matching the filter
func (s *NotificationService) List(ctx context.Context, filter NotificationListFilter) ([]NotificationResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = notification.NotificationStatus(filter.Status)
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = notification.NotificationType(filter.Type)
	}

	logs, err := s.notificationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.notificationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToNotificationResponses(logs), total, nil
}

// ListByTicket returns the notification history of a single ticket
func (s *NotificationService) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]NotificationResponse, error) {
	logs, err := s.notificationRepo.FindByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(logs), nil
}

// ListFailures returns notifications whose delivery failed
func (s *NotificationService) ListFailures(ctx context.Context, page, pageSize int) ([]NotificationResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	logs, err := s.notificationRepo.FindFailed(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(logs), nil
}

// Retry re-attempts delivery bookkeeping for a failed notification.
// With no transport configured it simply marks the entry sent.
func (s *NotificationService) Retry(ctx context.Context, id uuid.UUID, sender Sender) (*NotificationResponse, error) {
	log, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.Status != notification.NotificationStatusFailed {
		return nil, shared.NewDomainError("INVALID_STATE", "Only failed notifications can be retried")
	}

	if sender != nil {
		if sendErr := sender.Send(ctx, log); sendErr != nil {
			log.MarkFailed(sendErr.Error())
		} else {
			log.MarkSent()
		}
	} else {
		log.MarkSent()
	}

	if err := s.notificationRepo.Save(ctx, log); err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(log)
	return &resp, nil
}
