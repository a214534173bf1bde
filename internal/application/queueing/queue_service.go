package queueing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/reporting"
	"github.com/labqueue/backend/internal/domain/shared"
	"github.com/labqueue/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

const (
	// defaultWaitTimeWindow bounds the rolling average of real waits
	defaultWaitTimeWindow = 2 * time.Hour
	// fallbackWaitMinutes is used when a service has no recent history
	fallbackWaitMinutes = 10
	// defaultStaleAge is how long an idle snapshot may linger before cleanup
	defaultStaleAge = 30 * time.Minute
)

// QueueService maintains the live queue snapshots. Redis is a
// write-through cache in front of the queue_states table; when it is
// unreachable the service degrades to database reads and keeps going.
type QueueService struct {
	queueStateRepo  queueing.QueueStateRepository
	ticketRepo      queueing.TicketRepository
	serviceTypeRepo catalog.ServiceTypeRepository
	stationRepo     queueing.StationRepository
	activityRepo    reporting.ActivityLogRepository
	queueCache      cache.QueueCache
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
	waitTimeWindow  time.Duration
}

// NewQueueService creates a new queue service. queueCache may be nil,
// in which case all reads go to the database.
func NewQueueService(
	queueStateRepo queueing.QueueStateRepository,
	ticketRepo queueing.TicketRepository,
	serviceTypeRepo catalog.ServiceTypeRepository,
	stationRepo queueing.StationRepository,
	activityRepo reporting.ActivityLogRepository,
	queueCache cache.QueueCache,
	logger *zap.Logger,
) *QueueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueService{
		queueStateRepo:  queueStateRepo,
		ticketRepo:      ticketRepo,
		serviceTypeRepo: serviceTypeRepo,
		stationRepo:     stationRepo,
		activityRepo:    activityRepo,
		queueCache:      queueCache,
		logger:          logger,
		waitTimeWindow:  defaultWaitTimeWindow,
	}
}

// SetEventPublisher sets the event publisher for queue update events
func (s *QueueService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetWaitTimeWindow overrides the rolling window used for real wait averages
func (s *QueueService) SetWaitTimeWindow(window time.Duration) {
	if window > 0 {
		s.waitTimeWindow = window
	}
}

// GetState returns the snapshot for a queue key, preferring the cache
func (s *QueueService) GetState(ctx context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*QueueStateResponse, error) {
	if s.queueCache != nil {
		state, err := s.queueCache.GetState(ctx, serviceTypeID, stationID)
		if err == nil {
			resp := ToQueueStateResponse(state)
			return &resp, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("queue cache read failed, falling back to database",
				zap.String("service_type_id", serviceTypeID.String()),
				zap.Error(err))
		}
	}

	state, err := s.queueStateRepo.FindByKey(ctx, serviceTypeID, stationID)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, state)
	resp := ToQueueStateResponse(state)
	return &resp, nil
}

// ListByService returns all snapshots of a service, general queue first
func (s *QueueService) ListByService(ctx context.Context, serviceTypeID uuid.UUID) ([]QueueStateResponse, error) {
	states, err := s.queueStateRepo.FindByService(ctx, serviceTypeID)
	if err != nil {
		return nil, err
	}
	return ToQueueStateResponses(states), nil
}

// ListByStation returns the snapshots bound to a workstation
func (s *QueueService) ListByStation(ctx context.Context, stationID uuid.UUID) ([]QueueStateResponse, error) {
	states, err := s.queueStateRepo.FindByStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	return ToQueueStateResponses(states), nil
}

// ListActive returns snapshots that currently hold tickets
func (s *QueueService) ListActive(ctx context.Context) ([]QueueStateResponse, error) {
	states, err := s.queueStateRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return ToQueueStateResponses(states), nil
}

// Refresh recomputes a service's general queue snapshot from the
// tickets table and writes it through to the cache.
func (s *QueueService) Refresh(ctx context.Context, serviceTypeID uuid.UUID) (*QueueStateResponse, error) {
	state, err := s.refreshState(ctx, serviceTypeID)
	if err != nil {
		return nil, err
	}
	resp := ToQueueStateResponse(state)
	return &resp, nil
}

// Advance promotes a service queue: the next ticket becomes current and
// the following waiting ticket moves up behind it. Advancing a queue
// with no next ticket only bumps the update timestamp.
func (s *QueueService) Advance(ctx context.Context, serviceTypeID uuid.UUID, actor Actor) (*QueueStateResponse, error) {
	state, err := s.ensureState(ctx, serviceTypeID)
	if err != nil {
		return nil, err
	}

	promoted := state.NextTicketID

	// The ticket behind the one being promoted becomes the new next
	var following *uuid.UUID
	if promoted != nil {
		waiting, err := s.ticketRepo.FindWaiting(ctx, serviceTypeID)
		if err != nil {
			return nil, err
		}
		for i := range waiting {
			if waiting[i].ID != *promoted {
				following = &waiting[i].ID
				break
			}
		}
	}

	state.Advance(following)
	if err := s.queueStateRepo.Save(ctx, state); err != nil {
		return nil, err
	}
	s.writeCache(ctx, state)

	if promoted != nil {
		s.recordActivity(ctx, reporting.ActionQueueAdvanced, actor, promoted,
			fmt.Sprintf("Queue advanced for service %s", serviceTypeID))
		s.publishQueueUpdated(ctx, state)
	}

	resp := ToQueueStateResponse(state)
	return &resp, nil
}

// Reset clears a service's general queue snapshot and drops its cache entries
func (s *QueueService) Reset(ctx context.Context, serviceTypeID uuid.UUID, actor Actor) error {
	state, err := s.queueStateRepo.FindByKey(ctx, serviceTypeID, nil)
	if err != nil {
		return err
	}

	state.Reset()
	if err := s.queueStateRepo.Save(ctx, state); err != nil {
		return err
	}

	if s.queueCache != nil {
		if err := s.queueCache.InvalidateService(ctx, serviceTypeID); err != nil {
			s.logger.Warn("queue cache invalidation failed",
				zap.String("service_type_id", serviceTypeID.String()),
				zap.Error(err))
		}
	}

	s.recordActivity(ctx, reporting.ActionQueueReset, actor, nil,
		fmt.Sprintf("Queue reset for service %s", serviceTypeID))
	s.publishQueueUpdated(ctx, state)
	return nil
}

// UpdateWaitTime recomputes a service's average wait from tickets
// completed within the rolling window and stores it on the snapshot.
func (s *QueueService) UpdateWaitTime(ctx context.Context, serviceTypeID uuid.UUID) (int, error) {
	serviceType, err := s.serviceTypeRepo.FindByID(ctx, serviceTypeID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	completed, err := s.ticketRepo.FindCompletedBetween(ctx, serviceTypeID, now.Add(-s.waitTimeWindow), now)
	if err != nil {
		return 0, err
	}

	minutes := averageWaitMinutes(completed)
	if minutes == 0 {
		minutes = serviceType.AverageTimeMinutes
	}
	if minutes == 0 {
		minutes = fallbackWaitMinutes
	}

	state, err := s.ensureState(ctx, serviceTypeID)
	if err != nil {
		return 0, err
	}
	state.SetAverageWaitTime(minutes)
	if err := s.queueStateRepo.Save(ctx, state); err != nil {
		return 0, err
	}
	s.writeCache(ctx, state)
	return minutes, nil
}

// RefreshAll recomputes snapshot and wait time for every active service.
// It is also the scheduler entry point for the periodic refresh job.
func (s *QueueService) RefreshAll(ctx context.Context) (int, error) {
	serviceTypes, err := s.serviceTypeRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for i := range serviceTypes {
		id := serviceTypes[i].ID
		if _, err := s.refreshState(ctx, id); err != nil {
			s.logger.Error("queue refresh failed",
				zap.String("service_code", serviceTypes[i].Code),
				zap.Error(err))
			continue
		}
		if _, err := s.UpdateWaitTime(ctx, id); err != nil {
			s.logger.Error("wait time update failed",
				zap.String("service_code", serviceTypes[i].Code),
				zap.Error(err))
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// InitializeAll makes sure every active service has a general queue
// snapshot, creating missing ones and refreshing the rest.
func (s *QueueService) InitializeAll(ctx context.Context) (int, error) {
	serviceTypes, err := s.serviceTypeRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}
	for i := range serviceTypes {
		if _, err := s.refreshState(ctx, serviceTypes[i].ID); err != nil {
			return 0, err
		}
	}
	return len(serviceTypes), nil
}

// ConsistencyCheck compares every snapshot against the tickets table and
// reports mismatches; with fix set it repairs them by refreshing.
func (s *QueueService) ConsistencyCheck(ctx context.Context, fix bool) (*ConsistencyReport, error) {
	report := &ConsistencyReport{Issues: []ConsistencyIssue{}}

	filter := shared.DefaultFilter()
	filter.PageSize = 200
	states, err := s.queueStateRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range states {
		state := &states[i]
		report.Checked++

		// Station-scoped snapshots track the same service queue; the
		// waiting count is always measured against the service.
		waiting, err := s.ticketRepo.CountWaiting(ctx, state.ServiceTypeID)
		if err != nil {
			return nil, err
		}
		if int64(state.QueueLength) != waiting {
			s.addIssue(ctx, report, state, fix, "length_mismatch",
				fmt.Sprintf("snapshot length %d but %d tickets waiting", state.QueueLength, waiting))
		}

		if state.NextTicketID != nil {
			next, err := s.ticketRepo.FindByID(ctx, *state.NextTicketID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if next == nil || next.Status != queueing.TicketStatusWaiting {
				s.addIssue(ctx, report, state, fix, "dangling_next",
					"next ticket reference is missing or no longer waiting")
			}
		}
	}

	// Active services without any snapshot at all
	serviceTypes, err := s.serviceTypeRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range serviceTypes {
		id := serviceTypes[i].ID
		if _, err := s.queueStateRepo.FindByKey(ctx, id, nil); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			issue := ConsistencyIssue{
				ServiceTypeID: id,
				Kind:          "missing_state",
				Detail:        fmt.Sprintf("active service %s has no queue snapshot", serviceTypes[i].Code),
			}
			if fix {
				if _, err := s.refreshState(ctx, id); err == nil {
					issue.Fixed = true
					report.Fixed++
				}
			}
			report.Issues = append(report.Issues, issue)
		}
	}

	return report, nil
}

// CleanupStale deletes idle snapshots untouched for longer than maxAge.
// A zero maxAge uses the default of 30 minutes.
func (s *QueueService) CleanupStale(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = defaultStaleAge
	}

	states, err := s.queueStateRepo.FindIdleSince(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range states {
		state := &states[i]
		if err := s.queueStateRepo.Delete(ctx, state.ID); err != nil {
			s.logger.Error("stale queue cleanup failed",
				zap.String("queue_state_id", state.ID.String()),
				zap.Error(err))
			continue
		}
		if s.queueCache != nil {
			if err := s.queueCache.Invalidate(ctx, state.ServiceTypeID, state.StationID); err != nil {
				s.logger.Warn("queue cache invalidation failed",
					zap.String("service_type_id", state.ServiceTypeID.String()),
					zap.Error(err))
			}
		}
		removed++
	}
	return removed, nil
}

// Summary returns the dashboard-level aggregates across all queues
func (s *QueueService) Summary(ctx context.Context) (*QueueSummaryResponse, error) {
	total, err := s.queueStateRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	active, err := s.queueStateRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	waitingFilter := shared.DefaultFilter()
	waitingFilter.Filters["status"] = queueing.TicketStatusWaiting
	waiting, err := s.ticketRepo.Count(ctx, waitingFilter)
	if err != nil {
		return nil, err
	}

	inAttention, err := s.ticketRepo.CountInProgress(ctx)
	if err != nil {
		return nil, err
	}

	busy, err := s.stationRepo.CountBusy(ctx)
	if err != nil {
		return nil, err
	}

	completedToday, err := s.ticketRepo.CountCompletedOn(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	var avgWait float64
	if len(active) > 0 {
		sum := 0
		for i := range active {
			sum += active[i].AverageWaitTime
		}
		avgWait = float64(sum) / float64(len(active))
	}

	return &QueueSummaryResponse{
		TotalQueues:     int(total),
		ActiveQueues:    len(active),
		TotalWaiting:    waiting,
		InAttention:     inAttention,
		StationsBusy:    busy,
		AverageWaitTime: avgWait,
		CompletedToday:  completedToday,
	}, nil
}

func (s *QueueService) addIssue(ctx context.Context, report *ConsistencyReport, state *queueing.QueueState, fix bool, kind, detail string) {
	issue := ConsistencyIssue{
		ServiceTypeID: state.ServiceTypeID,
		StationID:     state.StationID,
		Kind:          kind,
		Detail:        detail,
	}
	if fix {
		if _, err := s.refreshState(ctx, state.ServiceTypeID); err == nil {
			issue.Fixed = true
			report.Fixed++
		}
	}
	report.Issues = append(report.Issues, issue)
}

// refreshState recomputes a service's general snapshot from the tickets table
func (s *QueueService) refreshState(ctx context.Context, serviceTypeID uuid.UUID) (*queueing.QueueState, error) {
	state, err := s.ensureState(ctx, serviceTypeID)
	if err != nil {
		return nil, err
	}

	waiting, err := s.ticketRepo.CountWaiting(ctx, serviceTypeID)
	if err != nil {
		return nil, err
	}

	var currentID *uuid.UUID
	current, err := s.ticketRepo.FindCurrentHead(ctx, serviceTypeID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if current != nil {
		currentID = &current.ID
	}

	var nextID *uuid.UUID
	next, err := s.ticketRepo.FindFirstWaiting(ctx, serviceTypeID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if next != nil {
		nextID = &next.ID
	}

	state.Refresh(currentID, nextID, int(waiting))
	if err := s.queueStateRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	s.writeCache(ctx, state)
	s.publishQueueUpdated(ctx, state)
	return state, nil
}

// ensureState loads a service's general snapshot, creating it when absent
func (s *QueueService) ensureState(ctx context.Context, serviceTypeID uuid.UUID) (*queueing.QueueState, error) {
	state, err := s.queueStateRepo.FindByKey(ctx, serviceTypeID, nil)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	state, err = queueing.NewQueueState(serviceTypeID, nil)
	if err != nil {
		return nil, err
	}
	if err := s.queueStateRepo.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *QueueService) writeCache(ctx context.Context, state *queueing.QueueState) {
	if s.queueCache == nil {
		return
	}
	if err := s.queueCache.SetState(ctx, state); err != nil {
		s.logger.Warn("queue cache write failed",
			zap.String("service_type_id", state.ServiceTypeID.String()),
			zap.Error(err))
	}
}

func (s *QueueService) publishQueueUpdated(ctx context.Context, state *queueing.QueueState) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, queueing.NewQueueUpdatedEvent(state))
}

func (s *QueueService) recordActivity(ctx context.Context, action string, actor Actor, ticketID *uuid.UUID, details string) {
	entry, err := reporting.NewActivityLog(action, actor.UserID, ticketID, actor.StationID,
		details, actor.IPAddress, actor.UserAgent)
	if err != nil {
		return
	}
	if err := s.activityRepo.Save(ctx, entry); err != nil {
		s.logger.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
	}
}

// averageWaitMinutes averages CreatedAt to CalledAt over tickets that
// were actually called; tickets never called contribute nothing.
func averageWaitMinutes(tickets []queueing.Ticket) int {
	sum := 0.0
	counted := 0
	for i := range tickets {
		if tickets[i].CalledAt == nil {
			continue
		}
		sum += tickets[i].CalledAt.Sub(tickets[i].CreatedAt).Minutes()
		counted++
	}
	if counted == 0 {
		return 0
	}
	return int(sum / float64(counted))
}
