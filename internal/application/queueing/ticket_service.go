package queueing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/registry"
	"github.com/labqueue/backend/internal/domain/reporting"
	"github.com/labqueue/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TicketService drives the ticket lifecycle from issue to completion
type TicketService struct {
	ticketRepo      queueing.TicketRepository
	patientRepo     registry.PatientRepository
	serviceTypeRepo catalog.ServiceTypeRepository
	stationRepo     queueing.StationRepository
	activityRepo    reporting.ActivityLogRepository
	queueService    *QueueService
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo queueing.TicketRepository,
	patientRepo registry.PatientRepository,
	serviceTypeRepo catalog.ServiceTypeRepository,
	stationRepo queueing.StationRepository,
	activityRepo reporting.ActivityLogRepository,
	queueService *QueueService,
	logger *zap.Logger,
) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		ticketRepo:      ticketRepo,
		patientRepo:     patientRepo,
		serviceTypeRepo: serviceTypeRepo,
		stationRepo:     stationRepo,
		activityRepo:    activityRepo,
		queueService:    queueService,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *TicketService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create issues a new ticket at the tail of the service queue
func (s *TicketService) Create(ctx context.Context, req CreateTicketRequest, actor Actor) (*TicketResponse, error) {
	serviceType, err := s.serviceTypeRepo.FindByID(ctx, req.ServiceTypeID)
	if err != nil {
		return nil, err
	}
	if !serviceType.IsActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Service type is not accepting tickets")
	}

	patient, err := s.patientRepo.FindByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !patient.IsActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Patient record is inactive")
	}

	hasActive, err := s.ticketRepo.HasActiveForPatient(ctx, patient.ID, serviceType.ID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, shared.NewDomainError("CONFLICT", "Patient already holds an active ticket for this service")
	}

	operational, err := s.stationRepo.CountOperational(ctx)
	if err != nil {
		return nil, err
	}

	// Sequence and position are assigned inside the repository's issuing
	// transaction so concurrent requests cannot hand out the same number.
	ticket, err := s.ticketRepo.Issue(ctx, serviceType.ID, time.Now(), func(sequence, position int) (*queueing.Ticket, error) {
		estimated := estimateWaitMinutes(position, serviceType.AverageTimeMinutes, operational)
		t, err := queueing.NewTicket(patient.ID, serviceType.ID, serviceType.TicketPrefix,
			sequence, position, serviceType.Priority, estimated)
		if err != nil {
			return nil, err
		}
		if req.Notes != "" {
			t.Notes = req.Notes
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, reporting.ActionTicketCreated, actor, ticket,
		fmt.Sprintf("Ticket %s issued for service %s", ticket.TicketNumber, serviceType.Code))
	s.publishEvents(ctx, ticket)
	s.refreshQueue(ctx, serviceType.ID)

	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// QuickCreate issues a ticket from a kiosk, registering the patient by
// document number when they are not yet known.
func (s *TicketService) QuickCreate(ctx context.Context, req QuickTicketRequest, actor Actor) (*TicketResponse, error) {
	patient, err := s.patientRepo.FindByDocument(ctx, req.DocumentNumber)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if req.FullName == "" || req.BirthDate == nil || req.Gender == "" {
			return nil, shared.NewDomainError("VALIDATION",
				"Unknown document: full name, birth date and gender are required to register the patient")
		}
		patient, err = registry.NewPatient(req.DocumentNumber, req.FullName, *req.BirthDate, req.Gender, req.Phone, "")
		if err != nil {
			return nil, err
		}
		if err := s.patientRepo.Save(ctx, patient); err != nil {
			return nil, err
		}
	}

	return s.Create(ctx, CreateTicketRequest{
		PatientID:     patient.ID,
		ServiceTypeID: req.ServiceTypeID,
	}, actor)
}

// GetByID returns a ticket by ID
func (s *TicketService) GetByID(ctx context.Context, id uuid.UUID) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// GetByNumber returns a ticket by display number among the given day's
// tickets; a zero day means today.
func (s *TicketService) GetByNumber(ctx context.Context, number string, day time.Time) (*TicketResponse, error) {
	if day.IsZero() {
		day = time.Now()
	}
	ticket, err := s.ticketRepo.FindByNumber(ctx, number, day)
	if err != nil {
		return nil, err
	}
	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// List returns tickets matching the filter with the total count
func (s *TicketService) List(ctx context.Context, filter TicketListFilter) ([]TicketResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = queueing.TicketStatus(filter.Status)
	}
	if filter.ServiceTypeID != nil {
		domainFilter.Filters["service_type_id"] = *filter.ServiceTypeID
	}
	if filter.StationID != nil {
		domainFilter.Filters["station_id"] = *filter.StationID
	}
	if filter.PatientID != nil {
		domainFilter.Filters["patient_id"] = *filter.PatientID
	}
	if filter.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", filter.Date, time.Local)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION", "Date must be formatted as YYYY-MM-DD")
		}
		domainFilter.Filters["day"] = day
	}

	tickets, err := s.ticketRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ticketRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTicketResponses(tickets), total, nil
}

// QueueForService returns a service's waiting tickets in position order
func (s *TicketService) QueueForService(ctx context.Context, serviceTypeID uuid.UUID) ([]TicketResponse, error) {
	tickets, err := s.ticketRepo.FindWaiting(ctx, serviceTypeID)
	if err != nil {
		return nil, err
	}
	return ToTicketResponses(tickets), nil
}

// NextForService returns the head of a service's waiting queue
func (s *TicketService) NextForService(ctx context.Context, serviceTypeID uuid.UUID) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindFirstWaiting(ctx, serviceTypeID)
	if err != nil {
		return nil, err
	}
	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// CurrentCalls returns today's tickets that are at a station, most recent
// call first, for the waiting-room display.
func (s *TicketService) CurrentCalls(ctx context.Context, limit int) ([]TicketResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	var calls []queueing.Ticket
	for _, status := range []queueing.TicketStatus{queueing.TicketStatusCalled, queueing.TicketStatusInProgress} {
		filter := shared.DefaultFilter()
		filter.PageSize = limit
		filter.OrderBy = "called_at"
		filter.Filters["status"] = status
		filter.Filters["day"] = time.Now()

		tickets, err := s.ticketRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		calls = append(calls, tickets...)
	}

	sort.Slice(calls, func(i, j int) bool {
		a, b := calls[i].CalledAt, calls[j].CalledAt
		if a == nil || b == nil {
			return b == nil
		}
		return a.After(*b)
	})
	if len(calls) > limit {
		calls = calls[:limit]
	}
	return ToTicketResponses(calls), nil
}

// Call summons a waiting ticket to a station. The station must be
// available and becomes busy with the ticket.
func (s *TicketService) Call(ctx context.Context, ticketID uuid.UUID, req CallTicketRequest, actor Actor) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	station, err := s.stationRepo.FindByID(ctx, req.StationID)
	if err != nil {
		return nil, err
	}

	if err := station.AssignTicket(ticket.ID); err != nil {
		return nil, err
	}
	if err := ticket.Call(station.ID); err != nil {
		return nil, err
	}

	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.stationRepo.Save(ctx, station); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, reporting.ActionTicketCalled, actor, ticket,
		fmt.Sprintf("Ticket %s called to station %s", ticket.TicketNumber, station.Code))
	s.publishEvents(ctx, ticket)
	s.refreshQueue(ctx, ticket.ServiceTypeID)

	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// Attend starts attention on a called ticket
func (s *TicketService) Attend(ctx context.Context, ticketID uuid.UUID, actor Actor) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.Attend(); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, reporting.ActionTicketAttended, actor, ticket,
		fmt.Sprintf("Ticket %s attention started", ticket.TicketNumber))
	s.publishEvents(ctx, ticket)
	s.refreshQueue(ctx, ticket.ServiceTypeID)

	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// Complete finishes an in-progress ticket and frees its station
func (s *TicketService) Complete(ctx context.Context, ticketID uuid.UUID, req CompleteTicketRequest, actor Actor) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.Complete(req.Notes); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.releaseStation(ctx, ticket.StationID)

	s.recordActivity(ctx, reporting.ActionTicketCompleted, actor, ticket,
		fmt.Sprintf("Ticket %s completed", ticket.TicketNumber))
	s.publishEvents(ctx, ticket)
	s.refreshQueue(ctx, ticket.ServiceTypeID)

	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// Cancel aborts an active ticket; with NoShow set it records a called
// patient who never appeared. The station, if held, is released.
func (s *TicketService) Cancel(ctx context.Context, ticketID uuid.UUID, req CancelTicketRequest, actor Actor) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	action := reporting.ActionTicketCancelled
	if req.NoShow {
		if err := ticket.MarkNoShow(); err != nil {
			return nil, err
		}
		action = reporting.ActionTicketNoShow
	} else {
		if err := ticket.Cancel(req.Reason); err != nil {
			return nil, err
		}
	}

	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.releaseStation(ctx, ticket.StationID)

	s.recordActivity(ctx, action, actor, ticket,
		fmt.Sprintf("Ticket %s closed (%s)", ticket.TicketNumber, ticket.Status))
	s.publishEvents(ctx, ticket)
	s.refreshQueue(ctx, ticket.ServiceTypeID)

	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// Transfer moves an active ticket to the tail of another service queue.
// The display number is preserved; an in-progress ticket drops back to
// CALLED and its holding station is released.
func (s *TicketService) Transfer(ctx context.Context, ticketID uuid.UUID, req TransferTicketRequest, actor Actor) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	target, err := s.serviceTypeRepo.FindByID(ctx, req.TargetServiceTypeID)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Target service is not accepting tickets")
	}

	activeInTarget, err := s.ticketRepo.CountActive(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	operational, err := s.stationRepo.CountOperational(ctx)
	if err != nil {
		return nil, err
	}

	fromServiceID := ticket.ServiceTypeID
	heldStationID := ticket.StationID

	newPosition := int(activeInTarget) + 1
	if err := ticket.TransferTo(target.ID, newPosition); err != nil {
		return nil, err
	}
	ticket.EstimatedWaitTime = estimateWaitMinutes(newPosition, target.AverageTimeMinutes, operational)

	if err := s.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.releaseStation(ctx, heldStationID)

	s.recordActivity(ctx, reporting.ActionTicketTransferred, actor, ticket,
		fmt.Sprintf("Ticket %s transferred to service %s", ticket.TicketNumber, target.Code))
	s.publishEvents(ctx, ticket)
	s.refreshQueue(ctx, fromServiceID)
	s.refreshQueue(ctx, target.ID)

	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// Position reports where a ticket stands in its queue
func (s *TicketService) Position(ctx context.Context, ticketID uuid.UUID) (*TicketPositionResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ahead := 0
	if ticket.Status == queueing.TicketStatusWaiting {
		waiting, err := s.ticketRepo.FindWaiting(ctx, ticket.ServiceTypeID)
		if err != nil {
			return nil, err
		}
		for i := range waiting {
			if waiting[i].ID == ticket.ID {
				ahead = i
				break
			}
		}
	}

	return &TicketPositionResponse{
		TicketID:          ticket.ID,
		TicketNumber:      ticket.TicketNumber,
		Status:            string(ticket.Status),
		Position:          ticket.Position,
		PeopleAhead:       ahead,
		EstimatedWaitTime: ticket.EstimatedWaitTime,
	}, nil
}

// ResetPositions renumbers a service's waiting tickets contiguously
// from 1 in creation order and returns how many were renumbered.
func (s *TicketService) ResetPositions(ctx context.Context, serviceTypeID uuid.UUID, actor Actor) (int, error) {
	waiting, err := s.ticketRepo.FindWaiting(ctx, serviceTypeID)
	if err != nil {
		return 0, err
	}

	sort.Slice(waiting, func(i, j int) bool {
		return waiting[i].CreatedAt.Before(waiting[j].CreatedAt)
	})

	renumbered := 0
	for i := range waiting {
		ticket := &waiting[i]
		if ticket.Position == i+1 {
			continue
		}
		if err := ticket.UpdatePosition(i + 1); err != nil {
			return renumbered, err
		}
		if err := s.ticketRepo.Save(ctx, ticket); err != nil {
			return renumbered, err
		}
		renumbered++
	}

	if renumbered > 0 {
		s.recordActivity(ctx, reporting.ActionQueueAdvanced, actor, nil,
			fmt.Sprintf("Renumbered %d waiting tickets for service %s", renumbered, serviceTypeID))
		s.refreshQueue(ctx, serviceTypeID)
	}
	return renumbered, nil
}

// Stats summarizes today's ticket activity across all services
func (s *TicketService) Stats(ctx context.Context) (*TicketStatsResponse, error) {
	now := time.Now()

	counts, err := s.ticketRepo.StatusCountsOn(ctx, nil, now)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(counts))
	var total int64
	for status, count := range counts {
		byStatus[string(status)] = count
		total += count
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	serviceTypes, err := s.serviceTypeRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	var waitSum, serviceSum float64
	var waitN, serviceN int
	for i := range serviceTypes {
		completed, err := s.ticketRepo.FindCompletedBetween(ctx, serviceTypes[i].ID, startOfDay, now)
		if err != nil {
			return nil, err
		}
		for j := range completed {
			t := &completed[j]
			if t.CalledAt != nil {
				waitSum += t.CalledAt.Sub(t.CreatedAt).Minutes()
				waitN++
			}
			if t.AttendedAt != nil && t.CompletedAt != nil {
				serviceSum += t.CompletedAt.Sub(*t.AttendedAt).Minutes()
				serviceN++
			}
		}
	}

	stats := &TicketStatsResponse{
		Date:     now.Format("2006-01-02"),
		Total:    total,
		ByStatus: byStatus,
	}
	if waitN > 0 {
		stats.AverageWaitMinutes = waitSum / float64(waitN)
	}
	if serviceN > 0 {
		stats.AverageServiceMinutes = serviceSum / float64(serviceN)
	}
	return stats, nil
}

// releaseStation frees a station after its ticket leaves attention.
// Failures are logged, not fatal: the ticket transition already happened.
func (s *TicketService) releaseStation(ctx context.Context, stationID *uuid.UUID) {
	if stationID == nil {
		return
	}
	station, err := s.stationRepo.FindByID(ctx, *stationID)
	if err != nil {
		s.logger.Warn("station lookup failed during release",
			zap.String("station_id", stationID.String()), zap.Error(err))
		return
	}
	station.ReleaseTicket()
	if err := s.stationRepo.Save(ctx, station); err != nil {
		s.logger.Warn("station release failed",
			zap.String("station_code", station.Code), zap.Error(err))
	}
}

func (s *TicketService) refreshQueue(ctx context.Context, serviceTypeID uuid.UUID) {
	if s.queueService == nil {
		return
	}
	if _, err := s.queueService.Refresh(ctx, serviceTypeID); err != nil {
		s.logger.Warn("queue refresh failed",
			zap.String("service_type_id", serviceTypeID.String()), zap.Error(err))
	}
}

func (s *TicketService) recordActivity(ctx context.Context, action string, actor Actor, ticket *queueing.Ticket, details string) {
	var ticketID *uuid.UUID
	stationID := actor.StationID
	if ticket != nil {
		ticketID = &ticket.ID
		if ticket.StationID != nil {
			stationID = ticket.StationID
		}
	}
	entry, err := reporting.NewActivityLog(action, actor.UserID, ticketID, stationID,
		details, actor.IPAddress, actor.UserAgent)
	if err != nil {
		return
	}
	if err := s.activityRepo.Save(ctx, entry); err != nil {
		s.logger.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *TicketService) publishEvents(ctx context.Context, ticket *queueing.Ticket) {
	if s.eventPublisher == nil {
		ticket.ClearDomainEvents()
		return
	}
	events := ticket.GetDomainEvents()
	ticket.ClearDomainEvents()
	_ = s.eventPublisher.Publish(ctx, events...)
}

// estimateWaitMinutes projects how long a new ticket will wait given its
// queue position, the service's average attention time and how many
// stations are currently operating. Never less than one minute.
func estimateWaitMinutes(position, avgMinutes int, operationalStations int64) int {
	stations := int(operationalStations)
	if stations < 1 {
		stations = 1
	}
	estimate := (position - 1) * avgMinutes / stations
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}
