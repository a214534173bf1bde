package queueing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/shared"
)

// StationService manages workstations
type StationService struct {
	stationRepo    queueing.StationRepository
	eventPublisher shared.EventPublisher
}

// NewStationService creates a new station service
func NewStationService(stationRepo queueing.StationRepository) *StationService {
	return &StationService{stationRepo: stationRepo}
}

// SetEventPublisher sets the event publisher for domain events
func (s *StationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new workstation
func (s *StationService) Create(ctx context.Context, req CreateStationRequest) (*StationResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.stationRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A station with this code already exists")
	}

	station, err := queueing.NewStation(req.Code, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.stationRepo.Save(ctx, station); err != nil {
		return nil, err
	}

	resp := ToStationResponse(station)
	return &resp, nil
}

// GetByID returns a station by ID
func (s *StationService) GetByID(ctx context.Context, id uuid.UUID) (*StationResponse, error) {
	station, err := s.stationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStationResponse(station)
	return &resp, nil
}

// GetByCode returns a station by code
func (s *StationService) GetByCode(ctx context.Context, code string) (*StationResponse, error) {
	station, err := s.stationRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToStationResponse(station)
	return &resp, nil
}

// List returns stations matching the filter with the total count
func (s *StationService) List(ctx context.Context, filter StationListFilter) ([]StationResponse, int64, error) {
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
		domainFilter.Filters["status"] = queueing.StationStatus(filter.Status)
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	stations, err := s.stationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStationResponses(stations), total, nil
}

// ListAvailable returns the stations able to take a ticket right now
func (s *StationService) ListAvailable(ctx context.Context) ([]StationResponse, error) {
	stations, err := s.stationRepo.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return ToStationResponses(stations), nil
}

// Update modifies a station's mutable fields
func (s *StationService) Update(ctx context.Context, id uuid.UUID, req UpdateStationRequest) (*StationResponse, error) {
	station, err := s.stationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := station.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.stationRepo.Save(ctx, station); err != nil {
		return nil, err
	}

	resp := ToStationResponse(station)
	return &resp, nil
}

// SetStatus changes a station's operational status. A station holding a
// ticket must complete or cancel it first.
func (s *StationService) SetStatus(ctx context.Context, id uuid.UUID, req SetStationStatusRequest) (*StationResponse, error) {
	station, err := s.stationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := station.SetStatus(queueing.StationStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.stationRepo.Save(ctx, station); err != nil {
		return nil, err
	}

	resp := ToStationResponse(station)
	return &resp, nil
}

// Deactivate takes a station out of service
func (s *StationService) Deactivate(ctx context.Context, id uuid.UUID) error {
	station, err := s.stationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := station.Deactivate(); err != nil {
		return err
	}
	return s.stationRepo.Save(ctx, station)
}
