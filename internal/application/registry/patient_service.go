package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/registry"
	"github.com/labqueue/backend/internal/domain/shared"
)

// PatientService handles patient registration and lookups
type PatientService struct {
	patientRepo     registry.PatientRepository
	ticketRepo      queueing.TicketRepository
	serviceTypeRepo catalog.ServiceTypeRepository
	eventPublisher  shared.EventPublisher
}

// NewPatientService creates a new patient service
func NewPatientService(
	patientRepo registry.PatientRepository,
	ticketRepo queueing.TicketRepository,
	serviceTypeRepo catalog.ServiceTypeRepository,
) *PatientService {
	return &PatientService{
		patientRepo:     patientRepo,
		ticketRepo:      ticketRepo,
		serviceTypeRepo: serviceTypeRepo,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PatientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new patient
func (s *PatientService) Create(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
	document := registry.NormalizeDocument(req.DocumentNumber)
	exists, err := s.patientRepo.ExistsByDocument(ctx, document)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A patient with this document already exists")
	}

	patient, err := registry.NewPatient(req.DocumentNumber, req.FullName, req.BirthDate, req.Gender, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.patientRepo.Save(ctx, patient); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, patient)
	resp := ToPatientResponse(patient)
	return &resp, nil
}

// GetByID returns a patient by ID
func (s *PatientService) GetByID(ctx context.Context, id uuid.UUID) (*PatientResponse, error) {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPatientResponse(patient)
	return &resp, nil
}

// GetByDocument returns a patient by document number
func (s *PatientService) GetByDocument(ctx context.Context, documentNumber string) (*PatientResponse, error) {
	patient, err := s.patientRepo.FindByDocument(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	resp := ToPatientResponse(patient)
	return &resp, nil
}

// List returns patients matching the filter with the total count
func (s *PatientService) List(ctx context.Context, filter PatientListFilter) ([]PatientResponse, int64, error) {
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
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	patients, err := s.patientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.patientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPatientResponses(patients), total, nil
}

// Search finds patients by name or document substring
func (s *PatientService) Search(ctx context.Context, term string, page, pageSize int) ([]PatientResponse, error) {
	if term == "" {
		return []PatientResponse{}, nil
	}

	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	patients, err := s.patientRepo.Search(ctx, term, filter)
	if err != nil {
		return nil, err
	}
	return ToPatientResponses(patients), nil
}

// Update modifies a patient's mutable fields
func (s *PatientService) Update(ctx context.Context, id uuid.UUID, req UpdatePatientRequest) (*PatientResponse, error) {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patient.Update(req.FullName, req.BirthDate, req.Gender, req.Phone, req.Email); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Save(ctx, patient); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, patient)
	resp := ToPatientResponse(patient)
	return &resp, nil
}

// Deactivate marks a patient record as inactive. Patients with active
// tickets cannot be deactivated.
func (s *PatientService) Deactivate(ctx context.Context, id uuid.UUID) error {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	active, err := s.ticketRepo.FindActiveByPatient(ctx, id)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return shared.NewDomainError("CONFLICT", "Patient has active tickets and cannot be deactivated")
	}

	patient.Deactivate()
	if err := s.patientRepo.Save(ctx, patient); err != nil {
		return err
	}

	s.publishEvents(ctx, patient)
	return nil
}

// QueueInfo returns the patient's active tickets across all queues
func (s *PatientService) QueueInfo(ctx context.Context, id uuid.UUID) (*PatientQueueInfoResponse, error) {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.FindActiveByPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &PatientQueueInfoResponse{
		PatientID:     patient.ID,
		FullName:      patient.FullName,
		ActiveTickets: make([]PatientTicketInfo, 0, len(tickets)),
	}

	// Service types are few; a tiny lookup cache avoids repeated reads
	// when a patient holds tickets for several services.
	serviceTypes := make(map[uuid.UUID]*catalog.ServiceType)
	for i := range tickets {
		ticket := &tickets[i]
		serviceType, ok := serviceTypes[ticket.ServiceTypeID]
		if !ok {
			serviceType, err = s.serviceTypeRepo.FindByID(ctx, ticket.ServiceTypeID)
			if err != nil {
				return nil, err
			}
			serviceTypes[ticket.ServiceTypeID] = serviceType
		}

		info.ActiveTickets = append(info.ActiveTickets, PatientTicketInfo{
			TicketID:          ticket.ID,
			TicketNumber:      ticket.TicketNumber,
			ServiceTypeID:     ticket.ServiceTypeID,
			ServiceCode:       serviceType.Code,
			ServiceName:       serviceType.Name,
			Status:            string(ticket.Status),
			Position:          ticket.Position,
			EstimatedWaitTime: ticket.EstimatedWaitTime,
			CreatedAt:         ticket.CreatedAt,
		})
	}

	return info, nil
}

func (s *PatientService) publishEvents(ctx context.Context, patient *registry.Patient) {
	if s.eventPublisher == nil {
		patient.ClearDomainEvents()
		return
	}
	events := patient.GetDomainEvents()
	patient.ClearDomainEvents()
	_ = s.eventPublisher.Publish(ctx, events...)
}
