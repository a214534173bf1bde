package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/shared"
)

// quickSetupEntry is one service of the default laboratory catalog
type quickSetupEntry struct {
	code     string
	name     string
	prefix   string
	priority int
	avgTime  int
	color    string
}

var quickSetupCatalog = []quickSetupEntry{
	{"LAB", "Análisis de Laboratorio", "A", 2, 15, "#3B82F6"},
	{"RES", "Entrega de Resultados", "R", 3, 5, "#10B981"},
	{"MUE", "Toma de Muestras", "M", 2, 10, "#F59E0B"},
	{"CON", "Consulta", "C", 4, 20, "#8B5CF6"},
	{"PRI", "Atención Prioritaria", "P", 1, 10, "#EF4444"},
}

// ServiceTypeService handles service catalog operations
type ServiceTypeService struct {
	serviceTypeRepo catalog.ServiceTypeRepository
	ticketRepo      queueing.TicketRepository
	eventPublisher  shared.EventPublisher
}

// NewServiceTypeService creates a new ServiceTypeService
func NewServiceTypeService(serviceTypeRepo catalog.ServiceTypeRepository, ticketRepo queueing.TicketRepository) *ServiceTypeService {
	return &ServiceTypeService{
		serviceTypeRepo: serviceTypeRepo,
		ticketRepo:      ticketRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ServiceTypeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new service type
func (s *ServiceTypeService) Create(ctx context.Context, req CreateServiceTypeRequest) (*ServiceTypeResponse, error) {
	exists, err := s.serviceTypeRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Service type with this code already exists")
	}

	serviceType, err := catalog.NewServiceType(req.Code, req.Name, req.Description,
		req.TicketPrefix, req.Priority, req.AverageTimeMinutes, req.Color)
	if err != nil {
		return nil, err
	}

	taken, err := s.serviceTypeRepo.ExistsByTicketPrefix(ctx, serviceType.TicketPrefix)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Ticket prefix is already in use")
	}

	if err := s.serviceTypeRepo.Save(ctx, serviceType); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, serviceType)

	resp := ToServiceTypeResponse(serviceType)
	return &resp, nil
}

// GetByID returns a service type by ID
func (s *ServiceTypeService) GetByID(ctx context.Context, id uuid.UUID) (*ServiceTypeResponse, error) {
	serviceType, err := s.serviceTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToServiceTypeResponse(serviceType)
	return &resp, nil
}

// GetByCode returns a service type by code
func (s *ServiceTypeService) GetByCode(ctx context.Context, code string) (*ServiceTypeResponse, error) {
	serviceType, err := s.serviceTypeRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToServiceTypeResponse(serviceType)
	return &resp, nil
}

// List returns service types matching the filter with the total count
func (s *ServiceTypeService) List(ctx context.Context, filter ServiceTypeListFilter) ([]ServiceTypeResponse, int64, error) {
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

	serviceTypes, err := s.serviceTypeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.serviceTypeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToServiceTypeResponses(serviceTypes), total, nil
}

// ListActive returns the active service types ordered by priority
func (s *ServiceTypeService) ListActive(ctx context.Context) ([]ServiceTypeResponse, error) {
	serviceTypes, err := s.serviceTypeRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return ToServiceTypeResponses(serviceTypes), nil
}

// Update modifies a service type
func (s *ServiceTypeService) Update(ctx context.Context, id uuid.UUID, req UpdateServiceTypeRequest) (*ServiceTypeResponse, error) {
	serviceType, err := s.serviceTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := serviceType.Update(req.Name, req.Description, req.Priority, req.AverageTimeMinutes, req.Color); err != nil {
		return nil, err
	}
	if err := s.serviceTypeRepo.Save(ctx, serviceType); err != nil {
		return nil, err
	}
	resp := ToServiceTypeResponse(serviceType)
	return &resp, nil
}

// Activate marks a service type as active
func (s *ServiceTypeService) Activate(ctx context.Context, id uuid.UUID) (*ServiceTypeResponse, error) {
	serviceType, err := s.serviceTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	serviceType.Activate()
	if err := s.serviceTypeRepo.Save(ctx, serviceType); err != nil {
		return nil, err
	}
	resp := ToServiceTypeResponse(serviceType)
	return &resp, nil
}

// Deactivate marks a service type as inactive. Existing tickets are untouched.
func (s *ServiceTypeService) Deactivate(ctx context.Context, id uuid.UUID) (*ServiceTypeResponse, error) {
	serviceType, err := s.serviceTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	serviceType.Deactivate()
	if err := s.serviceTypeRepo.Save(ctx, serviceType); err != nil {
		return nil, err
	}
	resp := ToServiceTypeResponse(serviceType)
	return &resp, nil
}

// Delete removes a service type that no ticket references
func (s *ServiceTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	serviceType, err := s.serviceTypeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	filter := shared.DefaultFilter()
	filter.Filters["service_type_id"] = serviceType.ID
	count, err := s.ticketRepo.Count(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CONFLICT", "Service type has tickets and cannot be deleted; deactivate it instead")
	}

	return s.serviceTypeRepo.Delete(ctx, serviceType.ID)
}

// ValidateCode reports whether a service code is available
func (s *ServiceTypeService) ValidateCode(ctx context.Context, code string) (*CodeAvailabilityResponse, error) {
	exists, err := s.serviceTypeRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &CodeAvailabilityResponse{Value: code, Available: !exists}, nil
}

// ValidatePrefix reports whether a ticket prefix is available
func (s *ServiceTypeService) ValidatePrefix(ctx context.Context, prefix string) (*CodeAvailabilityResponse, error) {
	exists, err := s.serviceTypeRepo.ExistsByTicketPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return &CodeAvailabilityResponse{Value: prefix, Available: !exists}, nil
}

// Stats returns today's ticket counts by status for a service type
func (s *ServiceTypeService) Stats(ctx context.Context, id uuid.UUID) (*ServiceTypeStatsResponse, error) {
	serviceType, err := s.serviceTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	counts, err := s.ticketRepo.StatusCountsOn(ctx, &serviceType.ID, today)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(counts))
	var total int64
	for status, count := range counts {
		byStatus[string(status)] = count
		total += count
	}

	return &ServiceTypeStatsResponse{
		ServiceTypeID: serviceType.ID,
		Code:          serviceType.Code,
		Date:          today.Format("2006-01-02"),
		Total:         total,
		ByStatus:      byStatus,
	}, nil
}

// QuickSetup seeds the default laboratory catalog, skipping codes that
// already exist. Returns the created service types.
func (s *ServiceTypeService) QuickSetup(ctx context.Context) ([]ServiceTypeResponse, error) {
	created := make([]ServiceTypeResponse, 0, len(quickSetupCatalog))
	for _, entry := range quickSetupCatalog {
		exists, err := s.serviceTypeRepo.ExistsByCode(ctx, entry.code)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		serviceType, err := catalog.NewServiceType(entry.code, entry.name, "",
			entry.prefix, entry.priority, entry.avgTime, entry.color)
		if err != nil {
			return nil, err
		}
		if err := s.serviceTypeRepo.Save(ctx, serviceType); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, serviceType)
		created = append(created, ToServiceTypeResponse(serviceType))
	}
	return created, nil
}

func (s *ServiceTypeService) publishEvents(ctx context.Context, serviceType *catalog.ServiceType) {
	if s.eventPublisher == nil {
		serviceType.ClearDomainEvents()
		return
	}
	events := serviceType.GetDomainEvents()
	serviceType.ClearDomainEvents()
	_ = s.eventPublisher.Publish(ctx, events...)
}
