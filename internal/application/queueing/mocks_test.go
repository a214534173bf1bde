package queueing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/registry"
	"github.com/labqueue/backend/internal/domain/reporting"
	"github.com/labqueue/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*queueing.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByNumber(ctx context.Context, number string, day time.Time) (*queueing.Ticket, error) {
	args := m.Called(ctx, number, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]queueing.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Save(ctx context.Context, ticket *queueing.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

// Issue invokes build with the sequence and position the expectation was
// configured with, e.g. .Return(5, 3, nil).
func (m *MockTicketRepository) Issue(ctx context.Context, serviceTypeID uuid.UUID, day time.Time, build func(sequence, position int) (*queueing.Ticket, error)) (*queueing.Ticket, error) {
	args := m.Called(ctx, serviceTypeID, day)
	if err := args.Error(2); err != nil {
		return nil, err
	}
	return build(args.Int(0), args.Int(1))
}

func (m *MockTicketRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) FindWaiting(ctx context.Context, serviceTypeID uuid.UUID) ([]queueing.Ticket, error) {
	args := m.Called(ctx, serviceTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindFirstWaiting(ctx context.Context, serviceTypeID uuid.UUID) (*queueing.Ticket, error) {
	args := m.Called(ctx, serviceTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindCurrentHead(ctx context.Context, serviceTypeID uuid.UUID) (*queueing.Ticket, error) {
	args := m.Called(ctx, serviceTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]queueing.Ticket, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountWaiting(ctx context.Context, serviceTypeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, serviceTypeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) CountActive(ctx context.Context, serviceTypeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, serviceTypeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) CountCreatedOn(ctx context.Context, serviceTypeID uuid.UUID, day time.Time) (int64, error) {
	args := m.Called(ctx, serviceTypeID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) HasActiveForPatient(ctx context.Context, patientID, serviceTypeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, patientID, serviceTypeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) FindCompletedBetween(ctx context.Context, serviceTypeID uuid.UUID, from, to time.Time) ([]queueing.Ticket, error) {
	args := m.Called(ctx, serviceTypeID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.Ticket), args.Error(1)
}

func (m *MockTicketRepository) StatusCountsOn(ctx context.Context, serviceTypeID *uuid.UUID, day time.Time) (map[queueing.TicketStatus]int64, error) {
	args := m.Called(ctx, serviceTypeID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[queueing.TicketStatus]int64), args.Error(1)
}

func (m *MockTicketRepository) CountInProgress(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) CountCompletedOn(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

// MockPatientRepository is a mock implementation of registry.PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByDocument(ctx context.Context, documentNumber string) (*registry.Patient, error) {
	args := m.Called(ctx, documentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Patient, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.Patient), args.Error(1)
}

func (m *MockPatientRepository) Search(ctx context.Context, term string, filter shared.Filter) ([]registry.Patient, error) {
	args := m.Called(ctx, term, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.Patient), args.Error(1)
}

func (m *MockPatientRepository) Save(ctx context.Context, patient *registry.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPatientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRepository) ExistsByDocument(ctx context.Context, documentNumber string) (bool, error) {
	args := m.Called(ctx, documentNumber)
	return args.Bool(0), args.Error(1)
}

// MockServiceTypeRepository is a mock implementation of catalog.ServiceTypeRepository
type MockServiceTypeRepository struct {
	mock.Mock
}

func (m *MockServiceTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ServiceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepository) FindByCode(ctx context.Context, code string) (*catalog.ServiceType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepository) FindByTicketPrefix(ctx context.Context, prefix string) (*catalog.ServiceType, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ServiceType, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepository) FindActive(ctx context.Context) ([]catalog.ServiceType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepository) Save(ctx context.Context, serviceType *catalog.ServiceType) error {
	args := m.Called(ctx, serviceType)
	return args.Error(0)
}

func (m *MockServiceTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockServiceTypeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockServiceTypeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockServiceTypeRepository) ExistsByTicketPrefix(ctx context.Context, prefix string) (bool, error) {
	args := m.Called(ctx, prefix)
	return args.Bool(0), args.Error(1)
}

// MockStationRepository is a mock implementation of StationRepository
type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) FindByID(ctx context.Context, id uuid.UUID) (*queueing.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueing.Station), args.Error(1)
}

func (m *MockStationRepository) FindByCode(ctx context.Context, code string) (*queueing.Station, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueing.Station), args.Error(1)
}

func (m *MockStationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]queueing.Station, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.Station), args.Error(1)
}

func (m *MockStationRepository) FindAvailable(ctx context.Context) ([]queueing.Station, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.Station), args.Error(1)
}

func (m *MockStationRepository) Save(ctx context.Context, station *queueing.Station) error {
	args := m.Called(ctx, station)
	return args.Error(0)
}

func (m *MockStationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStationRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockStationRepository) CountOperational(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStationRepository) CountBusy(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockQueueStateRepository is a mock implementation of QueueStateRepository
type MockQueueStateRepository struct {
	mock.Mock
}

func (m *MockQueueStateRepository) FindByID(ctx context.Context, id uuid.UUID) (*queueing.QueueState, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueing.QueueState), args.Error(1)
}

func (m *MockQueueStateRepository) FindByKey(ctx context.Context, serviceTypeID uuid.UUID, stationID *uuid.UUID) (*queueing.QueueState, error) {
	args := m.Called(ctx, serviceTypeID, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueing.QueueState), args.Error(1)
}

func (m *MockQueueStateRepository) FindByService(ctx context.Context, serviceTypeID uuid.UUID) ([]queueing.QueueState, error) {
	args := m.Called(ctx, serviceTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.QueueState), args.Error(1)
}

func (m *MockQueueStateRepository) FindByStation(ctx context.Context, stationID uuid.UUID) ([]queueing.QueueState, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.QueueState), args.Error(1)
}

func (m *MockQueueStateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]queueing.QueueState, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.QueueState), args.Error(1)
}

func (m *MockQueueStateRepository) FindActive(ctx context.Context) ([]queueing.QueueState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.QueueState), args.Error(1)
}

func (m *MockQueueStateRepository) FindIdleSince(ctx context.Context, cutoff time.Time) ([]queueing.QueueState, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queueing.QueueState), args.Error(1)
}

func (m *MockQueueStateRepository) Save(ctx context.Context, state *queueing.QueueState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockQueueStateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQueueStateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockActivityLogRepository is a mock implementation of reporting.ActivityLogRepository
type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Save(ctx context.Context, log *reporting.ActivityLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockActivityLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]reporting.ActivityLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reporting.ActivityLog), args.Error(1)
}

func (m *MockActivityLogRepository) FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]reporting.ActivityLog, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reporting.ActivityLog), args.Error(1)
}

func (m *MockActivityLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
