package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockServiceTypeRepository is a mock implementation of ServiceTypeRepository
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

// MockTicketRepository is a mock implementation of queueing.TicketRepository
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

func (m *MockTicketRepository) Issue(ctx context.Context, serviceTypeID uuid.UUID, day time.Time, build func(sequence, position int) (*queueing.Ticket, error)) (*queueing.Ticket, error) {
	args := m.Called(ctx, serviceTypeID, day)
	if err := args.Error(2); err != nil {
		return nil, err
	}
	return build(args.Int(0), args.Int(1))
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

func newServiceTypeService() (*ServiceTypeService, *MockServiceTypeRepository, *MockTicketRepository) {
	serviceTypeRepo := new(MockServiceTypeRepository)
	ticketRepo := new(MockTicketRepository)
	return NewServiceTypeService(serviceTypeRepo, ticketRepo), serviceTypeRepo, ticketRepo
}

func TestServiceTypeService_Create(t *testing.T) {
	t.Run("creates service type with defaults", func(t *testing.T) {
		svc, repo, _ := newServiceTypeService()

		repo.On("ExistsByCode", mock.Anything, "LAB").Return(false, nil)
		repo.On("ExistsByTicketPrefix", mock.Anything, "L").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.ServiceType")).Return(nil)

		resp, err := svc.Create(context.Background(), CreateServiceTypeRequest{
			Code: "LAB",
			Name: "Análisis de Laboratorio",
		})

		require.NoError(t, err)
		assert.Equal(t, "LAB", resp.Code)
		assert.Equal(t, "L", resp.TicketPrefix)
		assert.Equal(t, catalog.DefaultPriority, resp.Priority)
		assert.Equal(t, catalog.DefaultAverageTimeMinutes, resp.AverageTimeMinutes)
		assert.True(t, resp.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		svc, repo, _ := newServiceTypeService()

		repo.On("ExistsByCode", mock.Anything, "LAB").Return(true, nil)

		_, err := svc.Create(context.Background(), CreateServiceTypeRequest{
			Code: "LAB",
			Name: "Laboratorio",
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects taken ticket prefix", func(t *testing.T) {
		svc, repo, _ := newServiceTypeService()

		repo.On("ExistsByCode", mock.Anything, "RES").Return(false, nil)
		repo.On("ExistsByTicketPrefix", mock.Anything, "R").Return(true, nil)

		_, err := svc.Create(context.Background(), CreateServiceTypeRequest{
			Code: "RES",
			Name: "Resultados",
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestServiceTypeService_Delete(t *testing.T) {
	t.Run("refuses to delete a service with tickets", func(t *testing.T) {
		svc, repo, ticketRepo := newServiceTypeService()

		serviceType, err := catalog.NewServiceType("LAB", "Laboratorio", "", "A", 2, 15, "")
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, serviceType.ID).Return(serviceType, nil)
		ticketRepo.On("Count", mock.Anything, mock.Anything).Return(int64(3), nil)

		err = svc.Delete(context.Background(), serviceType.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
	})

	t.Run("deletes a service with no tickets", func(t *testing.T) {
		svc, repo, ticketRepo := newServiceTypeService()

		serviceType, err := catalog.NewServiceType("CON", "Consulta", "", "C", 4, 20, "")
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, serviceType.ID).Return(serviceType, nil)
		ticketRepo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)
		repo.On("Delete", mock.Anything, serviceType.ID).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), serviceType.ID))
		repo.AssertExpectations(t)
	})
}

func TestServiceTypeService_Stats(t *testing.T) {
	svc, repo, ticketRepo := newServiceTypeService()

	serviceType, err := catalog.NewServiceType("LAB", "Laboratorio", "", "A", 2, 15, "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, serviceType.ID).Return(serviceType, nil)
	ticketRepo.On("StatusCountsOn", mock.Anything, &serviceType.ID, mock.Anything).
		Return(map[queueing.TicketStatus]int64{
			queueing.TicketStatusWaiting:   3,
			queueing.TicketStatusCompleted: 10,
		}, nil)

	stats, err := svc.Stats(context.Background(), serviceType.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(13), stats.Total)
	assert.Equal(t, int64(3), stats.ByStatus["WAITING"])
	assert.Equal(t, int64(10), stats.ByStatus["COMPLETED"])
}

func TestServiceTypeService_QuickSetup(t *testing.T) {
	t.Run("seeds the default catalog", func(t *testing.T) {
		svc, repo, _ := newServiceTypeService()

		repo.On("ExistsByCode", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.ServiceType")).Return(nil)

		created, err := svc.QuickSetup(context.Background())

		require.NoError(t, err)
		assert.Len(t, created, 5)
		assert.Equal(t, "LAB", created[0].Code)
		assert.Equal(t, 1, created[4].Priority) // PRI is the highest priority
	})

	t.Run("skips codes that already exist", func(t *testing.T) {
		svc, repo, _ := newServiceTypeService()

		repo.On("ExistsByCode", mock.Anything, "LAB").Return(true, nil)
		repo.On("ExistsByCode", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.ServiceType")).Return(nil)

		created, err := svc.QuickSetup(context.Background())

		require.NoError(t, err)
		assert.Len(t, created, 4)
	})
}

func TestServiceTypeService_ValidateCode(t *testing.T) {
	svc, repo, _ := newServiceTypeService()

	repo.On("ExistsByCode", mock.Anything, "NEW").Return(false, nil)

	resp, err := svc.ValidateCode(context.Background(), "NEW")

	require.NoError(t, err)
	assert.True(t, resp.Available)
}
