package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/identity"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/shared"
	"github.com/labqueue/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStationRepository is a mock implementation of queueing.StationRepository
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

type userServiceMocks struct {
	users    *MockUserRepository
	roles    *MockRoleRepository
	stations *MockStationRepository
	jwt      *auth.JWTService
	bl       *auth.InMemoryTokenBlacklist
}

func newUserService(t *testing.T) (*UserService, *userServiceMocks) {
	t.Helper()
	m := &userServiceMocks{
		users:    new(MockUserRepository),
		roles:    new(MockRoleRepository),
		stations: new(MockStationRepository),
		jwt:      testJWTService(),
		bl:       auth.NewInMemoryTokenBlacklist(),
	}
	svc := NewUserService(m.users, m.roles, m.stations, m.jwt, m.bl, nil)
	return svc, m
}

func TestUserService_Create(t *testing.T) {
	t.Run("creates an account with an optional station", func(t *testing.T) {
		svc, m := newUserService(t)
		role := testRole(t)
		station, err := queueing.NewStation("V3", "Ventanilla 3", "")
		require.NoError(t, err)

		m.users.On("ExistsByUsername", mock.Anything, "btorres").Return(false, nil)
		m.users.On("ExistsByEmail", mock.Anything, "btorres@lab.example").Return(false, nil)
		m.roles.On("FindByID", mock.Anything, role.ID).Return(role, nil)
		m.stations.On("FindByID", mock.Anything, station.ID).Return(station, nil)
		m.users.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Create(context.Background(), CreateUserRequest{
			Username:  "btorres",
			Email:     "btorres@lab.example",
			Password:  "Password1",
			FullName:  "Beatriz Torres",
			RoleID:    role.ID,
			StationID: &station.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, "btorres", resp.Username)
		assert.Equal(t, "agente", resp.RoleName)
		require.NotNil(t, resp.StationID)
		assert.Equal(t, station.ID, *resp.StationID)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		svc, m := newUserService(t)

		m.users.On("ExistsByUsername", mock.Anything, "btorres").Return(true, nil)

		_, err := svc.Create(context.Background(), CreateUserRequest{
			Username: "btorres",
			Email:    "btorres@lab.example",
			Password: "Password1",
			FullName: "Beatriz Torres",
			RoleID:   uuid.New(),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		m.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a registered email", func(t *testing.T) {
		svc, m := newUserService(t)

		m.users.On("ExistsByUsername", mock.Anything, "btorres").Return(false, nil)
		m.users.On("ExistsByEmail", mock.Anything, "btorres@lab.example").Return(true, nil)

		_, err := svc.Create(context.Background(), CreateUserRequest{
			Username: "btorres",
			Email:    "btorres@lab.example",
			Password: "Password1",
			FullName: "Beatriz Torres",
			RoleID:   uuid.New(),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestUserService_AssignStation(t *testing.T) {
	t.Run("rejects an inactive station", func(t *testing.T) {
		svc, m := newUserService(t)
		role := testRole(t)
		user := testUser(t, role)
		station, err := queueing.NewStation("V4", "Ventanilla 4", "")
		require.NoError(t, err)
		station.Deactivate()

		m.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		m.stations.On("FindByID", mock.Anything, station.ID).Return(station, nil)

		_, err = svc.AssignStation(context.Background(), user.ID, AssignStationRequest{StationID: &station.ID})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("clears the assignment with a nil station", func(t *testing.T) {
		svc, m := newUserService(t)
		role := testRole(t)
		user := testUser(t, role)
		stationID := uuid.New()
		user.AssignStation(&stationID)

		m.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		m.users.On("Save", mock.Anything, user).Return(nil)
		m.roles.On("FindByID", mock.Anything, role.ID).Return(role, nil)

		resp, err := svc.AssignStation(context.Background(), user.ID, AssignStationRequest{StationID: nil})

		require.NoError(t, err)
		assert.Nil(t, resp.StationID)
	})
}

func TestUserService_AssignRole(t *testing.T) {
	svc, m := newUserService(t)
	role := testRole(t)
	user := testUser(t, role)

	pair, err := m.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     role.Name,
	})
	require.NoError(t, err)
	claims, err := m.jwt.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	adminRole, err := identity.NewRole("supervisor", "Supervisor", []string{identity.PermReportsView})
	require.NoError(t, err)

	m.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	m.roles.On("FindByID", mock.Anything, adminRole.ID).Return(adminRole, nil)
	m.users.On("Save", mock.Anything, user).Return(nil)

	resp, err := svc.AssignRole(context.Background(), user.ID, AssignRoleRequest{RoleID: adminRole.ID})

	require.NoError(t, err)
	assert.Equal(t, adminRole.ID, resp.RoleID)
	assert.Equal(t, "supervisor", resp.RoleName)

	// tokens minted under the old role are invalidated
	invalidated, err := m.bl.IsUserTokenInvalidated(context.Background(), user.ID.String(), claims.GetIssuedAtTime())
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_ResetPassword(t *testing.T) {
	svc, m := newUserService(t)
	role := testRole(t)
	user := testUser(t, role)

	m.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	m.users.On("Save", mock.Anything, user).Return(nil)

	err := svc.ResetPassword(context.Background(), user.ID, ResetPasswordRequest{NewPassword: "Temporal9x"})

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("Temporal9x"))
	assert.False(t, user.VerifyPassword("Password1"))
}

func TestUserService_Deactivate(t *testing.T) {
	svc, m := newUserService(t)
	role := testRole(t)
	user := testUser(t, role)

	m.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	m.users.On("Save", mock.Anything, user).Return(nil)

	require.NoError(t, svc.Deactivate(context.Background(), user.ID))
	assert.False(t, user.IsActive())

	invalidated, err := m.bl.IsUserTokenInvalidated(context.Background(), user.ID.String(), user.CreatedAt)
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_Stats(t *testing.T) {
	svc, m := newUserService(t)
	role := testRole(t)

	m.users.On("Count", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return len(f.Filters) == 0
	})).Return(int64(8), nil)
	m.users.On("Count", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == identity.UserStatusActive
	})).Return(int64(6), nil)
	m.users.On("Count", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == identity.UserStatusLocked
	})).Return(int64(1), nil)
	m.users.On("Count", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == identity.UserStatusDeactivated
	})).Return(int64(1), nil)
	m.roles.On("FindAll", mock.Anything).Return([]identity.Role{*role}, nil)
	m.users.On("CountByRole", mock.Anything, role.ID).Return(int64(5), nil)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(8), stats.Total)
	assert.Equal(t, int64(6), stats.Active)
	assert.Equal(t, int64(1), stats.Locked)
	assert.Equal(t, int64(1), stats.Deactivated)
	assert.Equal(t, int64(5), stats.ByRole["agente"])
}

func TestUserService_List(t *testing.T) {
	svc, m := newUserService(t)
	role := testRole(t)
	u1 := testUser(t, role)
	u2, err := identity.NewUser("clopez", "clopez@lab.example", "Password1", "Carla López", role.ID)
	require.NoError(t, err)

	m.users.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == identity.UserStatusActive
	})).Return([]identity.User{*u1, *u2}, nil)
	m.users.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)
	m.roles.On("FindAll", mock.Anything).Return([]identity.Role{*role}, nil)

	users, total, err := svc.List(context.Background(), UserListFilter{Status: "active"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	assert.Equal(t, "agente", users[0].RoleName)
}
