// Package integration wires real repositories and application services
// against a throwaway SQLite database, covering the full flow from service
// call to persisted row without mocking the persistence layer. Reporting
// aggregations are excluded here: their SQL relies on PostgreSQL functions
// and is covered by the repository tests with sqlmock.
package integration

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	catalogapp "github.com/labqueue/backend/internal/application/catalog"
	identityapp "github.com/labqueue/backend/internal/application/identity"
	queueingapp "github.com/labqueue/backend/internal/application/queueing"
	registryapp "github.com/labqueue/backend/internal/application/registry"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/display"
	"github.com/labqueue/backend/internal/domain/identity"
	"github.com/labqueue/backend/internal/domain/notification"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/registry"
	"github.com/labqueue/backend/internal/domain/reporting"
	"github.com/labqueue/backend/internal/infrastructure/auth"
	"github.com/labqueue/backend/internal/infrastructure/cache"
	"github.com/labqueue/backend/internal/infrastructure/config"
	"github.com/labqueue/backend/internal/infrastructure/persistence"
)

// newTestDB opens an isolated in-memory SQLite database and migrates the
// full schema. A single connection keeps every query on the same memory DB.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&catalog.ServiceType{},
		&registry.Patient{},
		&queueing.Station{},
		&queueing.Ticket{},
		&queueing.QueueState{},
		&identity.Role{},
		&identity.User{},
		&reporting.ActivityLog{},
		&reporting.DailyMetrics{},
		&notification.NotificationLog{},
		&display.Video{},
	))

	// Mirrors the migration's per-day uniqueness of display numbers,
	// which AutoMigrate cannot express.
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_tickets_number_day
		 ON tickets (service_type_id, ticket_number, date(created_at))`,
	).Error)

	return db
}

// testStack bundles the application services backed by a shared test DB.
type testStack struct {
	db *gorm.DB

	tickets  *queueingapp.TicketService
	queues   *queueingapp.QueueService
	stations *queueingapp.StationService
	services *catalogapp.ServiceTypeService
	patients *registryapp.PatientService
	auth     *identityapp.AuthService
	users    *identityapp.UserService

	roleRepo identity.RoleRepository
	userRepo identity.UserRepository
	jwt      *auth.JWTService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := newTestDB(t)

	ticketRepo := persistence.NewGormTicketRepository(db)
	patientRepo := persistence.NewGormPatientRepository(db)
	serviceTypeRepo := persistence.NewGormServiceTypeRepository(db)
	stationRepo := persistence.NewGormStationRepository(db)
	queueStateRepo := persistence.NewGormQueueStateRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	roleRepo := persistence.NewGormRoleRepository(db)
	activityRepo := persistence.NewGormActivityLogRepository(db)

	queueCache := cache.NewInMemoryQueueCache(time.Minute)
	queueService := queueingapp.NewQueueService(queueStateRepo, ticketRepo, serviceTypeRepo, stationRepo, activityRepo, queueCache, nil)
	ticketService := queueingapp.NewTicketService(ticketRepo, patientRepo, serviceTypeRepo, stationRepo, activityRepo, queueService, nil)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret-0123456789",
		RefreshSecret:          "integration-test-refresh-0123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "labqueue-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	return &testStack{
		db:       db,
		tickets:  ticketService,
		queues:   queueService,
		stations: queueingapp.NewStationService(stationRepo),
		services: catalogapp.NewServiceTypeService(serviceTypeRepo, ticketRepo),
		patients: registryapp.NewPatientService(patientRepo, ticketRepo, serviceTypeRepo),
		auth: identityapp.NewAuthService(userRepo, roleRepo, activityRepo, jwtService, blacklist, identityapp.AuthConfig{
			MaxLoginAttempts: 3,
			LockDuration:     15 * time.Minute,
		}, nil),
		users:    identityapp.NewUserService(userRepo, roleRepo, stationRepo, jwtService, blacklist, nil),
		roleRepo: roleRepo,
		userRepo: userRepo,
		jwt:      jwtService,
	}
}
