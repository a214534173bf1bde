package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labqueue/backend/internal/application/catalog"
	displayapp "github.com/labqueue/backend/internal/application/display"
	"github.com/labqueue/backend/internal/application/identity"
	notificationapp "github.com/labqueue/backend/internal/application/notification"
	"github.com/labqueue/backend/internal/application/queueing"
	"github.com/labqueue/backend/internal/application/registry"
	"github.com/labqueue/backend/internal/application/reporting"
	identitydomain "github.com/labqueue/backend/internal/domain/identity"
	"github.com/labqueue/backend/internal/infrastructure/auth"
	"github.com/labqueue/backend/internal/infrastructure/cache"
	"github.com/labqueue/backend/internal/infrastructure/config"
	"github.com/labqueue/backend/internal/infrastructure/event"
	"github.com/labqueue/backend/internal/infrastructure/logger"
	"github.com/labqueue/backend/internal/infrastructure/persistence"
	"github.com/labqueue/backend/internal/infrastructure/scheduler"
	"github.com/labqueue/backend/internal/interfaces/http/handler"
	"github.com/labqueue/backend/internal/interfaces/http/middleware"
	"github.com/labqueue/backend/internal/interfaces/http/router"
	"github.com/labqueue/backend/internal/interfaces/ws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting queue backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Redis backs the queue state cache and the token blacklist. The
	// server still comes up without it: both fall back to in-process
	// implementations, which is enough for a single-instance deploy.
	queueCache, tokenBlacklist, redisClient := buildCacheLayer(cfg, log)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
	}

	// Initialize repositories
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	patientRepo := persistence.NewGormPatientRepository(db.DB)
	serviceTypeRepo := persistence.NewGormServiceTypeRepository(db.DB)
	stationRepo := persistence.NewGormStationRepository(db.DB)
	queueStateRepo := persistence.NewGormQueueStateRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationLogRepository(db.DB)
	reportRepo := persistence.NewGormQueueReportRepository(db.DB)
	metricsRepo := persistence.NewGormDailyMetricsRepository(db.DB)
	videoRepo := persistence.NewGormVideoRepository(db.DB)

	// Identity services (auth, users)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identity.NewAuthService(userRepo, roleRepo, activityRepo, jwtService, tokenBlacklist, identity.AuthConfig{
		MaxLoginAttempts: cfg.Queue.MaxLoginAttempts,
		LockDuration:     cfg.Queue.LoginLockDuration,
	}, log)
	userService := identity.NewUserService(userRepo, roleRepo, stationRepo, jwtService, tokenBlacklist, log)

	// Queueing services
	queueService := queueing.NewQueueService(queueStateRepo, ticketRepo, serviceTypeRepo, stationRepo, activityRepo, queueCache, log)
	queueService.SetWaitTimeWindow(cfg.Queue.WaitTimeWindow)
	ticketService := queueing.NewTicketService(ticketRepo, patientRepo, serviceTypeRepo, stationRepo, activityRepo, queueService, log)
	stationService := queueing.NewStationService(stationRepo)

	// Catalog and registry services
	serviceTypeService := catalog.NewServiceTypeService(serviceTypeRepo, ticketRepo)
	patientService := registry.NewPatientService(patientRepo, ticketRepo, serviceTypeRepo)

	// Waiting-room display playlist
	videoService := displayapp.NewVideoService(videoRepo)

	// Notification and reporting services
	notificationService := notificationapp.NewNotificationService(notificationRepo)
	activityService := reporting.NewActivityService(activityRepo)
	reportService := reporting.NewReportService(reportRepo, ticketRepo)
	metricsService := reporting.NewMetricsService(metricsRepo, ticketRepo, serviceTypeRepo, reportRepo, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// WebSocket hub pushes queue events to waiting-room displays,
	// station panels and the admin dashboard
	wsHub := ws.NewHub(log)
	broadcaster := ws.NewBroadcaster(wsHub, log)
	eventBus.Subscribe(broadcaster)

	// Ticket call notifications are announced on the displays
	displaySender := ws.NewDisplaySender(wsHub)
	dispatcher := notificationapp.NewDispatcher(notificationRepo, ticketRepo, patientRepo, stationRepo, serviceTypeRepo, log).
		WithSender(displaySender)
	eventBus.Subscribe(dispatcher)

	log.Info("Event handlers registered",
		zap.Strings("broadcast_events", broadcaster.EventTypes()),
		zap.Strings("notification_events", dispatcher.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	ticketService.SetEventPublisher(eventBus)
	queueService.SetEventPublisher(eventBus)
	stationService.SetEventPublisher(eventBus)
	serviceTypeService.SetEventPublisher(eventBus)

	// Warm the queue cache so displays have state before the first ticket
	if n, err := queueService.InitializeAll(context.Background()); err != nil {
		log.Warn("Queue state initialization failed", zap.Error(err))
	} else {
		log.Info("Queue states initialized", zap.Int("queues", n))
	}

	// Background tasks: wait time refresh, stale ticket cleanup, daily rollup
	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(log)
		sched.Register("queue-wait-times", cfg.Scheduler.WaitTimeInterval, func(ctx context.Context) error {
			_, err := queueService.RefreshAll(ctx)
			return err
		})
		sched.Register("stale-ticket-cleanup", cfg.Scheduler.StaleCleanupInterval, func(ctx context.Context) error {
			_, err := queueService.CleanupStale(ctx, cfg.Queue.StaleAfter)
			return err
		})
		sched.Register("daily-metrics-rollup", cfg.Scheduler.MetricsRollupInterval, func(ctx context.Context) error {
			_, err := metricsService.RollupToday(ctx)
			return err
		})
		if err := sched.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := sched.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.Duration("wait_time_interval", cfg.Scheduler.WaitTimeInterval),
			zap.Duration("stale_cleanup_interval", cfg.Scheduler.StaleCleanupInterval),
			zap.Duration("metrics_rollup_interval", cfg.Scheduler.MetricsRollupInterval),
		)
	}

	// Initialize HTTP handlers
	ticketHandler := handler.NewTicketHandler(ticketService)
	queueHandler := handler.NewQueueHandler(queueService)
	patientHandler := handler.NewPatientHandler(patientService)
	serviceTypeHandler := handler.NewServiceTypeHandler(serviceTypeService)
	stationHandler := handler.NewStationHandler(stationService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	notificationHandler := handler.NewNotificationHandler(notificationService, displaySender)
	activityHandler := handler.NewActivityHandler(activityService)
	reportHandler := handler.NewReportHandler(reportService, metricsService, queueService)
	publicHandler := handler.NewPublicHandler(ticketService, queueService, serviceTypeService)
	displayHandler := handler.NewDisplayHandler(videoService)
	healthHandler := handler.NewHealthHandler(db, redisClient, version)
	wsHandler := ws.NewHandler(wsHub, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoints (outside API versioning)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)

	// WebSocket endpoints. Auth is optional at connect time: the display
	// topic is public, station and admin topics require a valid token
	// passed before the upgrade.
	engine.GET("/ws", middleware.OptionalJWTAuthMiddleware(jwtService), wsHandler.Connect)
	engine.GET("/ws/stats", middleware.OptionalJWTAuthMiddleware(jwtService), wsHandler.Stats)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Tighter rate limit on login to slow down credential stuffing
	var loginHandlers []gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		loginHandlers = append(loginHandlers, middleware.RateLimit(authLimiter))
	}
	loginHandlers = append(loginHandlers, authHandler.Login)

	// Identity domain (login is public via JWT skip paths)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", loginHandlers...)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)
	authRoutes.POST("/verify", authHandler.VerifyToken)

	// Public domain: kiosk and waiting-room display endpoints,
	// no authentication (JWT skip prefix /api/v1/public)
	publicRoutes := router.NewDomainGroup("public", "/public")
	publicRoutes.GET("/services", publicHandler.Services)
	publicRoutes.GET("/queues", publicHandler.Queues)
	publicRoutes.GET("/queues/summary", publicHandler.QueueSummary)
	publicRoutes.GET("/queues/:serviceTypeId/waiting", publicHandler.Waiting)
	publicRoutes.GET("/current-calls", publicHandler.CurrentCalls)
	publicRoutes.POST("/tickets", publicHandler.QuickTicket)
	publicRoutes.GET("/tickets/:number", publicHandler.TicketStatus)
	publicRoutes.GET("/display/videos", displayHandler.Playlist)

	// Queueing domain: tickets
	ticketRoutes := router.NewDomainGroup("tickets", "/tickets")
	ticketRoutes.POST("", middleware.RequirePermission(identitydomain.PermTicketsManage), ticketHandler.Create)
	ticketRoutes.POST("/quick", middleware.RequirePermission(identitydomain.PermTicketsManage), ticketHandler.QuickCreate)
	ticketRoutes.GET("", ticketHandler.List)
	ticketRoutes.GET("/stats", ticketHandler.Stats)
	ticketRoutes.GET("/number/:number", ticketHandler.GetByNumber)
	ticketRoutes.POST("/reset-positions/:serviceTypeId", middleware.RequirePermission(identitydomain.PermQueuesManage), ticketHandler.ResetPositions)
	ticketRoutes.GET("/:id", ticketHandler.GetByID)
	ticketRoutes.GET("/:id/position", ticketHandler.Position)
	ticketRoutes.POST("/:id/call", middleware.RequirePermission(identitydomain.PermTicketsCall), ticketHandler.Call)
	ticketRoutes.POST("/:id/attend", middleware.RequirePermission(identitydomain.PermTicketsCall), ticketHandler.Attend)
	ticketRoutes.POST("/:id/complete", middleware.RequirePermission(identitydomain.PermTicketsCall), ticketHandler.Complete)
	ticketRoutes.POST("/:id/cancel", middleware.RequirePermission(identitydomain.PermTicketsCall), ticketHandler.Cancel)
	ticketRoutes.POST("/:id/transfer", middleware.RequirePermission(identitydomain.PermTicketsManage), ticketHandler.Transfer)

	// Queueing domain: live queue state
	queueRoutes := router.NewDomainGroup("queues", "/queues")
	queueRoutes.GET("", queueHandler.ListActive)
	queueRoutes.GET("/summary", queueHandler.Summary)
	queueRoutes.GET("/station/:stationId", queueHandler.ListByStation)
	queueRoutes.GET("/:serviceTypeId", queueHandler.GetState)
	queueRoutes.GET("/:serviceTypeId/states", queueHandler.ListByService)
	queueRoutes.POST("/refresh", middleware.RequirePermission(identitydomain.PermQueuesManage), queueHandler.RefreshAll)
	queueRoutes.POST("/initialize", middleware.RequirePermission(identitydomain.PermQueuesManage), queueHandler.InitializeAll)
	queueRoutes.POST("/consistency", middleware.RequirePermission(identitydomain.PermQueuesManage), queueHandler.ConsistencyCheck)
	queueRoutes.POST("/cleanup", middleware.RequirePermission(identitydomain.PermQueuesManage), queueHandler.CleanupStale)
	queueRoutes.POST("/:serviceTypeId/advance", middleware.RequirePermission(identitydomain.PermTicketsCall), queueHandler.Advance)
	queueRoutes.POST("/:serviceTypeId/refresh", middleware.RequirePermission(identitydomain.PermQueuesManage), queueHandler.Refresh)
	queueRoutes.POST("/:serviceTypeId/reset", middleware.RequirePermission(identitydomain.PermQueuesManage), queueHandler.Reset)
	queueRoutes.POST("/:serviceTypeId/wait-time", middleware.RequirePermission(identitydomain.PermQueuesManage), queueHandler.UpdateWaitTime)

	// Registry domain: patients
	patientRoutes := router.NewDomainGroup("patients", "/patients")
	patientRoutes.POST("", middleware.RequirePermission(identitydomain.PermPatientsWrite), patientHandler.Create)
	patientRoutes.POST("/import", middleware.RequirePermission(identitydomain.PermPatientsWrite), patientHandler.Import)
	patientRoutes.GET("", patientHandler.List)
	patientRoutes.GET("/search", patientHandler.Search)
	patientRoutes.GET("/document/:document", patientHandler.GetByDocument)
	patientRoutes.GET("/:id", patientHandler.GetByID)
	patientRoutes.GET("/:id/queue", patientHandler.QueueInfo)
	patientRoutes.PUT("/:id", middleware.RequirePermission(identitydomain.PermPatientsWrite), patientHandler.Update)
	patientRoutes.DELETE("/:id", middleware.RequirePermission(identitydomain.PermPatientsWrite), patientHandler.Deactivate)

	// Catalog domain: service types, plus per-service queue views
	serviceRoutes := router.NewDomainGroup("services", "/services")
	serviceRoutes.POST("", middleware.RequirePermission(identitydomain.PermCatalogManage), serviceTypeHandler.Create)
	serviceRoutes.GET("", serviceTypeHandler.List)
	serviceRoutes.GET("/active", serviceTypeHandler.ListActive)
	serviceRoutes.GET("/validate-code", serviceTypeHandler.ValidateCode)
	serviceRoutes.GET("/validate-prefix", serviceTypeHandler.ValidatePrefix)
	serviceRoutes.POST("/quick-setup", middleware.RequirePermission(identitydomain.PermCatalogManage), serviceTypeHandler.QuickSetup)
	serviceRoutes.GET("/code/:code", serviceTypeHandler.GetByCode)
	serviceRoutes.GET("/:id", serviceTypeHandler.GetByID)
	serviceRoutes.GET("/:id/stats", serviceTypeHandler.Stats)
	serviceRoutes.GET("/:id/queue", ticketHandler.Queue)
	serviceRoutes.GET("/:id/next", middleware.RequirePermission(identitydomain.PermTicketsCall), ticketHandler.Next)
	serviceRoutes.PUT("/:id", middleware.RequirePermission(identitydomain.PermCatalogManage), serviceTypeHandler.Update)
	serviceRoutes.POST("/:id/activate", middleware.RequirePermission(identitydomain.PermCatalogManage), serviceTypeHandler.Activate)
	serviceRoutes.POST("/:id/deactivate", middleware.RequirePermission(identitydomain.PermCatalogManage), serviceTypeHandler.Deactivate)
	serviceRoutes.DELETE("/:id", middleware.RequirePermission(identitydomain.PermCatalogManage), serviceTypeHandler.Delete)

	// Queueing domain: stations
	stationRoutes := router.NewDomainGroup("stations", "/stations")
	stationRoutes.POST("", middleware.RequirePermission(identitydomain.PermStationsWrite), stationHandler.Create)
	stationRoutes.GET("", stationHandler.List)
	stationRoutes.GET("/available", stationHandler.ListAvailable)
	stationRoutes.GET("/code/:code", stationHandler.GetByCode)
	stationRoutes.GET("/:id", stationHandler.GetByID)
	stationRoutes.PUT("/:id", middleware.RequirePermission(identitydomain.PermStationsWrite), stationHandler.Update)
	// Agents toggle their own station between busy and available
	stationRoutes.PATCH("/:id/status", middleware.RequireAnyPermission(identitydomain.PermStationsWrite, identitydomain.PermTicketsCall), stationHandler.SetStatus)
	stationRoutes.DELETE("/:id", middleware.RequirePermission(identitydomain.PermStationsWrite), stationHandler.Deactivate)

	// Identity domain: user management
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequirePermission(identitydomain.PermUsersManage))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/search", userHandler.Search)
	userRoutes.GET("/stats", userHandler.Stats)
	userRoutes.GET("/roles", userHandler.ListRoles)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/station", userHandler.AssignStation)
	userRoutes.PUT("/:id/role", userHandler.AssignRole)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	userRoutes.DELETE("/:id", userHandler.Deactivate)

	// Notification domain: delivery log and retries
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.Use(middleware.RequirePermission(identitydomain.PermReportsView))
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/failures", notificationHandler.ListFailures)
	notificationRoutes.GET("/ticket/:ticketId", notificationHandler.ListByTicket)
	notificationRoutes.POST("/:id/retry", notificationHandler.Retry)

	// Reporting domain: audit trail
	activityRoutes := router.NewDomainGroup("activity", "/activity")
	activityRoutes.Use(middleware.RequirePermission(identitydomain.PermReportsView))
	activityRoutes.GET("", activityHandler.List)
	activityRoutes.GET("/ticket/:ticketId", activityHandler.ListByTicket)

	// Reporting domain: dashboards and metrics
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.Use(middleware.RequirePermission(identitydomain.PermReportsView))
	reportRoutes.GET("/dashboard", reportHandler.Dashboard)
	reportRoutes.GET("/tickets-by-day", reportHandler.TicketsByDay)
	reportRoutes.GET("/tickets-by-hour", reportHandler.TicketsByHour)
	reportRoutes.GET("/by-service", reportHandler.ByService)
	reportRoutes.GET("/by-station", reportHandler.ByStation)
	reportRoutes.GET("/wait-times", reportHandler.WaitTimeDistribution)
	reportRoutes.GET("/daily-metrics", reportHandler.DailyMetrics)
	reportRoutes.POST("/rollup", reportHandler.RollupDay)

	// Display domain: waiting-room video playlist management
	displayRoutes := router.NewDomainGroup("display", "/display")
	displayRoutes.GET("/videos", displayHandler.List)
	displayRoutes.POST("/videos", middleware.RequirePermission(identitydomain.PermCatalogManage), displayHandler.Create)
	displayRoutes.PUT("/videos/reorder", middleware.RequirePermission(identitydomain.PermCatalogManage), displayHandler.Reorder)
	displayRoutes.GET("/videos/:id", displayHandler.GetByID)
	displayRoutes.PUT("/videos/:id", middleware.RequirePermission(identitydomain.PermCatalogManage), displayHandler.Update)
	displayRoutes.POST("/videos/:id/toggle", middleware.RequirePermission(identitydomain.PermCatalogManage), displayHandler.ToggleActive)
	displayRoutes.DELETE("/videos/:id", middleware.RequirePermission(identitydomain.PermCatalogManage), displayHandler.Delete)

	// Register all domain groups
	r.Register(authRoutes).
		Register(publicRoutes).
		Register(ticketRoutes).
		Register(queueRoutes).
		Register(patientRoutes).
		Register(serviceRoutes).
		Register(stationRoutes).
		Register(userRoutes).
		Register(notificationRoutes).
		Register(activityRoutes).
		Register(reportRoutes).
		Register(displayRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildCacheLayer connects to Redis and wires the queue cache and token
// blacklist on top of it, falling back to in-memory implementations when
// Redis is not reachable.
func buildCacheLayer(cfg *config.Config, log *zap.Logger) (cache.QueueCache, auth.TokenBlacklist, *redis.Client) {
	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory queue cache and token blacklist",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
		return cache.NewInMemoryQueueCache(cfg.Queue.CacheTTL), auth.NewInMemoryTokenBlacklist(), nil
	}
	log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	return cache.NewRedisQueueCache(client, cfg.Queue.CacheTTL), auth.NewRedisTokenBlacklistWithClient(client), client
}
