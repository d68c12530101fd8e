package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/aidat/backend/internal/application/audit"
	duesapp "github.com/aidat/backend/internal/application/dues"
	financeapp "github.com/aidat/backend/internal/application/finance"
	identityapp "github.com/aidat/backend/internal/application/identity"
	notificationapp "github.com/aidat/backend/internal/application/notification"
	reportapp "github.com/aidat/backend/internal/application/report"
	residenceapp "github.com/aidat/backend/internal/application/residence"
	"github.com/aidat/backend/internal/domain/shared"
	infraaudit "github.com/aidat/backend/internal/infrastructure/audit"
	"github.com/aidat/backend/internal/infrastructure/auth"
	"github.com/aidat/backend/internal/infrastructure/cache"
	"github.com/aidat/backend/internal/infrastructure/config"
	"github.com/aidat/backend/internal/infrastructure/event"
	"github.com/aidat/backend/internal/infrastructure/export"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/aidat/backend/internal/infrastructure/persistence"
	"github.com/aidat/backend/internal/infrastructure/scheduler"
	"github.com/aidat/backend/internal/infrastructure/telemetry"
	"github.com/aidat/backend/internal/interfaces/http/handler"
	"github.com/aidat/backend/internal/interfaces/http/middleware"
	"github.com/aidat/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "1.0.0"

//	@title			Aidat API
//	@version		1.0
//	@description	Apartment dues, payments, expenses and residents administration API

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
		File: logger.FileConfig{
			Path:       cfg.Log.FilePath,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("database", cfg.Database.Type),
	)

	tel, err := telemetry.Setup(context.Background(), cfg.Telemetry, version, log)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry did not flush", zap.Error(err))
		}
	}()
	log = logger.Bridge(log, tel.ZapCore(log.Level()))

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level, persistence.WithTracing(cfg.Telemetry))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	if cfg.Database.Type == config.DatabaseSQLite {
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("auto-migrate sqlite: %w", err)
		}
		log.Info("SQLite schema migrated", zap.String("path", cfg.Database.SQLitePath))
	}

	redisClient, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).Client()
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}

	// Repositories
	gdb := db.DB
	adminRepo := persistence.NewGormAdminUserRepository(gdb)
	apartmentRepo := persistence.NewGormApartmentRepository(gdb)
	blockRepo := persistence.NewGormBlockRepository(gdb)
	flatRepo := persistence.NewGormFlatRepository(gdb)
	residentRepo := persistence.NewGormResidentRepository(gdb)
	dueRepo := persistence.NewGormDueRepository(gdb)
	paymentRepo := persistence.NewGormPaymentRepository(gdb)
	expenseRepo := persistence.NewGormExpenseRepository(gdb)
	incomeRepo := persistence.NewGormIncomeRepository(gdb)
	notificationRepo := persistence.NewGormNotificationRepository(gdb)
	auditRepo := persistence.NewGormAuditLogRepository(gdb)
	txManager := persistence.NewTxManager(gdb)

	// Audit outbox and event bus
	outbox := infraaudit.NewOutbox(auditRepo, log, cfg.Audit.BufferSize)
	outbox.Start()
	bus := event.NewInMemoryEventBus(log.Named("events"))

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewTokenBlacklist(redisClient)

	// Application services
	authService := identityapp.NewAuthService(adminRepo, jwtService, blacklist, outbox, log)
	adminService := identityapp.NewAdminService(adminRepo, jwtService, blacklist, outbox, log)
	residenceService := residenceapp.NewResidenceService(apartmentRepo, blockRepo, flatRepo, residentRepo, outbox, log)
	residentService := residenceapp.NewResidentService(residentRepo, flatRepo, txManager, outbox, log)
	paymentService := duesapp.NewPaymentService(dueRepo, paymentRepo, txManager, outbox, bus, cfg.Dues, log)
	dueService := duesapp.NewDueService(dueRepo, flatRepo, blockRepo, paymentService, outbox, bus, cfg.Dues, log)
	lateFeeService := duesapp.NewLateFeeService(dueRepo, outbox, bus, cfg.Dues, log)
	financeService := financeapp.NewExpenseIncomeService(expenseRepo, incomeRepo, apartmentRepo, outbox, bus, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, dueRepo, flatRepo, blockRepo, outbox, log)
	auditService := auditapp.NewService(auditRepo)

	reportRepos := reportapp.Repositories{
		Dues:      dueRepo,
		Payments:  paymentRepo,
		Expenses:  expenseRepo,
		Incomes:   incomeRepo,
		Flats:     flatRepo,
		Residents: residentRepo,
	}
	reportService := reportapp.NewReportService(reportRepos, cache.NewStore(redisClient, "aidat:"), cfg.Report.CacheTTL, log)
	exportService := reportapp.NewExportService(reportRepos, auditRepo, export.NewExporter(), outbox, log)

	// every write drops the cached dashboard
	residenceService.SetCacheInvalidator(reportService)
	residentService.SetCacheInvalidator(reportService)
	paymentService.SetCacheInvalidator(reportService)
	dueService.SetCacheInvalidator(reportService)
	lateFeeService.SetCacheInvalidator(reportService)
	financeService.SetCacheInvalidator(reportService)

	duesMetrics, err := telemetry.NewDuesMetrics(tel.Meter("aidat/dues"))
	if err != nil {
		return fmt.Errorf("dues metrics: %w", err)
	}
	dueService.SetMetrics(duesMetrics)
	paymentService.SetMetrics(duesMetrics)
	lateFeeService.SetMetrics(duesMetrics)

	for _, h := range []shared.EventHandler{
		notificationapp.NewOverdueAlertHandler(notificationService, log),
		notificationapp.NewPaymentConfirmationHandler(notificationService, log),
	} {
		bus.Subscribe(h, h.EventTypes()...)
	}
	if err := bus.Start(context.Background()); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	created, err := adminService.SeedSuperAdmin(seedCtx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	cancelSeed()
	if err != nil {
		return fmt.Errorf("seed super-admin: %w", err)
	}
	if created {
		log.Info("Initial super-admin created", zap.String("email", cfg.Seed.AdminEmail))
	}

	// Scheduler
	sched := scheduler.New(scheduler.Config{
		Enabled:    cfg.Scheduler.Enabled,
		JobTimeout: cfg.Scheduler.JobTimeout,
		Location:   time.Local,
	}, log)
	duesJobs, err := scheduler.RegisterDuesJobs(sched, scheduler.DuesJobSpecs{
		LateFee:  cfg.Scheduler.LateFeeCron,
		Reminder: cfg.Scheduler.ReminderCron,
	}, lateFeeService, notificationService)
	if err != nil {
		return fmt.Errorf("register jobs: %w", err)
	}
	sched.Start()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		return fmt.Errorf("setup validator: %w", err)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tel.Enabled(),
	}))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.HTTP.CORSAllowOrigins...)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	systemHandler := handler.NewSystemHandler(version, healthChecks(db, redisClient))
	systemHandler.SetScheduler(sched)

	router.Mount(engine, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, adminService),
		Residence:    handler.NewResidenceHandler(residenceService),
		Resident:     handler.NewResidentHandler(residentService),
		Due:          handler.NewDueHandler(dueService, duesJobs, paymentService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Finance:      handler.NewFinanceHandler(financeService),
		Audit:        handler.NewAuditHandler(auditService),
		Notification: handler.NewNotificationHandler(notificationService),
		Report:       handler.NewReportHandler(reportService, exportService),
		System:       systemHandler,
	}, router.Guards{
		Authenticate:   middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		LoginThrottle:  middleware.LoginRateLimit(middleware.NewRateLimiter(10, time.Minute)),
		SuperAdminOnly: middleware.RequireRole(log, shared.RoleSuperAdmin, shared.RoleSystem),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP shutdown failed", zap.Error(err))
	}
	if err := sched.Stop(ctx); err != nil {
		log.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := bus.Stop(ctx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), cfg.Audit.FlushTimeout)
	defer cancelFlush()
	if err := outbox.Close(flushCtx); err != nil {
		log.Warn("Audit outbox did not drain", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

func healthChecks(db *persistence.Database, client *redis.Client) map[string]handler.Checker {
	checks := map[string]handler.Checker{
		"database": func(context.Context) error { return db.Ping() },
	}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return checks
}
