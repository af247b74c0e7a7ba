package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/employee-directory/internal/api/http"
	"github.com/spec-kit/employee-directory/internal/api/http/handlers"
	"github.com/spec-kit/employee-directory/internal/config"
	"github.com/spec-kit/employee-directory/internal/events"
	"github.com/spec-kit/employee-directory/internal/hierarchy"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/persistence"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/seed"
	"github.com/spec-kit/employee-directory/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var (
		employeeRepo     repository.EmployeeRepository
		compensationRepo repository.CompensationRepository
		store            handlers.Pinger
		storeName        string
	)
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		employeeRepo = repository.NewEmployeeRepository(pg.PoolHandle())
		compensationRepo = repository.NewCompensationRepository(pg.PoolHandle())
		store, storeName = pg, "postgres"
	} else {
		mem := repository.NewMemoryStore()
		employeeRepo = mem.Employees()
		compensationRepo = mem.Compensations()
		store, storeName = mem, "memory"
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, redis, logger, cfg.Events).RegisterHandlers()

	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo:     employeeRepo,
		CompensationRepo: compensationRepo,
		Resolver:         hierarchy.NewResolver(employeeRepo),
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
	})

	if cfg.App.IsDevelopment() && cfg.Seed.SampleData {
		if err := seed.NewSeeder(employeeRepo, logger).Seed(ctx); err != nil {
			logger.Fatal("failed to seed sample organization", zap.Error(err))
		}
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, storeName, store, redis),
		Employees: handlers.NewEmployeeHandler(employeeService, logger),
		Metrics:   metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
