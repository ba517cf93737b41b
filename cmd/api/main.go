package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/stringing-service/internal/api/http"
	"github.com/spec-kit/stringing-service/internal/api/http/handlers"
	"github.com/spec-kit/stringing-service/internal/auth"
	"github.com/spec-kit/stringing-service/internal/config"
	"github.com/spec-kit/stringing-service/internal/events"
	"github.com/spec-kit/stringing-service/internal/observability"
	"github.com/spec-kit/stringing-service/internal/persistence"
	"github.com/spec-kit/stringing-service/internal/repository"
	"github.com/spec-kit/stringing-service/internal/service"
	"github.com/spec-kit/stringing-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	stringingRepo := repository.NewStringingRepository(pool)
	analyticsCache := repository.NewAnalyticsCache(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	eventLogService := service.NewEventLogService(dispatcher, logger)
	worker.StartEventLogWorker(eventLogService)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, authService)
	stringingService := service.NewStringingService(service.StringingDependencies{
		StringingRepo: stringingRepo,
		UserRepo:      userRepo,
		Dispatcher:    dispatcher,
	})
	analyticsService := service.NewAnalyticsService(stringingRepo, userRepo, analyticsCache, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Stringings:     handlers.NewStringingsHandler(stringingService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		AuthMiddleware: authMiddleware,
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
