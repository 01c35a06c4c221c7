package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/task-service/internal/api/http"
	"github.com/spec-kit/task-service/internal/api/http/handlers"
	"github.com/spec-kit/task-service/internal/api/pipeline"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/cache"
	"github.com/spec-kit/task-service/internal/clock"
	"github.com/spec-kit/task-service/internal/config"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/observability"
	"github.com/spec-kit/task-service/internal/persistence"
	"github.com/spec-kit/task-service/internal/repository"
	"github.com/spec-kit/task-service/internal/service"
	"github.com/spec-kit/task-service/internal/worker"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

const shutdownTimeout = 10 * time.Second

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

	clk := clock.System{}
	metrics := observability.NewMetrics()

	db := repository.NewQuerier(pg.PoolHandle())
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), clk)
	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost, clk)
	taskEvents := events.NewInMemoryDispatcher()
	worker.StartTaskAuditWorker(taskEvents, logger)
	taskService := service.NewTaskService(taskRepo, cache.NewTaskCache(redis.Client, cfg.Cache.TaskTTL()), clk, logger).
		WithEvents(taskEvents)

	chain := pipeline.NewChain(
		pipeline.NewRequestIDMiddleware(),
		pipeline.NewLoggingMiddleware(logger, clk, metrics),
		pipeline.NewCorsMiddleware(),
	)
	responder := pipeline.NewResponder(logger, apperrors.Policy{EchoDatabase: cfg.EchoDatabase()}, metrics)
	dispatcher := pipeline.NewDispatcher(chain, auth.NewGuard(tokens), responder, clk, logger)

	app := httptransport.NewApp(cfg.App.Name, dispatcher)
	httptransport.RegisterMiddlewares(app, cfg.HTTP.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Prefix:     cfg.HTTP.Prefix,
		Dispatcher: dispatcher,
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, clk, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:  handlers.NewAuthHandler(authService),
		Tasks: handlers.NewTasksHandler(taskService),
	})

	logger.Info("starting server",
		zap.String("addr", cfg.App.Addr()),
		zap.String("env", cfg.App.Env),
		zap.Strings("middleware", chain.Names()),
	)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
